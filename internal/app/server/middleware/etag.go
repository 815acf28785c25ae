package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// etagWriter buffers the response so the tag can be computed before
// anything reaches the client.
type etagWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *etagWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *etagWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *etagWriter) WriteHeader(code int) {
	w.status = code
}

func (w *etagWriter) WriteHeaderNow() {}

func (w *etagWriter) Status() int {
	return w.status
}

// ETagMiddleware tags 200 responses with a strong ETag and answers
// If-None-Match revalidations with 304 Not Modified. Pages render
// deterministically, so a tag stays valid until content changes.
func ETagMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/livereload") {
			c.Next()
			return
		}

		origWriter := c.Writer
		writer := &etagWriter{
			ResponseWriter: origWriter,
			body:           new(bytes.Buffer),
			status:         http.StatusOK,
		}
		c.Writer = writer

		c.Next()

		body := writer.body.Bytes()
		if writer.status == http.StatusOK && len(body) > 0 {
			sum := sha256.Sum256(body)
			tag := `"` + hex.EncodeToString(sum[:]) + `"`
			origWriter.Header().Set("ETag", tag)
			if c.GetHeader("If-None-Match") == tag {
				writer.status = http.StatusNotModified
				origWriter.WriteHeader(http.StatusNotModified)
				origWriter.WriteHeaderNow()
				return
			}
		}

		origWriter.WriteHeader(writer.status)
		if _, err := origWriter.Write(body); err != nil {
			_ = c.Error(err)
		}
	}
}
