package middleware

import (
	"compress/gzip"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.writer.Write([]byte(s))
}

// Implement the Pusher interface
func (g *gzipWriter) Pusher() http.Pusher {
	if pusher, ok := g.ResponseWriter.(http.Pusher); ok {
		return pusher
	}
	return nil
}

// compressible lists the output extensions worth compressing. Extensionless
// paths are rendered pages, which are always text.
var compressible = map[string]bool{
	"":      true,
	".html": true,
	".css":  true,
	".js":   true,
	".svg":  true,
	".xml":  true,
	".txt":  true,
}

func shouldGzip(c *gin.Context) bool {
	if c.Request.Header.Get("Upgrade") != "" {
		return false
	}
	if !strings.Contains(strings.ToLower(c.Request.Header.Get("Accept-Encoding")), "gzip") {
		return false
	}
	return compressible[strings.ToLower(path.Ext(c.Request.URL.Path))]
}

// GzipMiddleware compresses text responses for clients that accept gzip.
// Content-Encoding is set before the handler runs so the file server skips
// its Content-Length header for compressed bodies.
func GzipMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldGzip(c) {
			c.Next()
			return
		}

		gz := gzip.NewWriter(c.Writer)
		defer gz.Close()

		c.Writer = &gzipWriter{
			ResponseWriter: c.Writer,
			writer:         gz,
		}
		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		c.Next()
	}
}
