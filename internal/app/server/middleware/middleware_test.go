package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestGzipMiddleware_CompressesPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", bytes.Repeat([]byte("<p>hello</p>"), 64))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("expected gzip response")
	}

	gr, err := gzip.NewReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	out, _ := io.ReadAll(gr)
	_ = gr.Close()
	if !bytes.Contains(out, []byte("<p>hello</p>")) {
		t.Fatalf("unexpected body: %s", out)
	}
}

func TestGzipMiddleware_SkipsWithoutAcceptEncoding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "plain")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Header().Get("Content-Encoding") != "" {
		t.Fatal("response must not be compressed")
	}
	if rr.Body.String() != "plain" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}

func TestGzipMiddleware_SkipsBinaryExtensions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipMiddleware())
	router.GET("/static/img/photo.png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	})

	req := httptest.NewRequest(http.MethodGet, "/static/img/photo.png", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") != "" {
		t.Fatal("binary responses must not be compressed")
	}
}

func TestETagMiddleware_TagsAndRevalidates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ETagMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>stable</p>"))
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

	tag := first.Header().Get("ETag")
	if tag == "" {
		t.Fatal("expected an ETag header")
	}
	if first.Body.String() != "<p>stable</p>" {
		t.Fatalf("unexpected body: %q", first.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", tag)
	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)

	if second.Code != http.StatusNotModified {
		t.Fatalf("status=%d, want %d", second.Code, http.StatusNotModified)
	}
	if second.Body.Len() != 0 {
		t.Fatalf("304 must have no body, got %q", second.Body.String())
	}
}

func TestETagMiddleware_LeavesErrorsUntagged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ETagMiddleware())
	router.GET("/missing", func(c *gin.Context) {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("<p>gone</p>"))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Header().Get("ETag") != "" {
		t.Fatal("error responses must not carry an ETag")
	}
	if rr.Body.String() != "<p>gone</p>" {
		t.Fatalf("body must pass through, got %q", rr.Body.String())
	}
}

// The production chain registers ETag before Gzip, so the tag covers the
// compressed representation and revalidation never emits trailer bytes.
func TestETagWithGzip_RevalidatesCompressed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ETagMiddleware(), GzipMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", bytes.Repeat([]byte("<p>page</p>"), 32))
	})

	get := func(tag string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		if tag != "" {
			req.Header.Set("If-None-Match", tag)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	first := get("")
	second := get("")
	if first.Header().Get("ETag") == "" || first.Header().Get("ETag") != second.Header().Get("ETag") {
		t.Fatalf("tags must be stable, got %q and %q", first.Header().Get("ETag"), second.Header().Get("ETag"))
	}

	third := get(first.Header().Get("ETag"))
	if third.Code != http.StatusNotModified {
		t.Fatalf("status=%d, want %d", third.Code, http.StatusNotModified)
	}
	if third.Body.Len() != 0 {
		t.Fatalf("304 must have no body, got %d bytes", third.Body.Len())
	}
}

func TestCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/static/css/site.css", CacheControl(24*time.Hour), func(c *gin.Context) {
		c.String(http.StatusOK, "body{}")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))

	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("Cache-Control=%q", got)
	}
}

func TestLoggingMiddleware_Fields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := logtest.NewNullLogger()

	router := gin.New()
	router.Use(LoggingMiddleware(logger))
	router.GET("/blog", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog", nil))

	if len(hook.Entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(hook.Entries))
	}
	entry := hook.LastEntry()
	if entry.Data["method"] != http.MethodGet || entry.Data["path"] != "/blog" {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}
	if entry.Data["status"] != http.StatusOK {
		t.Fatalf("unexpected status field: %v", entry.Data["status"])
	}
}
