package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// GzipConfig controls response compression
type GzipConfig struct {
	Level         int
	ExcludedPaths []string
}

// DefaultGzipConfig skips the metrics endpoint, which negotiates its own
// encoding, and the websocket stream.
func DefaultGzipConfig() GzipConfig {
	return GzipConfig{
		Level:         gzip.DefaultCompression,
		ExcludedPaths: []string{"/metrics", "/stream"},
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) WriteHeader(code int) {
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	g.Header().Del("Content-Length")
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

// Gzip compresses responses for clients that accept gzip
func Gzip(cfg GzipConfig) gin.HandlerFunc {
	level := cfg.Level
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	pool := sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		},
	}

	return func(c *gin.Context) {
		if !shouldCompress(c.Request, cfg.ExcludedPaths) {
			c.Next()
			return
		}

		gz := pool.Get().(*gzip.Writer)
		gz.Reset(c.Writer)

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &gzipWriter{ResponseWriter: c.Writer, writer: gz}

		defer func() {
			if status := c.Writer.Status(); status == http.StatusNoContent || status == http.StatusNotModified || c.Request.Method == http.MethodHead {
				gz.Reset(io.Discard)
			}
			gz.Close()
			pool.Put(gz)
		}()

		c.Next()
	}
}

func shouldCompress(r *http.Request, excluded []string) bool {
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return false
	}
	for _, p := range excluded {
		if r.URL.Path == p || strings.HasPrefix(r.URL.Path, p+"/") {
			return false
		}
	}
	return true
}
