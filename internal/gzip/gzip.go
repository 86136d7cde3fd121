// Package gzip provides HTTP middleware that transparently decompresses
// request bodies and compresses responses for clients that accept gzip.
package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

type compressWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer
}

func newCompressWriter(w http.ResponseWriter) *compressWriter {
	return &compressWriter{
		w:  w,
		zw: gzip.NewWriter(w),
	}
}

func (c *compressWriter) Header() http.Header {
	return c.w.Header()
}

func (c *compressWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *compressWriter) WriteHeader(statusCode int) {
	c.w.Header().Set("Content-Encoding", "gzip")
	c.w.Header().Del("Content-Length")
	c.w.WriteHeader(statusCode)
}

func (c *compressWriter) Close() error {
	return c.zw.Close()
}

type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) *compressReader {
	return &compressReader{r: r}
}

// Read opens the gzip stream on first use, so a broken header surfaces as a
// read error in the wrapped handler.
func (c *compressReader) Read(p []byte) (int, error) {
	if c.zr == nil {
		zr, err := gzip.NewReader(c.r)
		if err != nil {
			return 0, err
		}
		c.zr = zr
	}
	return c.zr.Read(p)
}

func (c *compressReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	if c.zr == nil {
		return nil
	}
	return c.zr.Close()
}

func GzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ow := w

		// клиент прислал сжатый запрос
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			cr := newCompressReader(r.Body)
			r.Body = cr
			defer cr.Close()
		}

		// клиент принимает сжатый ответ
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			cw := newCompressWriter(w)
			cw.Header().Set("Content-Encoding", "gzip")
			ow = cw
			defer cw.Close()
		}

		h(ow, r)
	}
}
