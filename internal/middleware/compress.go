// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

// CompressSelective gzip-compresses responses for clients that accept it,
// but only when the body is at least minSize bytes and the content type is
// worth compressing. Small bodies and binary assets pass through unchanged.
func CompressSelective(minSize int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{ResponseWriter: w, minSize: minSize}
			next.ServeHTTP(bw, r)
			bw.flush()
		})
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// bufferedWriter holds the response until the handler finishes, then decides
// whether to emit it gzipped based on size and content type.
type bufferedWriter struct {
	http.ResponseWriter
	minSize int
	status  int
	body    []byte
}

func (bw *bufferedWriter) WriteHeader(status int) {
	bw.status = status
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	bw.body = append(bw.body, p...)
	return len(p), nil
}

func (bw *bufferedWriter) flush() {
	if len(bw.body) == 0 {
		if bw.status != 0 {
			bw.ResponseWriter.WriteHeader(bw.status)
		}
		return
	}

	compress := len(bw.body) >= bw.minSize && compressible(bw.Header().Get("Content-Type"))
	if compress {
		bw.Header().Set("Content-Encoding", "gzip")
		bw.Header().Set("Vary", "Accept-Encoding")
		bw.Header().Del("Content-Length")
	}

	if bw.status != 0 {
		bw.ResponseWriter.WriteHeader(bw.status)
	}

	if !compress {
		_, _ = bw.ResponseWriter.Write(bw.body)
		return
	}

	gz := gzipPool.Get().(*gzip.Writer)
	gz.Reset(bw.ResponseWriter)
	_, _ = gz.Write(bw.body)
	_ = gz.Close()
	gzipPool.Put(gz)
}

// compressible reports whether a content type benefits from gzip. Text-based
// types do; images and already compressed formats do not.
func compressible(contentType string) bool {
	if contentType == "" {
		return false
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	contentType = strings.ToLower(contentType)

	switch contentType {
	case "application/json", "application/javascript", "application/xml",
		"application/rss+xml", "application/atom+xml", "image/svg+xml":
		return true
	}
	return strings.HasPrefix(contentType, "text/")
}
