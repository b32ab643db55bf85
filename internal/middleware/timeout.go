// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after d and answers with 503 if the
// handler has not produced a response by then. A handler that already started
// writing keeps the connection; only unwritten responses get the 503.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				gw.mu.Lock()
				defer gw.mu.Unlock()
				if !gw.written {
					gw.written = true
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("request timed out"))
				}
			}
		})
	}
}

// guardedWriter serializes writes so the timeout response and the handler's
// own response cannot interleave.
type guardedWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	written bool
}

func (gw *guardedWriter) WriteHeader(code int) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.written {
		return
	}
	gw.written = true
	gw.ResponseWriter.WriteHeader(code)
}

func (gw *guardedWriter) Write(p []byte) (int, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if !gw.written {
		gw.written = true
		gw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return gw.ResponseWriter.Write(p)
}
