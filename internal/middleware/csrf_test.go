// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultCSRFConfigDevelopment(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	cfg := DefaultCSRFConfig(key, true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
	}
	if len(cfg.TrustedOrigins) == 0 {
		t.Fatal("dev config should trust localhost origins")
	}
	for _, origin := range cfg.TrustedOrigins {
		// The csrf library wants host:port values, not URLs.
		if strings.HasPrefix(origin, "http") {
			t.Errorf("trusted origin %q must be host:port, not a URL", origin)
		}
		if !strings.Contains(origin, ":") {
			t.Errorf("trusted origin %q is missing a port", origin)
		}
	}
}

func TestDefaultCSRFConfigProduction(t *testing.T) {
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false)

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("production config should trust no extra origins, got %v", cfg.TrustedOrigins)
	}
}

func TestCSRFAllowsSameSiteRequests(t *testing.T) {
	wrapped := CSRF(DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	req := httptest.NewRequest(http.MethodPost, "/blogs/b1/comments", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestCSRFRejectsCrossSitePost(t *testing.T) {
	wrapped := CSRF(DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	req := httptest.NewRequest(http.MethodPost, "/blogs/b1/comments", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestCSRFCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	})

	wrapped := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}
