// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// session handling, and request context handling.
package middleware

import (
	"net/http"

	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/session"
)

// InitSession creates middleware that restores the auth snapshot from the
// session into the request context. Handlers below it see a ready session
// state; handlers above it see the loading state, where no user is
// authenticated.
func InitSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := store.Initialize(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth creates middleware that redirects unauthenticated requests
// to the login page. Must run below InitSession.
func RequireAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that restricts a route to admin users.
// Unauthenticated requests are redirected to login, authenticated
// non-admins get a 403. Must run below InitSession.
func RequireAdmin(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := store.CurrentUser(r.Context())
			if user == nil || !store.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin() {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil when the session is not initialized or no user is logged in.
func GetUser(store *session.Store, r *http.Request) *model.User {
	return store.CurrentUser(r.Context())
}
