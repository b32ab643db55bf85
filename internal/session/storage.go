// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session owns the client-side session state: who is using the
// application and the credential token handed out by the auth backend.
// State is persisted in durable per-browser storage so identity survives
// page reloads, and cleared completely on logout.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Storage is the durable client storage boundary: a string-keyed key/value
// store persistent across reloads within one browser profile. Implementations
// must return empty strings (not errors) for absent keys; errors are reserved
// for the storage itself being unavailable.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// NewManager creates the scs session manager backing the production Storage.
// Session data lives in the local SQLite database keyed by a browser cookie,
// so it persists across reloads but never across browser profiles.
func NewManager(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// scsStorage adapts an scs session manager to the Storage interface.
// scs keeps session data in the request context, so all operations are
// context-scoped to the current browser session.
type scsStorage struct {
	sm *scs.SessionManager
}

// NewStorage wraps a session manager as durable client storage.
func NewStorage(sm *scs.SessionManager) Storage {
	return &scsStorage{sm: sm}
}

func (s *scsStorage) Get(ctx context.Context, key string) (string, error) {
	return s.sm.GetString(ctx, key), nil
}

func (s *scsStorage) Set(ctx context.Context, key, value string) error {
	s.sm.Put(ctx, key, value)
	return nil
}

func (s *scsStorage) Remove(ctx context.Context, key string) error {
	s.sm.Remove(ctx, key)
	return nil
}
