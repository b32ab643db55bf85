// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/isbguide/isbguide-go/internal/model"
)

// Storage keys for the persisted session pair. The two entries are always
// set and cleared together; a lone entry is treated as corrupt state.
const (
	KeyUser  = "auth_user"
	KeyToken = "auth_token"
)

// State describes the initialization state of the session for a request.
type State int

const (
	// StateLoading means Initialize has not completed yet. Consumers must
	// not assume either authenticated or unauthenticated while loading.
	StateLoading State = iota
	// StateReady means the persisted session (if any) has been read.
	StateReady
)

// ErrNotInitialized is returned by Login/Logout when Initialize has not
// run for the request context.
var ErrNotInitialized = errors.New("session: not initialized")

// contextKey is unexported to avoid collisions with other context users.
type contextKey struct{}

// snapshot is the per-request in-memory session cell. It is mutated only
// by Login and Logout, both of which run to completion without yielding.
type snapshot struct {
	user  *model.User
	token string
}

// Store is the single source of truth for "who is using the application".
// It is an injectable instance: handlers receive it explicitly rather than
// reaching for package-level state, so tests can substitute the Storage.
type Store struct {
	storage Storage
}

// NewStore creates a session store over the given durable storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Initialize reads the persisted (user, token) pair and returns a context
// carrying the resulting in-memory session. A malformed or partial pair is
// treated as "no session": the session starts unauthenticated and the
// leftover entries are cleared. Storage errors are swallowed — the session
// simply starts logged out. Idempotent: a context that already carries a
// session is returned unchanged.
func (s *Store) Initialize(ctx context.Context) context.Context {
	if _, ok := fromContext(ctx); ok {
		return ctx
	}

	snap := &snapshot{}
	ctx = context.WithValue(ctx, contextKey{}, snap)

	rawUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		slog.Debug("session storage unavailable, starting logged out", "error", err)
		return ctx
	}
	token, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		slog.Debug("session storage unavailable, starting logged out", "error", err)
		return ctx
	}

	if rawUser == "" || token == "" {
		// Partial state (one entry without the other) is corrupt: fail open
		// to logged-out and drop the stray entry.
		if rawUser != "" || token != "" {
			s.clear(ctx)
		}
		return ctx
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || !user.Valid() {
		slog.Warn("discarding malformed persisted session")
		s.clear(ctx)
		return ctx
	}

	snap.user = &user
	snap.token = token
	return ctx
}

// Login atomically persists the (user, token) pair and updates the
// in-memory session, overwriting any prior session. The caller guarantees
// a well-formed user and non-empty token: the pair comes straight from the
// auth backend's response and is not re-validated here.
func (s *Store) Login(ctx context.Context, user model.User, token string) error {
	snap, ok := fromContext(ctx)
	if !ok {
		return ErrNotInitialized
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, KeyUser, string(rawUser)); err != nil {
		// Keep the invariant "token present iff user present".
		_ = s.storage.Remove(ctx, KeyToken)
		return err
	}

	snap.user = &user
	snap.token = token
	return nil
}

// Logout atomically clears the persisted pair and the in-memory session.
// Idempotent: logging out while logged out is a no-op.
func (s *Store) Logout(ctx context.Context) {
	snap, ok := fromContext(ctx)
	if !ok {
		return
	}
	s.clear(ctx)
	snap.user = nil
	snap.token = ""
}

// IsAuthenticated returns true iff an in-memory user is present and a
// durable token is present at call time. Re-checking storage (not just
// memory) is what lets a session invalidated elsewhere report logged-out
// here. During the pre-initialization window it returns false.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	snap, ok := fromContext(ctx)
	if !ok || snap.user == nil {
		return false
	}
	token, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return false
	}
	return token != ""
}

// CurrentUser returns the in-memory user record, or nil when
// unauthenticated or still loading.
func (s *Store) CurrentUser(ctx context.Context) *model.User {
	snap, ok := fromContext(ctx)
	if !ok {
		return nil
	}
	return snap.user
}

// Token returns the credential token for authorizing backend calls, or ""
// when unauthenticated or still loading.
func (s *Store) Token(ctx context.Context) string {
	snap, ok := fromContext(ctx)
	if !ok {
		return ""
	}
	return snap.token
}

// StateOf reports whether the session has been initialized for this context.
func (s *Store) StateOf(ctx context.Context) State {
	if _, ok := fromContext(ctx); ok {
		return StateReady
	}
	return StateLoading
}

// clear removes both persisted entries, swallowing storage errors.
func (s *Store) clear(ctx context.Context) {
	if err := s.storage.Remove(ctx, KeyUser); err != nil {
		slog.Debug("failed to remove persisted user", "error", err)
	}
	if err := s.storage.Remove(ctx, KeyToken); err != nil {
		slog.Debug("failed to remove persisted token", "error", err)
	}
}

func fromContext(ctx context.Context) (*snapshot, bool) {
	snap, ok := ctx.Value(contextKey{}).(*snapshot)
	return snap, ok
}
