// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/session"
)

// mapStorage is an in-memory session.Storage for tests.
type mapStorage struct {
	data map[string]string
}

func newMapStorage() *mapStorage {
	return &mapStorage{data: make(map[string]string)}
}

func (s *mapStorage) Get(_ context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *mapStorage) Set(_ context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func (s *mapStorage) Remove(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func loginAs(t *testing.T, store *session.Store, user model.User) {
	t.Helper()
	ctx := store.Initialize(context.Background())
	if err := store.Login(ctx, user, "tok-test"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestInitSessionInstallsSnapshot(t *testing.T) {
	store := session.NewStore(newMapStorage())
	loginAs(t, store, model.User{ID: "u1", Email: "a@b.c", Role: model.RoleUser})

	var sawUser *model.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUser = store.CurrentUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	InitSession(store)(inner).ServeHTTP(rr, req)

	if sawUser == nil || sawUser.ID != "u1" {
		t.Errorf("handler saw user %+v, want u1", sawUser)
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	store := session.NewStore(newMapStorage())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()

	handler := InitSession(store)(RequireAuth(store)(okHandler()))
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	store := session.NewStore(newMapStorage())
	loginAs(t, store, model.User{ID: "u1", Email: "a@b.c", Role: model.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()

	handler := InitSession(store)(RequireAuth(store)(okHandler()))
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireAuthWithoutInitRedirects(t *testing.T) {
	store := session.NewStore(newMapStorage())
	loginAs(t, store, model.User{ID: "u1", Email: "a@b.c", Role: model.RoleUser})

	// No InitSession below this point, so the session state is loading
	// and the request must be treated as unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()

	RequireAuth(store)(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
}

func TestGetUser(t *testing.T) {
	store := session.NewStore(newMapStorage())
	loginAs(t, store, model.User{ID: "u1", Name: "Sana", Email: "a@b.c", Role: model.RoleUser})

	var got *model.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUser(store, r)
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	InitSession(store)(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || got.ID != "u1" {
		t.Errorf("GetUser = %+v, want u1", got)
	}

	// Outside an initialized session there is no user.
	if u := GetUser(store, httptest.NewRequest(http.MethodGet, "/", nil)); u != nil {
		t.Errorf("GetUser before init = %+v, want nil", u)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
	}{
		{"anonymous redirects", nil, http.StatusSeeOther},
		{"regular user forbidden", &model.User{ID: "u1", Email: "a@b.c", Role: model.RoleUser}, http.StatusForbidden},
		{"admin allowed", &model.User{ID: "u2", Email: "admin@b.c", Role: model.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewStore(newMapStorage())
			if tt.user != nil {
				loginAs(t, store, *tt.user)
			}

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			rr := httptest.NewRecorder()

			handler := InitSession(store)(RequireAdmin(store)(okHandler()))
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
