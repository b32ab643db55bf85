// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestDashboardRequiresAdmin(t *testing.T) {
	t.Run("anonymous redirected to login", func(t *testing.T) {
		env := newTestEnv(t, &fakeBackend{blogs: someBlogs()})
		baseURL, c := env.serve()

		resp, _ := get(t, c, baseURL+RouteDashboardBlogs)
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != RouteLogin {
			t.Errorf("redirect = %q, want %q", loc, RouteLogin)
		}
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		backend := &fakeBackend{blogs: someBlogs(), user: testUser("user"), token: "tok"}
		env := newTestEnv(t, backend)
		baseURL, c := env.serve()
		env.login(c, baseURL)

		resp, _ := get(t, c, baseURL+RouteDashboardBlogs)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", resp.StatusCode)
		}
	})
}

func TestDashboardListBlogs(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok-admin"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	resp, body := get(t, c, baseURL+RouteDashboardBlogs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, title := range []string{"Best Biryani in F-7", "G-9 Markaz Chai Spots"} {
		if !strings.Contains(body, title) {
			t.Errorf("dashboard missing %q", title)
		}
	}
}

func TestDashboardCreateBlog(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok-admin"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	resp := postForm(t, c, baseURL+RouteDashboardBlogs, url.Values{
		"title":    {"Hidden Gems of E-11"},
		"content":  {"A walking tour of the quieter corners."},
		"sector":   {"E-11"},
		"category": {"Activities & Events"},
		"tags":     {"walking, weekend "},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != RouteDashboardBlogs {
		t.Errorf("redirect = %q, want %q", loc, RouteDashboardBlogs)
	}

	method, path, auth, body := backend.last()
	if method != http.MethodPost || path != "/v1/blogs" {
		t.Errorf("backend saw %s %s, want POST /v1/blogs", method, path)
	}
	if auth != "Bearer tok-admin" {
		t.Errorf("Authorization = %q, want Bearer tok-admin", auth)
	}
	for _, want := range []string{`"hidden-gems-of-e-11"`, `"E-11"`, `"walking"`, `"weekend"`} {
		if !strings.Contains(body, want) {
			t.Errorf("backend payload missing %s: %s", want, body)
		}
	}
}

func TestDashboardCreateBlogValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "missing title",
			form: url.Values{"content": {"text"}, "sector": {"F-7"}, "category": {"Restaurants"}},
			want: "Title and content are required",
		},
		{
			name: "unknown sector",
			form: url.Values{"title": {"T"}, "content": {"text"}, "sector": {"Z-1"}, "category": {"Restaurants"}},
			want: "Unknown sector: Z-1",
		},
		{
			name: "unknown category",
			form: url.Values{"title": {"T"}, "content": {"text"}, "sector": {"F-7"}, "category": {"Schools"}},
			want: "Unknown category: Schools",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok"}
			env := newTestEnv(t, backend)
			baseURL, c := env.serve()
			env.login(c, baseURL)

			resp := postForm(t, c, baseURL+RouteDashboardBlogs, tt.form)
			if resp.StatusCode != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", resp.StatusCode)
			}

			_, body := get(t, c, baseURL+RouteDashboardBlogsNew)
			if !strings.Contains(body, tt.want) {
				t.Errorf("form page missing %q: %s", tt.want, body)
			}
		})
	}
}

func TestDashboardEditBlogForm(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	resp, body := get(t, c, baseURL+RouteDashboardBlogs+"/b2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Morning Runs at Fatima Jinnah Park") {
		t.Errorf("edit form missing existing title: %s", body)
	}
	if !strings.Contains(body, `action="/dashboard/blogs/b2"`) {
		t.Errorf("edit form missing action: %s", body)
	}
}

func TestDashboardUpdateBlog(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	resp := postForm(t, c, baseURL+RouteDashboardBlogs+"/b2", url.Values{
		"title":    {"Morning Runs, Updated"},
		"content":  {"New route notes."},
		"sector":   {"F-9"},
		"category": {"Parks & Grounds"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	method, path, _, _ := backend.last()
	if method != http.MethodPut || path != "/v1/blogs/b2" {
		t.Errorf("backend saw %s %s, want PUT /v1/blogs/b2", method, path)
	}
}

func TestDashboardDeleteBlog(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	resp := postForm(t, c, baseURL+RouteDashboardBlogs+"/b3/delete", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	method, path, _, _ := backend.last()
	if method != http.MethodDelete || path != "/v1/blogs/b3" {
		t.Errorf("backend saw %s %s, want DELETE /v1/blogs/b3", method, path)
	}

	_, body := get(t, c, baseURL+RouteDashboardBlogs)
	if !strings.Contains(body, "Post deleted") {
		t.Errorf("dashboard missing delete flash: %s", body)
	}
}

func TestDashboardDeleteMissingBlog(t *testing.T) {
	backend := &fakeBackend{blogs: someBlogs(), user: testUser("admin"), token: "tok"}
	env := newTestEnv(t, backend)
	baseURL, c := env.serve()
	env.login(c, baseURL)

	postForm(t, c, baseURL+RouteDashboardBlogs+"/nope/delete", nil)

	_, body := get(t, c, baseURL+RouteDashboardBlogs)
	if !strings.Contains(body, "Post not found") {
		t.Errorf("dashboard missing not-found flash: %s", body)
	}
}
