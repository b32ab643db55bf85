// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/middleware"
	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/session"
)

// fakeBackend is an in-memory stand-in for the remote content/auth backend.
// It records the last write request so tests can assert on method, path,
// token, and payload.
type fakeBackend struct {
	mu    sync.Mutex
	blogs []model.Blog
	user  model.User
	token string

	loginErr string // non-empty makes login fail with this message

	lastMethod string
	lastPath   string
	lastAuth   string
	lastBody   []byte
}

func (f *fakeBackend) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMethod = r.Method
	f.lastPath = r.URL.Path
	f.lastAuth = r.Header.Get("Authorization")
	f.lastBody = body
}

func (f *fakeBackend) last() (method, path, auth, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastMethod, f.lastPath, f.lastAuth, string(f.lastBody)
}

func (f *fakeBackend) findBlog(id string) *model.Blog {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.blogs {
		if f.blogs[i].ID == id {
			b := f.blogs[i]
			return &b
		}
	}
	return nil
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"data":    data,
		"message": message,
	})
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.loginErr != "" {
			writeEnvelope(w, http.StatusUnauthorized, false, nil, f.loginErr)
			return
		}
		writeEnvelope(w, http.StatusOK, true, map[string]any{"user": f.user, "token": f.token}, "")
	})

	mux.HandleFunc("POST /v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeEnvelope(w, http.StatusCreated, true, map[string]any{"user": f.user, "token": f.token}, "")
	})

	mux.HandleFunc("GET /v1/blogs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		blogs := f.blogs
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, blogs, "")
	})

	mux.HandleFunc("GET /v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		blog := f.findBlog(r.PathValue("id"))
		if blog == nil {
			writeEnvelope(w, http.StatusNotFound, false, nil, "blog not found")
			return
		}
		writeEnvelope(w, http.StatusOK, true, blog, "")
	})

	mux.HandleFunc("POST /v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.findBlog(r.PathValue("id")) == nil {
			writeEnvelope(w, http.StatusNotFound, false, nil, "blog not found")
			return
		}
		comment := model.Comment{ID: "c-new", Comment: "recorded", CreatedAt: time.Now()}
		writeEnvelope(w, http.StatusCreated, true, map[string]any{"comment": comment}, "")
	})

	mux.HandleFunc("POST /v1/blogs", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeEnvelope(w, http.StatusCreated, true, model.Blog{ID: "b-new", Title: "created"}, "")
	})

	mux.HandleFunc("PUT /v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		blog := f.findBlog(r.PathValue("id"))
		if blog == nil {
			writeEnvelope(w, http.StatusNotFound, false, nil, "blog not found")
			return
		}
		writeEnvelope(w, http.StatusOK, true, blog, "")
	})

	mux.HandleFunc("DELETE /v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.findBlog(r.PathValue("id")) == nil {
			writeEnvelope(w, http.StatusNotFound, false, nil, "blog not found")
			return
		}
		writeEnvelope(w, http.StatusOK, true, nil, "")
	})

	return mux
}

// testTemplates builds a minimal template tree with markers the tests
// assert on.
func testTemplates() fstest.MapFS {
	base := `{{define "base"}}<html><body>` +
		`{{if .IsAuthenticated}}<span id="session">logged-in as {{.CurrentUser.Name}}</span>{{end}}` +
		`{{with .Flash}}<div class="flash-{{$.FlashType}}">{{.}}</div>{{end}}` +
		`{{template "content" .}}</body></html>{{end}}`
	return fstest.MapFS{
		"layouts/base.html":      {Data: []byte(base)},
		"layouts/dashboard.html": {Data: []byte(`{{define "dashnav"}}<nav>admin</nav>{{end}}`)},
		"partials/footer.html":   {Data: []byte(`{{define "footer"}}{{end}}`)},
		"frontend/home.html": {Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>` +
			`{{range .Data.Recent}}<article>{{.Title}}</article>{{end}}` +
			`{{range .Data.Taxonomy}}<li>{{.Name}}</li>{{end}}{{end}}`)},
		"frontend/about.html": {Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`)},
		"frontend/blogs.html": {Data: []byte(`{{define "content"}}<p>{{.Data.Total}} results</p>` +
			`{{range .Data.Blogs}}<article>{{.Title}}</article>{{end}}{{end}}`)},
		"frontend/blog_detail.html": {Data: []byte(`{{define "content"}}<h1>{{.Data.Blog.Title}}</h1>` +
			`{{.Data.Blog.Body}}{{range .Data.Comments}}<li>{{.Comment}}</li>{{end}}{{end}}`)},
		"auth/login.html":    {Data: []byte(`{{define "content"}}<form id="login"></form>{{end}}`)},
		"auth/register.html": {Data: []byte(`{{define "content"}}<form id="register"></form>{{end}}`)},
		"dashboard/blogs.html": {Data: []byte(`{{define "content"}}{{template "dashnav" .}}` +
			`{{range .Data.Blogs}}<tr>{{.Title}}</tr>{{end}}{{end}}`)},
		"dashboard/blog_form.html": {Data: []byte(`{{define "content"}}` +
			`<form action="{{.Data.Action}}">{{with .Data.Blog}}{{.Title}}{{end}}</form>{{end}}`)},
	}
}

// testEnv wires the handlers against a fake backend, an in-memory session
// manager, and an in-memory blog cache.
type testEnv struct {
	t        *testing.T
	backend  *fakeBackend
	client   *api.Client
	blogs    *cache.BlogCache
	sm       *scs.SessionManager
	sessions *session.Store
	renderer *render.Renderer
	lp       *middleware.LoginProtection
}

func newTestEnv(t *testing.T, backend *fakeBackend) *testEnv {
	t.Helper()

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	mem := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	sm := scs.New()
	sessions := session.NewStore(session.NewStorage(sm))

	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		t:        t,
		backend:  backend,
		client:   api.New(srv.URL),
		blogs:    cache.NewBlogCache(mem, time.Minute),
		sm:       sm,
		sessions: sessions,
		renderer: renderer,
		lp:       middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
	}
}

// router mirrors the production route layout minus CSRF and rate limiting.
func (e *testEnv) router() http.Handler {
	fh := NewFrontendHandler(e.client, e.blogs, e.renderer, e.sessions)
	bh := NewBlogHandler(e.client, e.blogs, e.renderer, e.sessions)
	ah := NewAuthHandler(e.client, e.renderer, e.sessions, e.sm, e.lp)
	dh := NewDashboardHandler(e.client, e.blogs, e.renderer, e.sessions)

	r := chi.NewRouter()
	r.Use(e.sm.LoadAndSave)
	r.Use(middleware.InitSession(e.sessions))

	r.Get(RouteRoot, fh.Home)
	r.Get(RouteAbout, fh.About)
	r.Get(RouteBlogs, bh.List)
	r.Get(RouteBlogsID, bh.Detail)
	r.With(middleware.RequireAuth(e.sessions)).Post(RouteBlogsIDComments, bh.CreateComment)

	r.Get(RouteLogin, ah.LoginForm)
	r.Post(RouteLogin, ah.Login)
	r.Get(RouteRegister, ah.RegisterForm)
	r.Post(RouteRegister, ah.Register)
	r.Post(RouteLogout, ah.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(e.sessions))
		r.Get(RouteDashboardBlogs, dh.ListBlogs)
		r.Get(RouteDashboardBlogsNew, dh.NewBlogForm)
		r.Post(RouteDashboardBlogs, dh.CreateBlog)
		r.Get(RouteDashboardBlogsID, dh.EditBlogForm)
		r.Post(RouteDashboardBlogsID, dh.UpdateBlog)
		r.Post(RouteDashboardBlogsIDDelete, dh.DeleteBlog)
	})

	return r
}

// serve starts the router and returns its base URL plus a cookie-carrying
// client that does not follow redirects.
func (e *testEnv) serve() (string, *http.Client) {
	srv := httptest.NewServer(e.router())
	e.t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		e.t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv.URL, client
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, c *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp
}

// login authenticates the client through the login form.
func (e *testEnv) login(c *http.Client, baseURL string) {
	e.t.Helper()
	resp := postForm(e.t, c, baseURL+RouteLogin, url.Values{
		"email":    {e.backend.user.Email},
		"password": {"correct-horse"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		e.t.Fatalf("login status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != RouteRoot {
		e.t.Fatalf("login redirect = %q, want %q", loc, RouteRoot)
	}
}

// apiClientToDeadBackend returns a client whose backend is unreachable.
func apiClientToDeadBackend(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return api.New(srv.URL)
}

// someBlogs returns a small fixture set spanning sectors and categories.
func someBlogs() []model.Blog {
	return []model.Blog{
		{ID: "b1", Title: "Best Biryani in F-7", Content: "Spicy and worth the queue.",
			Sector: "F-7", Category: "Restaurants", Tags: []string{"food"},
			Author: model.Author{ID: "a1", Name: "Ayesha"}, CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "b2", Title: "Morning Runs at Fatima Jinnah Park", Content: "The F-9 loop at sunrise.",
			Sector: "F-9", Category: "Parks & Grounds", Tags: []string{"running"},
			Author: model.Author{ID: "a2", Name: "Bilal"}, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "b3", Title: "G-9 Markaz Chai Spots", Content: "Late night chai without the drive.",
			Sector: "G-9", Category: "Cafes & Desserts", Tags: []string{"chai", "food"},
			Author: model.Author{ID: "a1", Name: "Ayesha"}, CreatedAt: time.Now().Add(-3 * time.Hour)},
	}
}

func testUser(role string) model.User {
	return model.User{ID: "u1", Name: "Sana", Email: "sana@example.com", Role: role}
}
