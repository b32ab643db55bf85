// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// testTemplatesFS builds a minimal template tree in memory.
func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>{{template "content" .}}{{template "footer" .}}</body></html>{{end}}`)},
		"layouts/dashboard.html": {Data: []byte(
			`{{define "dashnav"}}<nav>dashboard</nav>{{end}}`)},
		"partials/footer.html": {Data: []byte(
			`{{define "footer"}}<footer>{{.CurrentYear}}</footer>{{end}}`)},
		"frontend/home.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`)},
		"auth/login.html": {Data: []byte(
			`{{define "content"}}<form>{{.CSRFToken}}</form>{{end}}`)},
		"dashboard/blogs.html": {Data: []byte(
			`{{define "content"}}{{template "dashnav" .}}<p>{{.Title}}</p>{{end}}`)},
	}
}

func TestNewParsesTemplateGroups(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"frontend/home", "auth/login", "dashboard/blogs"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %s not parsed", name)
		}
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := r.Render(w, req, "frontend/home", TemplateData{Title: "Islamabad Guide"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<h1>Islamabad Guide</h1>") {
		t.Errorf("body missing title: %s", body)
	}
	if !strings.Contains(body, time.Now().Format("2006")) {
		t.Errorf("body missing current year: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := r.Render(w, req, "frontend/missing", TemplateData{}); err == nil {
		t.Error("Render of unknown template should fail")
	}
	if w.Body.Len() != 0 {
		t.Error("failed render should not write to the response")
	}
}

func TestTemplateFuncTruncate(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()
	truncate := funcs["truncate"].(func(string, int) string)

	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 7, "this is..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestTemplateFuncSeq(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()
	seq := funcs["seq"].(func(int, int) []int)

	got := seq(1, 4)
	if len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("seq(1, 4) = %v", got)
	}
	if got := seq(3, 2); got != nil {
		t.Errorf("seq(3, 2) = %v, want nil", got)
	}
}

func TestTemplateFuncJoin(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()
	join := funcs["join"].(func([]string, string) string)

	if got := join([]string{"food", "parks"}, ", "); got != "food, parks" {
		t.Errorf("join = %q", got)
	}
}
