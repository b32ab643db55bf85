// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	csrf "filippo.io/csrf/gorilla"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/middleware"
	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/service"
	"github.com/isbguide/isbguide-go/internal/session"
)

// excerptLen is the length of the plain-text excerpt shown on listing cards.
const excerptLen = 160

// BlogView wraps a blog with computed fields for template rendering.
type BlogView struct {
	model.Blog
	Body    template.HTML
	Excerpt string
	URL     string
}

// newBlogView computes the rendered body, excerpt, and detail URL for a blog.
func newBlogView(b model.Blog) BlogView {
	return BlogView{
		Blog:    b,
		Body:    service.RenderBody(b.Content),
		Excerpt: service.Excerpt(b.Content, excerptLen),
		URL:     RouteBlogs + "/" + b.ID,
	}
}

// newBlogViews converts a blog slice preserving order.
func newBlogViews(blogs []model.Blog) []BlogView {
	views := make([]BlogView, len(blogs))
	for i, b := range blogs {
		views[i] = newBlogView(b)
	}
	return views
}

// templateData assembles the common template data for a page: session
// identity, CSRF token, and the page payload.
func templateData(r *http.Request, sessions *session.Store, title string, data any) render.TemplateData {
	return render.TemplateData{
		Title:           title,
		Data:            data,
		CSRFToken:       csrf.Token(r),
		IsAuthenticated: sessions.IsAuthenticated(r.Context()),
		CurrentUser:     middleware.GetUser(sessions, r),
	}
}

// logInvalidateFailure records a cache invalidation failure. Stale cache
// content self-corrects at TTL expiry, so this is not surfaced to the user.
func logInvalidateFailure(err error, blogID string) {
	slog.Warn("cache invalidation failed", "error", err, "blog_id", blogID, "category", "cache")
}

// backendErrorMessage extracts the backend's human-readable message from an
// error, falling back to a generic message for transport failures.
func backendErrorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.StatusCode != 0 {
		return apiErr.Message
	}
	return fallback
}
