// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/session"
	"github.com/isbguide/isbguide-go/internal/util"
)

// DashboardHandler serves the admin blog management routes. Authorization
// is enforced twice: RequireAdmin on the route group, and again by the
// backend on every write.
type DashboardHandler struct {
	client   *api.Client
	blogs    *cache.BlogCache
	renderer *render.Renderer
	sessions *session.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(client *api.Client, blogs *cache.BlogCache, renderer *render.Renderer, sessions *session.Store) *DashboardHandler {
	return &DashboardHandler{
		client:   client,
		blogs:    blogs,
		renderer: renderer,
		sessions: sessions,
	}
}

// DashboardBlogsData is the payload for the admin blog list template.
type DashboardBlogsData struct {
	Blogs []BlogView
	Total int
}

// ListBlogs renders the admin blog list.
func (h *DashboardHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context(), func() ([]model.Blog, error) {
		return h.client.ListBlogs(r.Context())
	})
	if err != nil {
		logAndInternalError(w, "failed to load blogs for dashboard", "error", err)
		return
	}

	data := templateData(r, h.sessions, "Manage Posts", DashboardBlogsData{
		Blogs: newBlogViews(blogs),
		Total: len(blogs),
	})
	if err := h.renderer.Render(w, r, "dashboard/blogs", data); err != nil {
		logAndInternalError(w, "failed to render dashboard blog list", "error", err)
	}
}

// BlogFormData is the payload for the admin blog create/edit form template.
type BlogFormData struct {
	Blog       *model.Blog
	Taxonomy   []model.SectorSeries
	Categories []string
	IsEdit     bool
	Action     string
}

// NewBlogForm renders the empty blog creation form.
func (h *DashboardHandler) NewBlogForm(w http.ResponseWriter, r *http.Request) {
	data := templateData(r, h.sessions, "New Post", BlogFormData{
		Taxonomy:   model.SectorTaxonomy,
		Categories: model.Categories,
		Action:     RouteDashboardBlogs,
	})
	if err := h.renderer.Render(w, r, "dashboard/blog_form", data); err != nil {
		logAndInternalError(w, "failed to render blog form", "error", err)
	}
}

// EditBlogForm renders the edit form prefilled with the existing post.
func (h *DashboardHandler) EditBlogForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := h.blogs.Get(r.Context(), id, func() (*model.Blog, error) {
		return h.client.GetBlog(r.Context(), id)
	})
	if err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, RouteDashboardBlogs, "Post not found")
			return
		}
		logAndInternalError(w, "failed to load blog for editing", "error", err, "blog_id", id)
		return
	}

	data := templateData(r, h.sessions, "Edit Post", BlogFormData{
		Blog:       blog,
		Taxonomy:   model.SectorTaxonomy,
		Categories: model.Categories,
		IsEdit:     true,
		Action:     RouteDashboardBlogs + "/" + id,
	})
	if err := h.renderer.Render(w, r, "dashboard/blog_form", data); err != nil {
		logAndInternalError(w, "failed to render blog form", "error", err, "blog_id", id)
	}
}

// CreateBlog handles the blog creation form submission.
func (h *DashboardHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteDashboardBlogsNew) {
		return
	}

	input, msg := blogInputFromForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, RouteDashboardBlogsNew, msg)
		return
	}

	token := h.sessions.Token(r.Context())
	blog, err := h.client.CreateBlog(r.Context(), input, token)
	if err != nil {
		flashError(w, r, h.renderer, RouteDashboardBlogsNew, backendErrorMessage(err, "Failed to create post"))
		return
	}

	if err := h.blogs.Invalidate(r.Context()); err != nil {
		logInvalidateFailure(err, blog.ID)
	}

	slog.Info("blog created", "blog_id", blog.ID, "title", blog.Title, "category", "content")
	flashSuccess(w, r, h.renderer, RouteDashboardBlogs, "Post created")
}

// UpdateBlog handles the blog edit form submission.
func (h *DashboardHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := RouteDashboardBlogs + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input, msg := blogInputFromForm(r)
	if msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	token := h.sessions.Token(r.Context())
	if _, err := h.client.UpdateBlog(r.Context(), id, input, token); err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, RouteDashboardBlogs, "Post not found")
			return
		}
		flashError(w, r, h.renderer, editURL, backendErrorMessage(err, "Failed to update post"))
		return
	}

	if err := h.blogs.InvalidateBlog(r.Context(), id); err != nil {
		logInvalidateFailure(err, id)
	}

	slog.Info("blog updated", "blog_id", id, "category", "content")
	flashSuccess(w, r, h.renderer, RouteDashboardBlogs, "Post updated")
}

// DeleteBlog handles the blog delete form submission.
func (h *DashboardHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	token := h.sessions.Token(r.Context())
	if err := h.client.DeleteBlog(r.Context(), id, token); err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, RouteDashboardBlogs, "Post not found")
			return
		}
		flashError(w, r, h.renderer, RouteDashboardBlogs, backendErrorMessage(err, "Failed to delete post"))
		return
	}

	if err := h.blogs.InvalidateBlog(r.Context(), id); err != nil {
		logInvalidateFailure(err, id)
	}

	slog.Info("blog deleted", "blog_id", id, "category", "content")
	flashSuccess(w, r, h.renderer, RouteDashboardBlogs, "Post deleted")
}

// blogInputFromForm builds the backend payload from the submitted form.
// Returns a non-empty message for the first invalid field.
func blogInputFromForm(r *http.Request) (api.BlogInput, string) {
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	sector := strings.TrimSpace(r.FormValue("sector"))
	category := strings.TrimSpace(r.FormValue("category"))

	if title == "" || content == "" {
		return api.BlogInput{}, "Title and content are required"
	}
	if !model.IsKnownSector(sector) {
		return api.BlogInput{}, "Unknown sector: " + sector
	}
	if !model.IsKnownCategory(category) {
		return api.BlogInput{}, "Unknown category: " + category
	}

	input := api.BlogInput{
		Title:      title,
		Slug:       util.Slugify(title),
		Content:    content,
		Sector:     sector,
		Category:   category,
		Tags:       parseTags(r.FormValue("tags")),
		CoverImage: strings.TrimSpace(r.FormValue("cover_image")),
	}
	return input, ""
}

// parseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
