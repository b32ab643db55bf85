// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/service"
	"github.com/isbguide/isbguide-go/internal/session"
)

// maxCommentLen caps comment length before the backend sees it.
const maxCommentLen = 2000

// BlogHandler serves the public blog listing, detail, and comment routes.
type BlogHandler struct {
	client   *api.Client
	blogs    *cache.BlogCache
	renderer *render.Renderer
	sessions *session.Store
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(client *api.Client, blogs *cache.BlogCache, renderer *render.Renderer, sessions *session.Store) *BlogHandler {
	return &BlogHandler{
		client:   client,
		blogs:    blogs,
		renderer: renderer,
		sessions: sessions,
	}
}

// BlogListData is the payload for the blog listing template.
type BlogListData struct {
	Blogs      []BlogView
	Criteria   service.Criteria
	Taxonomy   []model.SectorSeries
	Categories []string
	Pagination Pagination
	Total      int
}

// criteriaFromQuery reads the filter constraints from the request query.
// Unknown sector or category values are kept as-is: they simply match
// nothing, which the template reports as an empty result.
func criteriaFromQuery(q map[string][]string) service.Criteria {
	first := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	return service.Criteria{
		Sector:   first("sector"),
		Category: first("category"),
		Search:   first("q"),
	}
}

// List renders the filtered, paginated blog listing.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context(), func() ([]model.Blog, error) {
		return h.client.ListBlogs(r.Context())
	})
	if err != nil {
		logAndInternalError(w, "failed to load blog list", "error", err)
		return
	}

	criteria := criteriaFromQuery(r.URL.Query())
	filtered := service.FilterBlogs(blogs, criteria)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pagination := BuildPagination(page, len(filtered), blogsPerPage, RouteBlogs, r.URL.Query())
	pageBlogs := pageSlice(filtered, pagination.CurrentPage, blogsPerPage)

	data := templateData(r, h.sessions, "Explore Islamabad", BlogListData{
		Blogs:      newBlogViews(pageBlogs),
		Criteria:   criteria,
		Taxonomy:   model.SectorTaxonomy,
		Categories: model.Categories,
		Pagination: pagination,
		Total:      len(filtered),
	})
	if err := h.renderer.Render(w, r, "frontend/blogs", data); err != nil {
		logAndInternalError(w, "failed to render blog list", "error", err)
	}
}

// BlogDetailData is the payload for the blog detail template.
type BlogDetailData struct {
	Blog       BlogView
	Comments   []model.Comment
	CanComment bool
}

// Detail renders a single blog post with its comments.
func (h *BlogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := h.blogs.Get(r.Context(), id, func() (*model.Blog, error) {
		return h.client.GetBlog(r.Context(), id)
	})
	if err != nil {
		if api.IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load blog", "error", err, "blog_id", id)
		return
	}

	data := templateData(r, h.sessions, blog.Title, BlogDetailData{
		Blog:       newBlogView(*blog),
		Comments:   blog.Comments,
		CanComment: h.sessions.IsAuthenticated(r.Context()),
	})
	if err := h.renderer.Render(w, r, "frontend/blog_detail", data); err != nil {
		logAndInternalError(w, "failed to render blog", "error", err, "blog_id", id)
	}
}

// CreateComment handles the comment form submission on a blog post.
// The route sits behind RequireAuth; the token comes from the session.
func (h *BlogHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	blogURL := RouteBlogs + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, blogURL) {
		return
	}

	comment := strings.TrimSpace(r.FormValue("comment"))
	if comment == "" {
		flashError(w, r, h.renderer, blogURL, "Comment cannot be empty")
		return
	}
	if len(comment) > maxCommentLen {
		flashError(w, r, h.renderer, blogURL, "Comment is too long")
		return
	}

	token := h.sessions.Token(r.Context())
	if _, err := h.client.CreateComment(r.Context(), id, comment, token); err != nil {
		if api.IsNotFound(err) {
			http.NotFound(w, r)
			return
		}
		flashError(w, r, h.renderer, blogURL, backendErrorMessage(err, "Failed to post comment"))
		return
	}

	// Drop the cached copy so the next read includes the new comment.
	if err := h.blogs.InvalidateBlog(r.Context(), id); err != nil {
		logInvalidateFailure(err, id)
	}

	flashSuccess(w, r, h.renderer, blogURL, "Comment posted")
}
