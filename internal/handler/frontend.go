// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/model"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/session"
)

// homeHighlights is how many recent posts the homepage shows.
const homeHighlights = 6

// FrontendHandler serves the public pages that are not blog routes.
type FrontendHandler struct {
	client   *api.Client
	blogs    *cache.BlogCache
	renderer *render.Renderer
	sessions *session.Store
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(client *api.Client, blogs *cache.BlogCache, renderer *render.Renderer, sessions *session.Store) *FrontendHandler {
	return &FrontendHandler{
		client:   client,
		blogs:    blogs,
		renderer: renderer,
		sessions: sessions,
	}
}

// HomeData is the payload for the homepage template.
type HomeData struct {
	Recent   []BlogView
	Taxonomy []model.SectorSeries
}

// Home renders the homepage with the most recent posts and the sector map.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context(), func() ([]model.Blog, error) {
		return h.client.ListBlogs(r.Context())
	})
	if err != nil {
		logAndInternalError(w, "failed to load blogs for homepage", "error", err)
		return
	}

	if len(blogs) > homeHighlights {
		blogs = blogs[:homeHighlights]
	}

	data := templateData(r, h.sessions, "isbGuide", HomeData{
		Recent:   newBlogViews(blogs),
		Taxonomy: model.SectorTaxonomy,
	})
	if err := h.renderer.Render(w, r, "frontend/home", data); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// About renders the static about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	data := templateData(r, h.sessions, "About isbGuide", nil)
	if err := h.renderer.Render(w, r, "frontend/about", data); err != nil {
		logAndInternalError(w, "failed to render about page", "error", err)
	}
}
