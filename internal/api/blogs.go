// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/isbguide/isbguide-go/internal/model"
)

// ListBlogs fetches the ordered blog list. The backend defines the order;
// the client preserves it through caching and filtering.
func (c *Client) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	var blogs []model.Blog
	if err := c.do(ctx, http.MethodGet, "/v1/blogs", "", nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetBlog fetches a single blog with its comments.
func (c *Client) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, http.MethodGet, "/v1/blogs/"+url.PathEscape(id), "", nil, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// commentResponse wraps the comment the backend returns after creation.
type commentResponse struct {
	Comment model.Comment `json:"comment"`
}

// CreateComment posts a comment on a blog, authorized by the session token.
func (c *Client) CreateComment(ctx context.Context, id, comment, token string) (*model.Comment, error) {
	body := map[string]string{"comment": comment}

	var resp commentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/blogs/"+url.PathEscape(id), token, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

// BlogInput is the payload for creating or updating a blog post.
type BlogInput struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug,omitempty"`
	Content    string   `json:"content"`
	Sector     string   `json:"sector"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage,omitempty"`
}

// CreateBlog creates a blog post (admin only, enforced by the backend).
func (c *Client) CreateBlog(ctx context.Context, input BlogInput, token string) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, http.MethodPost, "/v1/blogs", token, input, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// UpdateBlog updates an existing blog post.
func (c *Client) UpdateBlog(ctx context.Context, id string, input BlogInput, token string) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, http.MethodPut, "/v1/blogs/"+url.PathEscape(id), token, input, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// DeleteBlog removes a blog post.
func (c *Client) DeleteBlog(ctx context.Context, id, token string) error {
	return c.do(ctx, http.MethodDelete, "/v1/blogs/"+url.PathEscape(id), token, nil, nil)
}
