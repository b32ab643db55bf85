// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the client-side business logic: the content
// filter applied to blog listings and the body rendering pipeline.
package service

import (
	"strings"

	"github.com/isbguide/isbguide-go/internal/model"
)

// Criteria holds the active filter constraints for a blog listing.
// A zero-value field imposes no constraint. Sector and Category match
// exactly (case-sensitive); Search is a case-insensitive substring query
// over title, content, and tags. An empty Search string is treated as
// absent, not as "matches nothing".
type Criteria struct {
	Sector   string
	Category string
	Search   string
}

// IsZero reports whether no constraint is active.
func (c Criteria) IsZero() bool {
	return c.Sector == "" && c.Category == "" && c.Search == ""
}

// FilterBlogs returns the blogs matching all active criteria, preserving
// the original relative order. It never mutates its input; an empty result
// is a normal value, not an error. With no active criteria the input slice
// is returned unchanged.
func FilterBlogs(blogs []model.Blog, c Criteria) []model.Blog {
	if c.IsZero() {
		return blogs
	}

	search := strings.ToLower(c.Search)

	matched := make([]model.Blog, 0, len(blogs))
	for _, blog := range blogs {
		if c.Sector != "" && blog.Sector != c.Sector {
			continue
		}
		if c.Category != "" && blog.Category != c.Category {
			continue
		}
		if search != "" && !matchesSearch(blog, search) {
			continue
		}
		matched = append(matched, blog)
	}
	return matched
}

// matchesSearch reports whether the lowercased search term occurs in the
// blog's title, content body, or any of its tags.
func matchesSearch(blog model.Blog, search string) bool {
	if strings.Contains(strings.ToLower(blog.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(blog.Content), search) {
		return true
	}
	for _, tag := range blog.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}
