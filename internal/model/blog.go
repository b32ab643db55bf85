// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Author is the by-name reference to a blog or comment author.
type Author struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// Comment is a single comment on a blog post.
type Comment struct {
	ID        string    `json:"_id"`
	Comment   string    `json:"comment"`
	Author    Author    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Blog is a content item as supplied by the content backend. The client
// holds transient read-only copies; it never owns or mutates them.
type Blog struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Sector     string    `json:"sector"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Author     Author    `json:"author"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Comments   []Comment `json:"comments"`
}
