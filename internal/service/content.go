// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips anything not allowed in user-generated content.
// Blog bodies arrive from the backend and may contain markup supplied by
// post authors, so they are never rendered raw.
var htmlSanitizer = bluemonday.UGCPolicy()

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// RenderBody converts a blog body to safe HTML for the detail view.
// Bodies written as markdown are converted first; bodies that already
// contain markup are sanitized as-is.
func RenderBody(content string) template.HTML {
	var rendered string
	if looksLikeHTML(content) {
		rendered = content
	} else {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			// Fall back to escaped plain text on conversion failure.
			return template.HTML("<p>" + html.EscapeString(content) + "</p>") //nolint:gosec // escaped above
		}
		rendered = buf.String()
	}

	return template.HTML(htmlSanitizer.Sanitize(rendered)) //nolint:gosec // sanitized above
}

// Excerpt returns a plain-text excerpt of at most maxLen characters,
// stripping any markup first.
func Excerpt(content string, maxLen int) string {
	text := tagRegex.ReplaceAllString(content, "")
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	if len(text) <= maxLen {
		return text
	}
	// Cut at a word boundary where possible.
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// looksLikeHTML reports whether the body already contains markup.
func looksLikeHTML(s string) bool {
	return tagRegex.MatchString(s)
}
