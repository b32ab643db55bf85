// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the HTML templates and built static assets so the
// binary ships self-contained.
package web

import "embed"

// Templates holds the layout, partial and page templates.
//
//go:embed all:templates
var Templates embed.FS

// Static holds the compiled CSS and other public assets.
//
//go:embed all:static/dist
var Static embed.FS
