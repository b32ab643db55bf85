// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event log levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryCache   = "cache"
	EventCategoryBackend = "backend"
	EventCategorySystem  = "system"
)

// Event is one entry in the local event log.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    string // backend user ID, empty when no user context
	Metadata  string // JSON object with extra attributes
	CreatedAt time.Time
}
