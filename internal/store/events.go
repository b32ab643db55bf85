// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isbguide/isbguide-go/internal/model"
)

// EventStore reads and writes the local event log.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore on the given database.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// CreateEventParams holds the fields for a new event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event and returns its ID.
func (s *EventStore) CreateEvent(ctx context.Context, params CreateEventParams) (int64, error) {
	if params.Metadata == "" {
		params.Metadata = "{}"
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.Level, params.Category, params.Message, params.UserID, params.Metadata, params.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting event: %w", err)
	}
	return result.LastInsertId()
}

// ListRecentEvents returns the newest events, most recent first.
func (s *EventStore) ListRecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, category, message, user_id, metadata, created_at
		 FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListEventsByLevel returns the newest events at the given level.
func (s *EventStore) ListEventsByLevel(ctx context.Context, level string, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, category, message, user_id, metadata, created_at
		 FROM events WHERE level = ? ORDER BY created_at DESC, id DESC LIMIT ?`, level, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events by level: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountEvents returns the total number of event log entries.
func (s *EventStore) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// PruneEvents deletes events older than the cutoff and returns how many
// were removed. Run periodically so the log does not grow without bound.
func (s *EventStore) PruneEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
