// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs: periodic blog content refresh
// from the backend API and nightly event log pruning.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/cache"
	"github.com/isbguide/isbguide-go/internal/store"
)

// EventRetention is how long event log entries are kept.
const EventRetention = 30 * 24 * time.Hour

// Scheduler handles scheduled background tasks.
type Scheduler struct {
	client *api.Client
	blogs  *cache.BlogCache
	events *store.EventStore
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(client *api.Client, blogs *cache.BlogCache, events *store.EventStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		client: client,
		blogs:  blogs,
		events: events,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the jobs and begins the scheduler. refreshSpec is a cron
// expression for the content refresh, e.g. "*/5 * * * *".
func (s *Scheduler) Start(refreshSpec string) error {
	_, err := s.cron.AddFunc(refreshSpec, func() {
		if err := s.RefreshContent(context.Background()); err != nil {
			s.logger.Error("content refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneEvents(context.Background()); err != nil {
			s.logger.Error("event log pruning failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "refresh_spec", refreshSpec)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RefreshContent fetches the blog list from the backend and replaces the
// cached copy. A failed fetch leaves the current cache untouched so pages
// keep serving the last known content.
func (s *Scheduler) RefreshContent(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	blogs, err := s.client.ListBlogs(ctx)
	if err != nil {
		return err
	}

	if err := s.blogs.StoreList(ctx, blogs); err != nil {
		return err
	}

	s.logger.Info("content refreshed", "blogs", len(blogs))
	return nil
}

func (s *Scheduler) pruneEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pruned, err := s.events.PruneEvents(ctx, time.Now().Add(-EventRetention))
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("event log pruned", "removed", pruned)
	}
	return nil
}
