// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the page engine: tree maintenance with
// materialized paths, versioned content, publication state, alias
// resolution and cache invalidation.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/config"
	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/store"
	"github.com/olegiv/pagecore/internal/template"
)

// Service is the engine facade. All page and content mutations go
// through it so slug uniqueness, tree consistency and cache
// invalidation are enforced in one place.
type Service struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cacher
	catalog *template.Catalog
	cfg     *config.Config

	// saveMu serializes page saves. The slug uniqueness probe and the
	// following insert are separate statements; the mutex keeps two
	// concurrent saves from picking the same suffix.
	saveMu sync.Mutex
}

// New creates a Service on top of an open database.
func New(db *sql.DB, cacher cache.Cacher, catalog *template.Catalog, cfg *config.Config) *Service {
	return &Service{
		db:      db,
		queries: store.New(db),
		cache:   cacher,
		catalog: catalog,
		cfg:     cfg,
	}
}

// Catalog returns the template catalog the service consults for
// placeholder content types.
func (s *Service) Catalog() *template.Catalog {
	return s.catalog
}

// statusFlags converts config toggles into model flags.
func (s *Service) statusFlags() model.StatusFlags {
	return model.StatusFlags{
		ShowStartDate: s.cfg.ShowStartDate,
		ShowEndDate:   s.cfg.ShowEndDate,
	}
}

// cacheTTL returns the configured cache TTL.
func (s *Service) cacheTTL() time.Duration {
	return time.Duration(s.cfg.CacheTTL) * time.Second
}

// withTx runs fn inside a transaction, committing on nil error.
func (s *Service) withTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// logEvent records an engine event in the events table and the log.
func (s *Service) logEvent(ctx context.Context, level, category, message string, args ...any) {
	switch level {
	case model.EventLevelWarning:
		slog.Warn(message, args...)
	case model.EventLevelError:
		slog.Error(message, args...)
	default:
		slog.Info(message, args...)
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  "{}",
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("recording event", "error", err)
	}
}
