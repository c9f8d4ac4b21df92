// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/util"
)

// CreateAlias registers an alternate URL for a page, typically an old
// address kept alive after a migration. A nil pageID creates a dangling
// alias that records the URL without a target.
func (s *Service) CreateAlias(ctx context.Context, pageID *int64, url string) (model.PageAlias, error) {
	if strings.TrimSpace(url) == "" {
		return model.PageAlias{}, validationErr("url", "empty alias URL")
	}
	url = util.NormalizeURL(url)

	alias, err := s.queries.CreateAlias(ctx, util.NullInt64FromPtr(pageID), url)
	if err != nil {
		return model.PageAlias{}, err
	}

	s.logEvent(ctx, model.EventLevelInfo, model.EventCategoryPage,
		"alias created", "alias_id", alias.ID, "url", url)
	return alias, nil
}

// DeleteAlias removes an alias by ID.
func (s *Service) DeleteAlias(ctx context.Context, id int64) error {
	return s.queries.DeleteAlias(ctx, id)
}

// PageAliases returns every alias registered for a page.
func (s *Service) PageAliases(ctx context.Context, pageID int64) ([]model.PageAlias, error) {
	return s.queries.ListAliasesForPage(ctx, pageID)
}

// ResolveAlias looks up an alias for a requested URL. The full URL
// including the query string is tried first, then the bare path, so
// aliases like "/index.php?page=3" win over "/index.php".
func (s *Service) ResolveAlias(ctx context.Context, path, query string) (model.PageAlias, error) {
	path = util.NormalizeURL(path)

	if query != "" {
		alias, err := s.queries.GetAliasByURL(ctx, path+"?"+query)
		if err == nil {
			return alias, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.PageAlias{}, err
		}
	}

	alias, err := s.queries.GetAliasByURL(ctx, path)
	if errors.Is(err, sql.ErrNoRows) {
		// Tolerate stored aliases without a leading slash
		alias, err = s.queries.GetAliasByURL(ctx, strings.TrimPrefix(path, "/"))
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.PageAlias{}, ErrAliasNotFound
	}
	return alias, err
}
