// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/olegiv/pagecore/internal/model"
)

func scanAlias(row rowScanner) (model.PageAlias, error) {
	var a model.PageAlias
	err := row.Scan(&a.ID, &a.PageID, &a.URL)
	return a, err
}

// CreateAlias inserts a URL alias. The URL must already be normalized.
func (q *Queries) CreateAlias(ctx context.Context, pageID sql.NullInt64, url string) (model.PageAlias, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO page_aliases (page_id, url) VALUES (?, ?)
		RETURNING id, page_id, url`,
		pageID, url)
	return scanAlias(row)
}

// GetAliasByURL retrieves an alias by its exact normalized URL.
func (q *Queries) GetAliasByURL(ctx context.Context, url string) (model.PageAlias, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, page_id, url FROM page_aliases WHERE url = ?`, url)
	return scanAlias(row)
}

// DeleteAlias removes an alias by id.
func (q *Queries) DeleteAlias(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM page_aliases WHERE id = ?`, id)
	return err
}

// ListAliasesForPage returns every alias pointing at a page.
func (q *Queries) ListAliasesForPage(ctx context.Context, pageID int64) ([]model.PageAlias, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, page_id, url FROM page_aliases WHERE page_id = ? ORDER BY url`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []model.PageAlias
	for rows.Next() {
		a, err := scanAlias(rows)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}
