// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/pagecore/internal/model"
)

const contentColumns = `id, page_id, language, type, body, creation_date`

func scanContent(row rowScanner) (model.Content, error) {
	var c model.Content
	err := row.Scan(&c.ID, &c.PageID, &c.Language, &c.Type, &c.Body, &c.CreationDate)
	return c, err
}

// CreateContentParams holds the fields of a new content version.
type CreateContentParams struct {
	PageID       int64
	Language     string
	Type         string
	Body         string
	CreationDate time.Time
}

// CreateContent appends a new content version.
func (q *Queries) CreateContent(ctx context.Context, arg CreateContentParams) (model.Content, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contents (page_id, language, type, body, creation_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+contentColumns,
		arg.PageID, arg.Language, arg.Type, arg.Body, arg.CreationDate)
	return scanContent(row)
}

// ContentLookupParams identifies one content block.
type ContentLookupParams struct {
	PageID   int64
	Language string
	Type     string
}

// GetLatestContent returns the newest version of a content block.
func (q *Queries) GetLatestContent(ctx context.Context, arg ContentLookupParams) (model.Content, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE page_id = ? AND language = ? AND type = ?
		ORDER BY creation_date DESC, id DESC
		LIMIT 1`,
		arg.PageID, arg.Language, arg.Type)
	return scanContent(row)
}

// GetLatestContentBefore returns the newest version created at or
// before the cutoff, for freeze-time reads.
func (q *Queries) GetLatestContentBefore(ctx context.Context, arg ContentLookupParams, cutoff time.Time) (model.Content, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE page_id = ? AND language = ? AND type = ? AND creation_date <= ?
		ORDER BY creation_date DESC, id DESC
		LIMIT 1`,
		arg.PageID, arg.Language, arg.Type, cutoff)
	return scanContent(row)
}

// UpdateContentBody overwrites the body of an existing version in place.
// The creation date is preserved: the record stays the same version.
func (q *Queries) UpdateContentBody(ctx context.Context, id int64, body string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE contents SET body = ? WHERE id = ?`, body, id)
	return err
}

// ListContentVersions returns every version of a content block, newest
// first.
func (q *Queries) ListContentVersions(ctx context.Context, arg ContentLookupParams) ([]model.Content, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE page_id = ? AND language = ? AND type = ?
		ORDER BY creation_date DESC, id DESC`,
		arg.PageID, arg.Language, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// ListCurrentContents returns the newest version of every content type
// a page has in one language, in type order.
func (q *Queries) ListCurrentContents(ctx context.Context, pageID int64, language string) ([]model.Content, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM contents c
		WHERE c.page_id = ? AND c.language = ?
		  AND c.id = (
			SELECT c2.id FROM contents c2
			WHERE c2.page_id = c.page_id AND c2.language = c.language AND c2.type = c.type
			ORDER BY c2.creation_date DESC, c2.id DESC
			LIMIT 1
		  )
		ORDER BY c.type`,
		pageID, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// DeleteContent removes a single content version.
func (q *Queries) DeleteContent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contents WHERE id = ?`, id)
	return err
}

// ListPageLanguages returns the sorted set of languages that have at
// least one content version for the page.
func (q *Queries) ListPageLanguages(ctx context.Context, pageID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT DISTINCT language FROM contents WHERE page_id = ? ORDER BY language`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}
