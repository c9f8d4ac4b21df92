// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/pagecore/internal/model"
)

const pageColumns = `id, uuid, parent_id, tree_id, lft, rgt, level, slug, complete_slug,
	status, template, delegate_to, redirect_to_id, redirect_to_url,
	publication_date, publication_end_date, freeze_date, creation_date, last_modification_date`

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (model.Page, error) {
	var p model.Page
	err := row.Scan(
		&p.ID, &p.UUID, &p.ParentID, &p.TreeID, &p.Lft, &p.Rgt, &p.Level,
		&p.Slug, &p.CompleteSlug, &p.Status, &p.Template, &p.DelegateTo,
		&p.RedirectToID, &p.RedirectToURL,
		&p.PublicationDate, &p.PublicationEndDate, &p.FreezeDate,
		&p.CreationDate, &p.LastModificationDate,
	)
	return p, err
}

func (q *Queries) queryPages(ctx context.Context, query string, args ...any) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CreatePageParams holds the fields for inserting a new page row.
// Tree position fields are computed by the caller.
type CreatePageParams struct {
	UUID     string
	ParentID sql.NullInt64
	TreeID   int64
	Lft      int64
	Rgt      int64
	Level    int64

	Slug         string
	CompleteSlug string

	Status   int64
	Template sql.NullString

	DelegateTo    sql.NullString
	RedirectToID  sql.NullInt64
	RedirectToURL sql.NullString

	PublicationDate    sql.NullTime
	PublicationEndDate sql.NullTime
	FreezeDate         sql.NullTime

	CreationDate         time.Time
	LastModificationDate time.Time
}

// CreatePage inserts a page row and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (
			uuid, parent_id, tree_id, lft, rgt, level, slug, complete_slug,
			status, template, delegate_to, redirect_to_id, redirect_to_url,
			publication_date, publication_end_date, freeze_date,
			creation_date, last_modification_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.UUID, arg.ParentID, arg.TreeID, arg.Lft, arg.Rgt, arg.Level,
		arg.Slug, arg.CompleteSlug, arg.Status, arg.Template, arg.DelegateTo,
		arg.RedirectToID, arg.RedirectToURL,
		arg.PublicationDate, arg.PublicationEndDate, arg.FreezeDate,
		arg.CreationDate, arg.LastModificationDate,
	)
	return scanPage(row)
}

// GetPageByID retrieves a page by its numeric ID.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageByUUID retrieves a page by its UUID.
func (q *Queries) GetPageByUUID(ctx context.Context, uuid string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE uuid = ?`, uuid)
	return scanPage(row)
}

// GetPageByCompleteSlug retrieves a page by its materialized path.
func (q *Queries) GetPageByCompleteSlug(ctx context.Context, completeSlug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE complete_slug = ?`, completeSlug)
	return scanPage(row)
}

// GetPageByCompleteSlugOnSite retrieves a page by its materialized path,
// restricted to pages attached to the given site.
func (q *Queries) GetPageByCompleteSlugOnSite(ctx context.Context, completeSlug string, siteID int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE complete_slug = ?
		  AND id IN (SELECT page_id FROM page_sites WHERE site_id = ?)`,
		completeSlug, siteID)
	return scanPage(row)
}

// CompleteSlugExistsParams holds arguments for the uniqueness probe.
// SiteID is consulted only when OnSite is true.
type CompleteSlugExistsParams struct {
	CompleteSlug string
	ExcludeID    int64
	OnSite       bool
	SiteID       int64
}

// CompleteSlugExists reports whether another page already occupies the
// given materialized path within the applicable scope.
func (q *Queries) CompleteSlugExists(ctx context.Context, arg CompleteSlugExistsParams) (bool, error) {
	var count int64
	var err error
	if arg.OnSite {
		err = q.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM pages
			WHERE complete_slug = ? AND id != ?
			  AND id IN (SELECT page_id FROM page_sites WHERE site_id = ?)`,
			arg.CompleteSlug, arg.ExcludeID, arg.SiteID).Scan(&count)
	} else {
		err = q.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pages WHERE complete_slug = ? AND id != ?`,
			arg.CompleteSlug, arg.ExcludeID).Scan(&count)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRootPages returns all root pages in forest order.
func (q *Queries) ListRootPages(ctx context.Context) ([]model.Page, error) {
	return q.queryPages(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE parent_id IS NULL ORDER BY tree_id`)
}

// GetFirstRootPage returns the first root page of the forest.
func (q *Queries) GetFirstRootPage(ctx context.Context) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE parent_id IS NULL ORDER BY tree_id LIMIT 1`)
	return scanPage(row)
}

// SubtreeParams identifies a subtree by its nested-set range.
type SubtreeParams struct {
	TreeID int64
	Lft    int64
	Rgt    int64
}

// ListDescendants returns every page strictly inside the given range,
// in ascending traversal order (ancestors before descendants).
func (q *Queries) ListDescendants(ctx context.Context, arg SubtreeParams) ([]model.Page, error) {
	return q.queryPages(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE tree_id = ? AND lft > ? AND rgt < ?
		ORDER BY lft`,
		arg.TreeID, arg.Lft, arg.Rgt)
}

// ListAncestors returns every page strictly containing the given range,
// root first.
func (q *Queries) ListAncestors(ctx context.Context, arg SubtreeParams) ([]model.Page, error) {
	return q.queryPages(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE tree_id = ? AND lft < ? AND rgt > ?
		ORDER BY lft`,
		arg.TreeID, arg.Lft, arg.Rgt)
}

// ListChildren returns the direct children of a page in sibling order.
func (q *Queries) ListChildren(ctx context.Context, parentID int64) ([]model.Page, error) {
	return q.queryPages(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE parent_id = ? ORDER BY lft`, parentID)
}

// ListPagesExcludingSubtree returns every page outside the given
// subtree (the subtree root included in the exclusion), in forest order.
func (q *Queries) ListPagesExcludingSubtree(ctx context.Context, arg SubtreeParams) ([]model.Page, error) {
	return q.queryPages(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE NOT (tree_id = ? AND lft >= ? AND rgt <= ?)
		ORDER BY tree_id, lft`,
		arg.TreeID, arg.Lft, arg.Rgt)
}

// UpdatePageParams holds the editable attributes of a page. Tree
// position and the materialized path are maintained by dedicated
// queries.
type UpdatePageParams struct {
	ID                   int64
	Slug                 string
	Status               int64
	Template             sql.NullString
	DelegateTo           sql.NullString
	RedirectToID         sql.NullInt64
	RedirectToURL        sql.NullString
	PublicationDate      sql.NullTime
	PublicationEndDate   sql.NullTime
	FreezeDate           sql.NullTime
	LastModificationDate time.Time
}

// UpdatePage updates the editable attributes of a page row.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages SET
			slug = ?, status = ?, template = ?, delegate_to = ?,
			redirect_to_id = ?, redirect_to_url = ?,
			publication_date = ?, publication_end_date = ?, freeze_date = ?,
			last_modification_date = ?
		WHERE id = ?`,
		arg.Slug, arg.Status, arg.Template, arg.DelegateTo,
		arg.RedirectToID, arg.RedirectToURL,
		arg.PublicationDate, arg.PublicationEndDate, arg.FreezeDate,
		arg.LastModificationDate, arg.ID)
	return err
}

// UpdatePageCompleteSlugParams names a page and its new materialized path.
type UpdatePageCompleteSlugParams struct {
	ID                   int64
	CompleteSlug         string
	LastModificationDate time.Time
}

// UpdatePageCompleteSlug rewrites the cached materialized path of a page.
func (q *Queries) UpdatePageCompleteSlug(ctx context.Context, arg UpdatePageCompleteSlugParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET complete_slug = ?, last_modification_date = ? WHERE id = ?`,
		arg.CompleteSlug, arg.LastModificationDate, arg.ID)
	return err
}

// UpdatePageParent rewrites the parent pointer of a page.
func (q *Queries) UpdatePageParent(ctx context.Context, id int64, parentID sql.NullInt64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET parent_id = ? WHERE id = ?`, parentID, id)
	return err
}

// DeletePage removes a page row. Descendants and contents follow via
// foreign key cascade; the caller is responsible for closing the
// nested-set gap.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&count)
	return count, err
}

// AddPageSite attaches a page to a site scope.
func (q *Queries) AddPageSite(ctx context.Context, pageID, siteID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO page_sites (page_id, site_id) VALUES (?, ?)`, pageID, siteID)
	return err
}

// RemovePageSite detaches a page from a site scope.
func (q *Queries) RemovePageSite(ctx context.Context, pageID, siteID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM page_sites WHERE page_id = ? AND site_id = ?`, pageID, siteID)
	return err
}

// ListPageSites returns the site IDs a page is attached to.
func (q *Queries) ListPageSites(ctx context.Context, pageID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT site_id FROM page_sites WHERE page_id = ? ORDER BY site_id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sites = append(sites, id)
	}
	return sites, rows.Err()
}
