// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the core entities of the page engine: the page
// tree, its per-language content blocks, and URL aliases.
package model

import (
	"database/sql"
	"time"
)

// Page statuses. Expired is never stored; it is derived from the
// publication end date by CalculatedStatus.
const (
	PageStatusDraft     int64 = 0
	PageStatusPublished int64 = 1
	PageStatusExpired   int64 = 2
	PageStatusHidden    int64 = 3
)

// StatusFlags carries the configuration toggles that affect status
// derivation. They mirror the site configuration, so the model stays
// free of a config dependency.
type StatusFlags struct {
	ShowStartDate bool // publication_date gates visibility
	ShowEndDate   bool // publication_end_date expires pages
}

// Page represents a node of the page tree.
//
// Pages carry no body of their own: the content lives in Content records
// keyed by (page, language, type). The slug is a single path segment;
// CompleteSlug is the cached materialized path from the root, maintained
// on every save and move.
//
// Tree position uses nested-set fields (TreeID, Lft, Rgt, Level): every
// descendant's [Lft, Rgt] interval nests strictly inside its ancestor's,
// and sibling order is Lft order. Each root page owns its own TreeID.
type Page struct {
	ID       int64
	UUID     string
	ParentID sql.NullInt64

	TreeID int64
	Lft    int64
	Rgt    int64
	Level  int64

	Slug         string
	CompleteSlug string

	Status   int64
	Template sql.NullString

	// DelegateTo names an application handler that takes over rendering
	// for this page and its subtree.
	DelegateTo sql.NullString

	// Redirect targets: either another page or an external URL.
	RedirectToID  sql.NullInt64
	RedirectToURL sql.NullString

	PublicationDate    sql.NullTime
	PublicationEndDate sql.NullTime

	// FreezeDate is a point-in-time cutoff: content versions created
	// after it are ignored by reads.
	FreezeDate sql.NullTime

	CreationDate         time.Time
	LastModificationDate time.Time
}

// IsRoot returns true if the page has no parent.
func (p *Page) IsRoot() bool {
	return !p.ParentID.Valid
}

// IsFrozen returns true if a freeze date is set on the page.
func (p *Page) IsFrozen() bool {
	return p.FreezeDate.Valid
}

// CalculatedStatus derives the effective status of the page at the
// given instant, taking the publication window into account:
//
//   - a future publication date keeps the page a Draft while start-date
//     enforcement is on, whatever is stored;
//   - a past publication end date turns a Published or Hidden page
//     Expired while end-date enforcement is on; a draft has nothing to
//     expire from and stays a draft;
//   - otherwise the stored status stands.
func (p *Page) CalculatedStatus(now time.Time, flags StatusFlags) int64 {
	if flags.ShowStartDate && p.PublicationDate.Valid {
		if p.PublicationDate.Time.After(now) {
			return PageStatusDraft
		}
	}

	if flags.ShowEndDate && p.PublicationEndDate.Valid &&
		(p.Status == PageStatusPublished || p.Status == PageStatusHidden) {
		if p.PublicationEndDate.Time.Before(now) {
			return PageStatusExpired
		}
	}

	return p.Status
}

// Visible returns true if the page is reachable on the frontend.
// Hidden pages are visible by direct link but excluded from navigation.
func (p *Page) Visible(now time.Time, flags StatusFlags) bool {
	s := p.CalculatedStatus(now, flags)
	return s == PageStatusPublished || s == PageStatusHidden
}

// BuildCompleteSlug builds the materialized path for a page from its
// parent's complete slug and its own slug. Root pages use their slug
// directly.
func BuildCompleteSlug(parentCompleteSlug, slug string) string {
	if parentCompleteSlug == "" {
		return slug
	}
	return parentCompleteSlug + "/" + slug
}

// StatusName returns a human-readable name for a page status.
func StatusName(status int64) string {
	switch status {
	case PageStatusDraft:
		return "draft"
	case PageStatusPublished:
		return "published"
	case PageStatusExpired:
		return "expired"
	case PageStatusHidden:
		return "hidden"
	default:
		return "unknown"
	}
}
