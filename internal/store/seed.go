// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pagecore/internal/model"
)

// seedPage describes one node of the demo tree.
type seedPage struct {
	slug     string
	title    string
	body     string
	children []seedPage
}

var demoTree = []seedPage{
	{
		slug:  "home",
		title: "Home",
		body:  "<p>Welcome to the demo site.</p>",
		children: []seedPage{
			{
				slug:  "about",
				title: "About",
				body:  "<p>About this project.</p>",
				children: []seedPage{
					{slug: "team", title: "Team", body: "<p>The people behind it.</p>"},
				},
			},
			{slug: "contact", title: "Contact", body: "<p>Get in touch.</p>"},
		},
	},
}

// Seed creates initial demo pages in the database. It is a no-op
// when any page already exists.
func Seed(ctx context.Context, db *sql.DB, language string) error {
	queries := New(db)

	count, err := queries.CountPages(ctx)
	if err != nil {
		return fmt.Errorf("counting pages: %w", err)
	}
	if count > 0 {
		slog.Info("pages already exist, skipping seed")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	q := queries.WithTx(tx)
	now := time.Now()

	for i, root := range demoTree {
		counter := int64(1)
		if err := seedSubtree(ctx, q, root, sql.NullInt64{}, "", int64(i+1), 0, &counter, language, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	slog.Info("seeded demo pages", "roots", len(demoTree))
	return nil
}

// seedSubtree inserts node and its children, assigning nested set
// boundaries from a preorder counter.
func seedSubtree(ctx context.Context, q *Queries, node seedPage, parentID sql.NullInt64, parentSlug string, treeID, level int64, counter *int64, language string, now time.Time) error {
	lft := *counter
	*counter++

	completeSlug := model.BuildCompleteSlug(parentSlug, node.slug)
	page, err := q.CreatePage(ctx, CreatePageParams{
		UUID:                 uuid.NewString(),
		ParentID:             parentID,
		TreeID:               treeID,
		Lft:                  lft,
		Rgt:                  0, // fixed up below once children are placed
		Level:                level,
		Slug:                 node.slug,
		CompleteSlug:         completeSlug,
		Status:               model.PageStatusPublished,
		PublicationDate:      sql.NullTime{Time: now, Valid: true},
		CreationDate:         now,
		LastModificationDate: now,
	})
	if err != nil {
		return fmt.Errorf("creating page %q: %w", completeSlug, err)
	}

	childParent := sql.NullInt64{Int64: page.ID, Valid: true}
	for _, child := range node.children {
		if err := seedSubtree(ctx, q, child, childParent, completeSlug, treeID, level+1, counter, language, now); err != nil {
			return err
		}
	}

	rgt := *counter
	*counter++
	if err := q.setSeedRgt(ctx, page.ID, rgt); err != nil {
		return fmt.Errorf("closing page %q: %w", completeSlug, err)
	}

	for ctype, body := range map[string]string{
		model.ContentTypeTitle: node.title,
		"body":                 node.body,
	} {
		if _, err := q.CreateContent(ctx, CreateContentParams{
			PageID:       page.ID,
			Language:     language,
			Type:         ctype,
			Body:         body,
			CreationDate: now,
		}); err != nil {
			return fmt.Errorf("creating %s content for %q: %w", ctype, completeSlug, err)
		}
	}

	return nil
}

func (q *Queries) setSeedRgt(ctx context.Context, id, rgt int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE pages SET rgt = ? WHERE id = ?`, rgt, id)
	return err
}
