// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/store"
	"github.com/olegiv/pagecore/internal/util"
)

// Position names where a moved or created page lands relative to its
// target.
type Position string

// Move positions.
const (
	PositionFirstChild Position = "first-child"
	PositionLastChild  Position = "last-child"
	PositionLeft       Position = "left"
	PositionRight      Position = "right"
)

// PageInput carries the editable attributes of a page for create and
// save operations. A nil ParentID makes the page a root.
type PageInput struct {
	// Title seeds the slug when Slug is empty, and becomes the initial
	// title content in the default language on create.
	Title string

	// Slug is the desired path segment. When empty it is derived from
	// Title. On collision the engine appends a numeric suffix rather
	// than failing; use ValidateSlug for the strict check.
	Slug string

	ParentID *int64

	Status        int64
	Template      string
	DelegateTo    string
	RedirectToID  *int64
	RedirectToURL string

	PublicationDate    *time.Time
	PublicationEndDate *time.Time
	FreezeDate         *time.Time
}

// slugOf derives the slug segment from the input.
func (in *PageInput) slugOf() string {
	if in.Slug != "" {
		return util.NormalizeSlug(in.Slug)
	}
	return util.Slugify(in.Title)
}

// CreatePage creates a page under the given parent (or as a new root)
// and returns it. The slug is made unique within the page's scope by
// appending a numeric suffix when needed.
func (s *Service) CreatePage(ctx context.Context, in PageInput) (model.Page, error) {
	slug := in.slugOf()
	if slug == "" {
		return model.Page{}, validationErr("slug", "empty slug: provide a slug or a title")
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	now := time.Now()
	pub, end := s.applyPublicationDates(in.Status, util.NullTimeFromPtr(in.PublicationDate), util.NullTimeFromPtr(in.PublicationEndDate), now)

	var page model.Page
	var renamedFrom string
	err := s.withTx(ctx, func(q *store.Queries) error {
		var (
			parentID    sql.NullInt64
			parentSlug  string
			treeID, lft int64
			level       int64
		)

		if in.ParentID != nil {
			parent, err := q.GetPageByID(ctx, *in.ParentID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrPageNotFound
				}
				return err
			}
			parentID = util.NullInt64FromValue(parent.ID)
			parentSlug = parent.CompleteSlug
			treeID = parent.TreeID
			lft = parent.Rgt
			level = parent.Level + 1

			// Open a two-wide gap at the end of the parent's children
			if err := q.ShiftRgt(ctx, store.ShiftRangeParams{TreeID: treeID, From: parent.Rgt, By: 2}); err != nil {
				return err
			}
			if err := q.ShiftLft(ctx, store.ShiftRangeParams{TreeID: treeID, From: parent.Rgt, By: 2}); err != nil {
				return err
			}
		} else {
			maxTree, err := q.MaxTreeID(ctx)
			if err != nil {
				return err
			}
			treeID = maxTree + 1
			lft = 1
			level = 0
		}

		finalSlug, completeSlug, err := s.uniqueSlug(ctx, q, parentSlug, slug, 0)
		if err != nil {
			return err
		}
		if finalSlug != slug {
			renamedFrom = slug
		}

		page, err = q.CreatePage(ctx, store.CreatePageParams{
			UUID:                 uuid.NewString(),
			ParentID:             parentID,
			TreeID:               treeID,
			Lft:                  lft,
			Rgt:                  lft + 1,
			Level:                level,
			Slug:                 finalSlug,
			CompleteSlug:         completeSlug,
			Status:               in.Status,
			Template:             util.NullStringFromValue(in.Template),
			DelegateTo:           util.NullStringFromValue(in.DelegateTo),
			RedirectToID:         util.NullInt64FromPtr(in.RedirectToID),
			RedirectToURL:        util.NullStringFromValue(in.RedirectToURL),
			PublicationDate:      pub,
			PublicationEndDate:   end,
			FreezeDate:           util.NullTimeFromPtr(in.FreezeDate),
			CreationDate:         now,
			LastModificationDate: now,
		})
		if err != nil {
			return err
		}

		if s.cfg.UseSiteID {
			if err := q.AddPageSite(ctx, page.ID, s.cfg.SiteID); err != nil {
				return err
			}
		}

		if in.Title != "" {
			if _, err := q.CreateContent(ctx, store.CreateContentParams{
				PageID:       page.ID,
				Language:     s.cfg.DefaultLanguage,
				Type:         model.ContentTypeTitle,
				Body:         in.Title,
				CreationDate: now,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return model.Page{}, err
	}

	if renamedFrom != "" {
		s.logEvent(ctx, model.EventLevelWarning, model.EventCategoryPage,
			"slug collision resolved", "page_id", page.ID, "requested", renamedFrom, "assigned", page.Slug)
	}
	s.invalidatePage(ctx, page)
	return page, nil
}

// SavePage updates a page's editable attributes. A slug change rewrites
// the page's materialized path and cascades to every descendant, each
// re-checked for uniqueness. Collisions are resolved by suffixing, never
// by failing.
func (s *Service) SavePage(ctx context.Context, id int64, in PageInput) (model.Page, error) {
	slug := in.slugOf()
	if slug == "" {
		return model.Page{}, validationErr("slug", "empty slug: provide a slug or a title")
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	now := time.Now()
	pub, end := s.applyPublicationDates(in.Status, util.NullTimeFromPtr(in.PublicationDate), util.NullTimeFromPtr(in.PublicationEndDate), now)

	var page model.Page
	var renamedFrom string
	err := s.withTx(ctx, func(q *store.Queries) error {
		current, err := q.GetPageByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}

		parentSlug := ""
		if current.ParentID.Valid {
			parent, err := q.GetPageByID(ctx, current.ParentID.Int64)
			if err != nil {
				return err
			}
			parentSlug = parent.CompleteSlug
		}

		finalSlug := current.Slug
		completeSlug := current.CompleteSlug
		if slug != current.Slug {
			finalSlug, completeSlug, err = s.uniqueSlug(ctx, q, parentSlug, slug, current.ID)
			if err != nil {
				return err
			}
			if finalSlug != slug {
				renamedFrom = slug
			}
		}

		if err := q.UpdatePage(ctx, store.UpdatePageParams{
			ID:                   current.ID,
			Slug:                 finalSlug,
			Status:               in.Status,
			Template:             util.NullStringFromValue(in.Template),
			DelegateTo:           util.NullStringFromValue(in.DelegateTo),
			RedirectToID:         util.NullInt64FromPtr(in.RedirectToID),
			RedirectToURL:        util.NullStringFromValue(in.RedirectToURL),
			PublicationDate:      pub,
			PublicationEndDate:   end,
			FreezeDate:           util.NullTimeFromPtr(in.FreezeDate),
			LastModificationDate: now,
		}); err != nil {
			return err
		}

		if completeSlug != current.CompleteSlug {
			if err := q.UpdatePageCompleteSlug(ctx, store.UpdatePageCompleteSlugParams{
				ID:                   current.ID,
				CompleteSlug:         completeSlug,
				LastModificationDate: now,
			}); err != nil {
				return err
			}
			if err := s.cascadeCompleteSlugs(ctx, q, current, completeSlug, now); err != nil {
				return err
			}
		}

		page, err = q.GetPageByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return model.Page{}, err
	}

	if renamedFrom != "" {
		s.logEvent(ctx, model.EventLevelWarning, model.EventCategoryPage,
			"slug collision resolved", "page_id", page.ID, "requested", renamedFrom, "assigned", page.Slug)
	}
	s.invalidatePage(ctx, page)
	return page, nil
}

// ChangeStatus updates only the stored status of a page, applying the
// same publication date side effects as a full save: publishing without
// a date stamps now, reverting to draft clears past dates.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status int64) (model.Page, error) {
	now := time.Now()

	var page model.Page
	err := s.withTx(ctx, func(q *store.Queries) error {
		current, err := q.GetPageByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}

		upd := updateParamsFromPage(current, now)
		upd.Status = status
		upd.PublicationDate, upd.PublicationEndDate =
			s.applyPublicationDates(status, current.PublicationDate, current.PublicationEndDate, now)
		if err := q.UpdatePage(ctx, upd); err != nil {
			return err
		}

		page, err = q.GetPageByID(ctx, id)
		return err
	})
	if err != nil {
		return model.Page{}, err
	}

	s.logEvent(ctx, model.EventLevelInfo, model.EventCategoryPage,
		"page status changed", "page_id", id, "status", model.StatusName(status))
	s.invalidatePage(ctx, page)
	return page, nil
}

// ValidateSlug is the strict counterpart of the save path: it reports
// ErrDuplicateSlug when the slug would collide within the page's scope
// instead of silently suffixing. pageID 0 checks a not-yet-created page.
func (s *Service) ValidateSlug(ctx context.Context, pageID int64, parentID *int64, slug string) error {
	slug = util.NormalizeSlug(slug)
	if slug == "" {
		return validationErr("slug", "empty slug")
	}
	if !util.IsValidSlug(slug) {
		return validationErr("slug", "invalid slug %q", slug)
	}

	parentSlug := ""
	if parentID != nil {
		parent, err := s.queries.GetPageByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}
		parentSlug = parent.CompleteSlug
	}

	exists, err := s.queries.CompleteSlugExists(ctx, store.CompleteSlugExistsParams{
		CompleteSlug: model.BuildCompleteSlug(parentSlug, slug),
		ExcludeID:    pageID,
		OnSite:       s.cfg.UseSiteID,
		SiteID:       s.cfg.SiteID,
	})
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateSlug
	}
	return nil
}

// MovePage moves a page and its whole subtree relative to the target
// page. Moving a page under itself or one of its descendants returns
// ErrInvalidMoveTarget. The materialized paths of the subtree are
// rebuilt for the new location.
func (s *Service) MovePage(ctx context.Context, pageID, targetID int64, position Position) error {
	switch position {
	case PositionFirstChild, PositionLastChild, PositionLeft, PositionRight:
	default:
		return validationErr("position", "unknown position %q", string(position))
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	now := time.Now()
	var moved model.Page

	err := s.withTx(ctx, func(q *store.Queries) error {
		node, err := q.GetPageByID(ctx, pageID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}
		target, err := q.GetPageByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}

		if target.TreeID == node.TreeID && target.Lft >= node.Lft && target.Rgt <= node.Rgt {
			return ErrInvalidMoveTarget
		}

		width := node.Rgt - node.Lft + 1

		// Mark the subtree in flight, then close the gap it leaves.
		if err := q.NegateSubtree(ctx, store.SubtreeParams{TreeID: node.TreeID, Lft: node.Lft, Rgt: node.Rgt}); err != nil {
			return err
		}
		if err := q.ShiftLft(ctx, store.ShiftRangeParams{TreeID: node.TreeID, From: node.Rgt + 1, By: -width}); err != nil {
			return err
		}
		if err := q.ShiftRgt(ctx, store.ShiftRangeParams{TreeID: node.TreeID, From: node.Rgt + 1, By: -width}); err != nil {
			return err
		}

		var newParentID sql.NullInt64
		if target.IsRoot() && (position == PositionLeft || position == PositionRight) {
			// Sibling of a root: the subtree becomes its own tree.
			newTreeID := target.TreeID
			if position == PositionRight {
				newTreeID = target.TreeID + 1
			}
			if err := q.ShiftTreeIDs(ctx, newTreeID, 1); err != nil {
				return err
			}
			if err := q.RestoreSubtree(ctx, store.RestoreSubtreeParams{
				Offset:     1 - node.Lft,
				LevelDelta: -node.Level,
				NewTreeID:  newTreeID,
			}); err != nil {
				return err
			}
		} else {
			// The gap close may have shifted the target; re-read it.
			target, err = q.GetPageByID(ctx, targetID)
			if err != nil {
				return err
			}

			var pos, newLevel int64
			switch position {
			case PositionFirstChild:
				pos, newLevel = target.Lft+1, target.Level+1
				newParentID = util.NullInt64FromValue(target.ID)
			case PositionLastChild:
				pos, newLevel = target.Rgt, target.Level+1
				newParentID = util.NullInt64FromValue(target.ID)
			case PositionLeft:
				pos, newLevel = target.Lft, target.Level
				newParentID = target.ParentID
			case PositionRight:
				pos, newLevel = target.Rgt+1, target.Level
				newParentID = target.ParentID
			}

			if err := q.ShiftLft(ctx, store.ShiftRangeParams{TreeID: target.TreeID, From: pos, By: width}); err != nil {
				return err
			}
			if err := q.ShiftRgt(ctx, store.ShiftRangeParams{TreeID: target.TreeID, From: pos, By: width}); err != nil {
				return err
			}
			if err := q.RestoreSubtree(ctx, store.RestoreSubtreeParams{
				Offset:     pos - node.Lft,
				LevelDelta: newLevel - node.Level,
				NewTreeID:  target.TreeID,
			}); err != nil {
				return err
			}
		}

		negated, err := q.CountNegatedPages(ctx)
		if err != nil {
			return err
		}
		if negated != 0 {
			return fmt.Errorf("tree inconsistent after move: %d pages left in flight", negated)
		}

		if err := q.UpdatePageParent(ctx, node.ID, newParentID); err != nil {
			return err
		}

		// Rebuild the subtree's materialized paths under the new parent.
		parentSlug := ""
		if newParentID.Valid {
			parent, err := q.GetPageByID(ctx, newParentID.Int64)
			if err != nil {
				return err
			}
			parentSlug = parent.CompleteSlug
		}

		node, err = q.GetPageByID(ctx, node.ID)
		if err != nil {
			return err
		}
		finalSlug, completeSlug, err := s.uniqueSlug(ctx, q, parentSlug, node.Slug, node.ID)
		if err != nil {
			return err
		}
		if finalSlug != node.Slug {
			upd := updateParamsFromPage(node, now)
			upd.Slug = finalSlug
			if err := q.UpdatePage(ctx, upd); err != nil {
				return err
			}
		}
		if err := q.UpdatePageCompleteSlug(ctx, store.UpdatePageCompleteSlugParams{
			ID:                   node.ID,
			CompleteSlug:         completeSlug,
			LastModificationDate: now,
		}); err != nil {
			return err
		}
		if err := s.cascadeCompleteSlugs(ctx, q, node, completeSlug, now); err != nil {
			return err
		}

		moved, err = q.GetPageByID(ctx, node.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.logEvent(ctx, model.EventLevelInfo, model.EventCategoryPage,
		"page moved", "page_id", pageID, "target_id", targetID, "position", string(position))
	s.invalidateSubtree(ctx, moved)
	return nil
}

// DeletePage removes a page and its whole subtree. Content versions and
// aliases pointing at the deleted pages follow via foreign keys.
func (s *Service) DeletePage(ctx context.Context, id int64) error {
	var page model.Page
	var ancestors []model.Page

	err := s.withTx(ctx, func(q *store.Queries) error {
		var err error
		page, err = q.GetPageByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPageNotFound
			}
			return err
		}

		ancestors, err = q.ListAncestors(ctx, store.SubtreeParams{TreeID: page.TreeID, Lft: page.Lft, Rgt: page.Rgt})
		if err != nil {
			return err
		}

		if err := q.DeletePage(ctx, page.ID); err != nil {
			return err
		}

		width := page.Rgt - page.Lft + 1
		if err := q.ShiftLft(ctx, store.ShiftRangeParams{TreeID: page.TreeID, From: page.Rgt + 1, By: -width}); err != nil {
			return err
		}
		return q.ShiftRgt(ctx, store.ShiftRangeParams{TreeID: page.TreeID, From: page.Rgt + 1, By: -width})
	})
	if err != nil {
		return err
	}

	s.logEvent(ctx, model.EventLevelInfo, model.EventCategoryPage,
		"page deleted", "page_id", id, "complete_slug", page.CompleteSlug)

	s.invalidatePage(ctx, page)
	for _, a := range ancestors {
		s.invalidateOne(ctx, a)
	}
	return nil
}

// GetPage retrieves a page by ID.
func (s *Service) GetPage(ctx context.Context, id int64) (model.Page, error) {
	page, err := s.queries.GetPageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, ErrPageNotFound
	}
	return page, err
}

// GetPageByUUID retrieves a page by its stable UUID.
func (s *Service) GetPageByUUID(ctx context.Context, id string) (model.Page, error) {
	page, err := s.queries.GetPageByUUID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, ErrPageNotFound
	}
	return page, err
}

// Children returns the direct children of a page in sibling order.
func (s *Service) Children(ctx context.Context, pageID int64) ([]model.Page, error) {
	tc := cache.NewTypedCache[[]model.Page](s.cache, s.cacheTTL())
	pages, err := tc.GetOrSet(ctx, cache.ChildrenKey(pageID), func() (*[]model.Page, error) {
		children, err := s.queries.ListChildren(ctx, pageID)
		if err != nil {
			return nil, err
		}
		return &children, nil
	})
	if err != nil {
		return nil, err
	}
	return *pages, nil
}

// PublishedChildren returns the children that are currently visible on
// the frontend. The filter runs over the cached children list on every
// call because visibility depends on the clock.
func (s *Service) PublishedChildren(ctx context.Context, pageID int64) ([]model.Page, error) {
	children, err := s.Children(ctx, pageID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	flags := s.statusFlags()
	visible := make([]model.Page, 0, len(children))
	for _, c := range children {
		if c.CalculatedStatus(now, flags) == model.PageStatusPublished {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Descendants returns every page of the subtree below the given page,
// in traversal order.
func (s *Service) Descendants(ctx context.Context, page model.Page) ([]model.Page, error) {
	return s.queries.ListDescendants(ctx, store.SubtreeParams{TreeID: page.TreeID, Lft: page.Lft, Rgt: page.Rgt})
}

// Ancestors returns the chain of pages above the given page, root first.
func (s *Service) Ancestors(ctx context.Context, page model.Page) ([]model.Page, error) {
	return s.queries.ListAncestors(ctx, store.SubtreeParams{TreeID: page.TreeID, Lft: page.Lft, Rgt: page.Rgt})
}

// RootPages returns all root pages in forest order.
func (s *Service) RootPages(ctx context.Context) ([]model.Page, error) {
	return s.queries.ListRootPages(ctx)
}

// FirstRoot returns the first root page of the forest. The result is
// cached; any save of a root page invalidates it.
func (s *Service) FirstRoot(ctx context.Context) (model.Page, error) {
	tc := cache.NewTypedCache[model.Page](s.cache, s.cacheTTL())
	page, err := tc.GetOrSet(ctx, cache.FirstRootKey, func() (*model.Page, error) {
		root, err := s.queries.GetFirstRootPage(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPageNotFound
			}
			return nil, err
		}
		return &root, nil
	})
	if err != nil {
		return model.Page{}, err
	}
	return *page, nil
}

// ValidMoveTargets returns every page a given page may be moved
// relative to, excluding the page itself and its descendants.
func (s *Service) ValidMoveTargets(ctx context.Context, pageID int64) ([]model.Page, error) {
	page, err := s.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return s.queries.ListPagesExcludingSubtree(ctx, store.SubtreeParams{TreeID: page.TreeID, Lft: page.Lft, Rgt: page.Rgt})
}

// GetTemplate resolves the template of a page: its own, or the nearest
// ancestor's, or the configured default.
func (s *Service) GetTemplate(ctx context.Context, page model.Page) (string, error) {
	if page.Template.Valid && page.Template.String != "" {
		return page.Template.String, nil
	}

	ancestors, err := s.Ancestors(ctx, page)
	if err != nil {
		return "", err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Template.Valid && ancestors[i].Template.String != "" {
			return ancestors[i].Template.String, nil
		}
	}
	return s.cfg.DefaultTemplate, nil
}

// uniqueSlug finds a free slug within the parent scope by appending a
// numeric suffix on collision: "about", "about-2", "about-3" and so on.
func (s *Service) uniqueSlug(ctx context.Context, q *store.Queries, parentCompleteSlug, slug string, excludeID int64) (string, string, error) {
	try := slug
	for i := 2; ; i++ {
		completeSlug := model.BuildCompleteSlug(parentCompleteSlug, try)
		exists, err := q.CompleteSlugExists(ctx, store.CompleteSlugExistsParams{
			CompleteSlug: completeSlug,
			ExcludeID:    excludeID,
			OnSite:       s.cfg.UseSiteID,
			SiteID:       s.cfg.SiteID,
		})
		if err != nil {
			return "", "", err
		}
		if !exists {
			return try, completeSlug, nil
		}
		try = fmt.Sprintf("%s-%d", slug, i)
	}
}

// cascadeCompleteSlugs rewrites the materialized path of every
// descendant after the root of the subtree changed its own. Descendants
// are processed ancestors-first so each sees its parent's final path,
// and each is re-checked for uniqueness.
func (s *Service) cascadeCompleteSlugs(ctx context.Context, q *store.Queries, root model.Page, rootCompleteSlug string, now time.Time) error {
	descendants, err := q.ListDescendants(ctx, store.SubtreeParams{TreeID: root.TreeID, Lft: root.Lft, Rgt: root.Rgt})
	if err != nil {
		return err
	}

	paths := map[int64]string{root.ID: rootCompleteSlug}
	for _, d := range descendants {
		parentSlug := paths[d.ParentID.Int64]
		finalSlug, completeSlug, err := s.uniqueSlug(ctx, q, parentSlug, d.Slug, d.ID)
		if err != nil {
			return err
		}
		if finalSlug != d.Slug {
			upd := updateParamsFromPage(d, now)
			upd.Slug = finalSlug
			if err := q.UpdatePage(ctx, upd); err != nil {
				return err
			}
		}
		if completeSlug != d.CompleteSlug {
			if err := q.UpdatePageCompleteSlug(ctx, store.UpdatePageCompleteSlugParams{
				ID:                   d.ID,
				CompleteSlug:         completeSlug,
				LastModificationDate: now,
			}); err != nil {
				return err
			}
		}
		paths[d.ID] = completeSlug
	}
	return nil
}

// applyPublicationDates applies status-dependent defaults:
//
//   - publishing without a publication date stamps the current time;
//   - reverting to draft clears the publication date, except that a
//     still-future date survives while start-date enforcement is on
//     (the page stays a scheduled draft).
func (s *Service) applyPublicationDates(status int64, pub, end sql.NullTime, now time.Time) (sql.NullTime, sql.NullTime) {
	switch status {
	case model.PageStatusPublished:
		if !pub.Valid {
			pub = sql.NullTime{Time: now, Valid: true}
		}
	case model.PageStatusDraft:
		if s.cfg.ShowStartDate {
			if pub.Valid && !pub.Time.After(now) {
				pub = sql.NullTime{}
			}
		} else {
			pub = sql.NullTime{}
		}
	}
	return pub, end
}

// updateParamsFromPage builds full update params preserving a page's
// current attributes.
func updateParamsFromPage(p model.Page, now time.Time) store.UpdatePageParams {
	return store.UpdatePageParams{
		ID:                   p.ID,
		Slug:                 p.Slug,
		Status:               p.Status,
		Template:             p.Template,
		DelegateTo:           p.DelegateTo,
		RedirectToID:         p.RedirectToID,
		RedirectToURL:        p.RedirectToURL,
		PublicationDate:      p.PublicationDate,
		PublicationEndDate:   p.PublicationEndDate,
		FreezeDate:           p.FreezeDate,
		LastModificationDate: now,
	}
}

// invalidateOne drops every cache entry a single page owns.
func (s *Service) invalidateOne(ctx context.Context, page model.Page) {
	_ = s.cache.DeleteByPrefix(ctx, cache.ContentDictPrefix(page.ID))
	_ = s.cache.Delete(ctx, cache.LanguagesKey(page.ID))
	_ = s.cache.Delete(ctx, cache.URLKey(page.ID))
	_ = s.cache.Delete(ctx, cache.ChildrenKey(page.ID))
}

// invalidatePage drops the page's cache entries and walks the parent
// chain to the root, since navigation and path caches of every ancestor
// may embed this page. Root pages also drop the first-root sentinel.
func (s *Service) invalidatePage(ctx context.Context, page model.Page) {
	s.invalidateOne(ctx, page)

	ancestors, err := s.Ancestors(ctx, page)
	if err == nil {
		for _, a := range ancestors {
			s.invalidateOne(ctx, a)
		}
	}
	if page.IsRoot() {
		_ = s.cache.Delete(ctx, cache.FirstRootKey)
	}
}

// invalidateSubtree drops cache entries for a page, its ancestors and
// its whole subtree. Used after moves, where every descendant's path
// changed.
func (s *Service) invalidateSubtree(ctx context.Context, page model.Page) {
	s.invalidatePage(ctx, page)

	descendants, err := s.Descendants(ctx, page)
	if err != nil {
		return
	}
	for _, d := range descendants {
		s.invalidateOne(ctx, d)
	}
}
