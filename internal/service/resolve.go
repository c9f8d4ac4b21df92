// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/util"
)

// Resolution is the outcome of resolving a request path.
type Resolution struct {
	Page model.Page

	// Status is the page's effective status at resolution time.
	Status int64

	// RedirectTo is set when the request should be answered with a
	// redirect instead of rendering the page: either the page carries a
	// redirect target, or an alias matched and points at the page's
	// canonical path.
	RedirectTo string

	// FromAlias is true when the path matched an alias rather than the
	// page's own complete slug.
	FromAlias bool

	// Delegated names the application handler that takes over rendering,
	// inherited from the nearest ancestor that sets one.
	Delegated string
}

// ResolvePath maps a request path to a page. The empty path resolves to
// the first root page. When the first root's slug is hidden, paths are
// also tried with the root slug prepended. Unmatched paths fall back to
// the alias table; matched aliases redirect to the page's canonical
// path. Returns ErrPageNotFound when nothing matches.
func (s *Service) ResolvePath(ctx context.Context, path, query string) (Resolution, error) {
	path = util.NormalizePath(path)

	if path == "" {
		root, err := s.FirstRoot(ctx)
		if err != nil {
			return Resolution{}, err
		}
		return s.resolution(ctx, root, false)
	}

	page, err := s.pageBySlugPath(ctx, path)
	if err == nil {
		return s.resolution(ctx, page, false)
	}
	if !errors.Is(err, ErrPageNotFound) {
		return Resolution{}, err
	}

	if s.cfg.HideRootSlug {
		root, rootErr := s.FirstRoot(ctx)
		if rootErr == nil {
			page, err = s.pageBySlugPath(ctx, model.BuildCompleteSlug(root.CompleteSlug, path))
			if err == nil {
				return s.resolution(ctx, page, false)
			}
			if !errors.Is(err, ErrPageNotFound) {
				return Resolution{}, err
			}
		}
	}

	alias, err := s.ResolveAlias(ctx, "/"+path, query)
	if err != nil {
		if errors.Is(err, ErrAliasNotFound) {
			return Resolution{}, ErrPageNotFound
		}
		return Resolution{}, err
	}
	if !alias.PageID.Valid {
		return Resolution{}, ErrPageNotFound
	}
	page, err = s.GetPage(ctx, alias.PageID.Int64)
	if err != nil {
		return Resolution{}, err
	}
	return s.resolution(ctx, page, true)
}

// pageBySlugPath looks up a page by its materialized path, site-scoped
// when site scoping is on.
func (s *Service) pageBySlugPath(ctx context.Context, completeSlug string) (model.Page, error) {
	var page model.Page
	var err error
	if s.cfg.UseSiteID {
		page, err = s.queries.GetPageByCompleteSlugOnSite(ctx, completeSlug, s.cfg.SiteID)
	} else {
		page, err = s.queries.GetPageByCompleteSlug(ctx, completeSlug)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, ErrPageNotFound
	}
	return page, err
}

// resolution assembles the Resolution for a matched page.
func (s *Service) resolution(ctx context.Context, page model.Page, fromAlias bool) (Resolution, error) {
	res := Resolution{
		Page:      page,
		Status:    page.CalculatedStatus(time.Now(), s.statusFlags()),
		FromAlias: fromAlias,
	}

	if fromAlias {
		url, err := s.PageURL(ctx, page)
		if err != nil {
			return Resolution{}, err
		}
		res.RedirectTo = url
	}

	switch {
	case page.RedirectToURL.Valid && page.RedirectToURL.String != "":
		res.RedirectTo = page.RedirectToURL.String
	case page.RedirectToID.Valid:
		target, err := s.GetPage(ctx, page.RedirectToID.Int64)
		if err == nil {
			url, err := s.PageURL(ctx, target)
			if err != nil {
				return Resolution{}, err
			}
			res.RedirectTo = url
		}
	}

	delegated, err := s.delegateHandler(ctx, page)
	if err != nil {
		return Resolution{}, err
	}
	res.Delegated = delegated

	return res, nil
}

// PageURL returns the request path serving a page, honoring the hidden
// root slug. The result is cached.
func (s *Service) PageURL(ctx context.Context, page model.Page) (string, error) {
	if data, err := s.cache.Get(ctx, cache.URLKey(page.ID)); err == nil {
		return string(data), nil
	}

	url := "/" + page.CompleteSlug
	if s.cfg.HideRootSlug {
		root, err := s.FirstRoot(ctx)
		if err == nil && root.TreeID == page.TreeID {
			if page.ID == root.ID {
				url = "/"
			} else if rest, ok := strings.CutPrefix(page.CompleteSlug, root.CompleteSlug+"/"); ok {
				url = "/" + rest
			}
		}
	}

	_ = s.cache.Set(ctx, cache.URLKey(page.ID), []byte(url), s.cacheTTL())
	return url, nil
}

// delegateHandler returns the delegate handler for a page: its own or
// the nearest ancestor's.
func (s *Service) delegateHandler(ctx context.Context, page model.Page) (string, error) {
	if page.DelegateTo.Valid && page.DelegateTo.String != "" {
		return page.DelegateTo.String, nil
	}

	ancestors, err := s.Ancestors(ctx, page)
	if err != nil {
		return "", err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].DelegateTo.Valid && ancestors[i].DelegateTo.String != "" {
			return ancestors[i].DelegateTo.String, nil
		}
	}
	return "", nil
}
