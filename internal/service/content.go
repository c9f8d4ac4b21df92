// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/store"
	"github.com/olegiv/pagecore/internal/util"
)

// stripTags reduces HTML bodies to plain text for search exposure.
var stripTags = bluemonday.StrictPolicy()

// SetContent writes the current value of a content block. If the block
// already has versions, the latest version's body is overwritten in
// place; otherwise a first version is created. Use RecordContent to
// grow the version history instead.
func (s *Service) SetContent(ctx context.Context, pageID int64, language, ctype, body string) error {
	if !util.IsValidContentType(ctype) {
		return validationErr("type", "invalid content type %q", ctype)
	}
	if ctype == model.ContentTypeSlug {
		return validationErr("type", "slug is maintained through page saves")
	}

	err := s.withTx(ctx, func(q *store.Queries) error {
		latest, err := q.GetLatestContent(ctx, store.ContentLookupParams{
			PageID: pageID, Language: language, Type: ctype,
		})
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			_, err = q.CreateContent(ctx, store.CreateContentParams{
				PageID:       pageID,
				Language:     language,
				Type:         ctype,
				Body:         body,
				CreationDate: time.Now(),
			})
			return err
		}
		return q.UpdateContentBody(ctx, latest.ID, body)
	})
	if err != nil {
		return err
	}

	s.invalidateContent(ctx, pageID)
	return nil
}

// RecordContent appends a new version of a content block, but only when
// the body differs from the latest version. Returns true when a version
// was created. Old versions beyond the configured revision depth are
// pruned.
func (s *Service) RecordContent(ctx context.Context, pageID int64, language, ctype, body string) (bool, error) {
	if !util.IsValidContentType(ctype) {
		return false, validationErr("type", "invalid content type %q", ctype)
	}
	if ctype == model.ContentTypeSlug {
		return false, validationErr("type", "slug is maintained through page saves")
	}

	created := false
	err := s.withTx(ctx, func(q *store.Queries) error {
		lookup := store.ContentLookupParams{PageID: pageID, Language: language, Type: ctype}

		latest, err := q.GetLatestContent(ctx, lookup)
		if err == nil && latest.Body == body {
			return nil
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if _, err := q.CreateContent(ctx, store.CreateContentParams{
			PageID:       pageID,
			Language:     language,
			Type:         ctype,
			Body:         body,
			CreationDate: time.Now(),
		}); err != nil {
			return err
		}
		created = true

		if s.cfg.RevisionDepth > 0 {
			versions, err := q.ListContentVersions(ctx, lookup)
			if err != nil {
				return err
			}
			for _, v := range versions[min(s.cfg.RevisionDepth, len(versions)):] {
				if err := q.DeleteContent(ctx, v.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		s.invalidateContent(ctx, pageID)
	}
	return created, nil
}

// GetContent returns the current body of a content block in the given
// language. With fallback the configured language order is scanned when
// the requested language has nothing; without it a missing body yields
// an empty string, matching template usage where absent placeholders
// render as nothing.
//
// The reserved types read from the page: slug returns the page's slug,
// and title falls back to the slug when no title content exists.
func (s *Service) GetContent(ctx context.Context, page model.Page, language, ctype string, fallback bool) (string, error) {
	if !util.IsValidContentType(ctype) {
		return "", validationErr("type", "invalid content type %q", ctype)
	}
	if ctype == model.ContentTypeSlug {
		return page.Slug, nil
	}

	dict, err := s.contentDict(ctx, page, ctype)
	if err != nil {
		return "", err
	}

	if body, ok := dict[language]; ok && body != "" {
		return body, nil
	}
	if fallback {
		for _, lang := range s.cfg.Languages {
			if lang == language {
				continue
			}
			if body, ok := dict[lang]; ok && body != "" {
				return body, nil
			}
		}
	}

	if ctype == model.ContentTypeTitle {
		return page.Slug, nil
	}
	return "", nil
}

// GetContentObject returns the current version record of a content
// block without language fallback. Returns ErrContentNotFound when the
// block has no version in that language.
func (s *Service) GetContentObject(ctx context.Context, page model.Page, language, ctype string) (model.Content, error) {
	if !util.IsValidContentType(ctype) {
		return model.Content{}, validationErr("type", "invalid content type %q", ctype)
	}

	lookup := store.ContentLookupParams{PageID: page.ID, Language: language, Type: ctype}

	var content model.Content
	var err error
	if page.IsFrozen() {
		content, err = s.queries.GetLatestContentBefore(ctx, lookup, page.FreezeDate.Time)
	} else {
		content, err = s.queries.GetLatestContent(ctx, lookup)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.Content{}, ErrContentNotFound
	}
	return content, err
}

// ContentVersions returns the full history of a content block, newest
// first.
func (s *Service) ContentVersions(ctx context.Context, pageID int64, language, ctype string) ([]model.Content, error) {
	return s.queries.ListContentVersions(ctx, store.ContentLookupParams{
		PageID: pageID, Language: language, Type: ctype,
	})
}

// ContentByLanguage returns the current version of every content block
// a page has in one language, in type order. Frozen pages are served the
// snapshot their freeze date bounds.
func (s *Service) ContentByLanguage(ctx context.Context, page model.Page, language string) ([]model.Content, error) {
	contents, err := s.queries.ListCurrentContents(ctx, page.ID, language)
	if err != nil {
		return nil, err
	}
	if !page.IsFrozen() {
		return contents, nil
	}

	// Re-read blocks whose current version postdates the freeze.
	frozen := contents[:0]
	for _, c := range contents {
		if !c.CreationDate.After(page.FreezeDate.Time) {
			frozen = append(frozen, c)
			continue
		}
		before, err := s.queries.GetLatestContentBefore(ctx, store.ContentLookupParams{
			PageID: page.ID, Language: language, Type: c.Type,
		}, page.FreezeDate.Time)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		frozen = append(frozen, before)
	}
	return frozen, nil
}

// PageLanguages returns the languages a page has content in. The result
// is cached.
func (s *Service) PageLanguages(ctx context.Context, pageID int64) ([]string, error) {
	tc := cache.NewTypedCache[[]string](s.cache, s.cacheTTL())
	languages, err := tc.GetOrSet(ctx, cache.LanguagesKey(pageID), func() (*[]string, error) {
		langs, err := s.queries.ListPageLanguages(ctx, pageID)
		if err != nil {
			return nil, err
		}
		return &langs, nil
	})
	if err != nil {
		return nil, err
	}
	return *languages, nil
}

// ExposeContent returns the page's visible text in one language as
// plain text: the current body of every placeholder of the page's
// template, tags stripped, joined by newlines. No language fallback, so
// a language without content exposes nothing. Intended for search
// indexing.
func (s *Service) ExposeContent(ctx context.Context, page model.Page, language string) (string, error) {
	tmpl, err := s.GetTemplate(ctx, page)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, ctype := range s.catalog.Placeholders(tmpl) {
		body, err := s.GetContent(ctx, page, language, ctype, false)
		if err != nil {
			return "", err
		}
		if text := strings.TrimSpace(stripTags.Sanitize(body)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ExposeAllContent returns the page's visible text across every language
// it has content in: the current body of each placeholder of the page's
// template, per language without fallback, tags stripped, CRLF-joined.
// Intended for feeding a search indexer the whole page at once.
func (s *Service) ExposeAllContent(ctx context.Context, page model.Page) (string, error) {
	tmpl, err := s.GetTemplate(ctx, page)
	if err != nil {
		return "", err
	}
	languages, err := s.PageLanguages(ctx, page.ID)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, lang := range languages {
		for _, ctype := range s.catalog.Placeholders(tmpl) {
			content, err := s.GetContentObject(ctx, page, lang, ctype)
			if err != nil {
				if errors.Is(err, ErrContentNotFound) {
					continue
				}
				return "", err
			}
			if text := strings.TrimSpace(stripTags.Sanitize(content.Body)); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\r\n"), nil
}

// contentDict loads the per-language bodies of one content type for a
// page, honoring the freeze date, and caches the map. Frozen and live
// reads use distinct cache keys so unfreezing a page does not serve
// stale snapshots.
func (s *Service) contentDict(ctx context.Context, page model.Page, ctype string) (map[string]string, error) {
	tc := cache.NewTypedCache[map[string]string](s.cache, s.cacheTTL())
	key := cache.ContentDictKey(page.ID, ctype, page.IsFrozen())

	dict, err := tc.GetOrSet(ctx, key, func() (*map[string]string, error) {
		languages, err := s.queries.ListPageLanguages(ctx, page.ID)
		if err != nil {
			return nil, err
		}

		m := make(map[string]string, len(languages))
		for _, lang := range languages {
			lookup := store.ContentLookupParams{PageID: page.ID, Language: lang, Type: ctype}

			var content model.Content
			if page.IsFrozen() {
				content, err = s.queries.GetLatestContentBefore(ctx, lookup, page.FreezeDate.Time)
			} else {
				content, err = s.queries.GetLatestContent(ctx, lookup)
			}
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return nil, err
			}
			m[lang] = content.Body
		}
		return &m, nil
	})
	if err != nil {
		return nil, err
	}
	return *dict, nil
}

// invalidateContent drops content caches for a page and its parent
// chain after a content write.
func (s *Service) invalidateContent(ctx context.Context, pageID int64) {
	page, err := s.queries.GetPageByID(ctx, pageID)
	if err != nil {
		_ = s.cache.DeleteByPrefix(ctx, cache.ContentDictPrefix(pageID))
		_ = s.cache.Delete(ctx, cache.LanguagesKey(pageID))
		return
	}
	s.invalidatePage(ctx, page)
}
