// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Reserved content types with special read semantics: slug reads from
// the Page record itself and is never stored as a Content record; title
// falls back to the page slug when no version exists.
const (
	ContentTypeTitle = "title"
	ContentTypeSlug  = "slug"
)

// Content is one immutable version of a content block, tied to a page
// for a particular language and content type. The current value of a
// block is the record with the latest creation date, optionally bounded
// by the page's freeze date.
type Content struct {
	ID           int64
	PageID       int64
	Language     string // BCP 47-ish tag, up to five characters (pt-br)
	Type         string
	Body         string
	CreationDate time.Time
}

// IsReservedContentType reports whether a content type has special
// read semantics tied to the Page record.
func IsReservedContentType(ctype string) bool {
	return ctype == ContentTypeTitle || ctype == ContentTypeSlug
}
