// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "fmt"

// Key builders for page-related cache entries. All page caches go
// through these so invalidation can enumerate every key a page owns.

// ContentDictKey returns the key for a page's per-language content
// dictionary for one content type. The frozen flag separates snapshot
// reads from live reads.
func ContentDictKey(pageID int64, ctype string, frozen bool) string {
	f := 0
	if frozen {
		f = 1
	}
	return fmt.Sprintf("page_content_dict:%d:%s:%d", pageID, ctype, f)
}

// ContentDictPrefix returns the prefix covering every content dict
// entry of a page, for prefix invalidation.
func ContentDictPrefix(pageID int64) string {
	return fmt.Sprintf("page_content_dict:%d:", pageID)
}

// LanguagesKey returns the key for a page's list of languages that
// have content.
func LanguagesKey(pageID int64) string {
	return fmt.Sprintf("page_languages:%d", pageID)
}

// URLKey returns the key for a page's cached URL path.
func URLKey(pageID int64) string {
	return fmt.Sprintf("page_url:%d", pageID)
}

// ChildrenKey returns the key for a page's cached children list.
func ChildrenKey(pageID int64) string {
	return fmt.Sprintf("page_children:%d", pageID)
}

// FirstRootKey is the key for the cached first root page.
const FirstRootKey = "first_root_page"
