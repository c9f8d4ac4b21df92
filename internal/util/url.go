// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// NormalizeURL brings an alias URL into its canonical form: a single
// leading slash, no trailing slash (except for the root path itself).
// Query strings are left untouched so old-style "?page=x" aliases keep
// their meaning.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return "/"
	}

	// Split off the query string before touching slashes
	path, query, hasQuery := strings.Cut(url, "?")

	path = "/" + strings.Trim(path, "/")

	if hasQuery && query != "" {
		return path + "?" + query
	}
	return path
}

// NormalizePath strips leading and trailing slashes from a request path,
// yielding the complete-slug form used for page lookup. The root path
// normalizes to the empty string.
func NormalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
