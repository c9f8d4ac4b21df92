// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "database/sql"

// PageAlias maps a legacy or external URL to a page. Aliases are created
// and deleted independently of the page lifecycle; resolution is a
// read-only lookup at request time.
type PageAlias struct {
	ID     int64
	PageID sql.NullInt64
	URL    string // normalized, unique
}
