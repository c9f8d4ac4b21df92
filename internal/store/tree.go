// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// Nested-set maintenance primitives. Subtrees in flight are marked by
// negating their lft/rgt values, so range shifts can exclude them with
// a `lft > 0` / `rgt > 0` guard. All of these run inside the move or
// insert transaction; the service layer sequences them.

// MaxTreeID returns the highest tree id in the forest, 0 when empty.
func (q *Queries) MaxTreeID(ctx context.Context) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(tree_id), 0) FROM pages`).Scan(&max)
	return max, err
}

// ShiftRangeParams describes an interval shift within one tree: every
// boundary at or after From moves by By (negative By closes a gap).
type ShiftRangeParams struct {
	TreeID int64
	From   int64
	By     int64
}

// ShiftLft shifts left boundaries at or after From by the given amount.
func (q *Queries) ShiftLft(ctx context.Context, arg ShiftRangeParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET lft = lft + ? WHERE tree_id = ? AND lft >= ? AND lft > 0`,
		arg.By, arg.TreeID, arg.From)
	return err
}

// ShiftRgt shifts right boundaries at or after From by the given amount.
func (q *Queries) ShiftRgt(ctx context.Context, arg ShiftRangeParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET rgt = rgt + ? WHERE tree_id = ? AND rgt >= ? AND rgt > 0`,
		arg.By, arg.TreeID, arg.From)
	return err
}

// NegateSubtree marks the pages of a subtree as in-flight by negating
// their boundaries. Negated rows are skipped by the shift queries.
func (q *Queries) NegateSubtree(ctx context.Context, arg SubtreeParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages SET lft = -lft, rgt = -rgt
		WHERE tree_id = ? AND lft >= ? AND rgt <= ? AND lft > 0`,
		arg.TreeID, arg.Lft, arg.Rgt)
	return err
}

// RestoreSubtreeParams places the in-flight subtree at its destination.
// Offset is added to the original boundaries, LevelDelta to every depth,
// and the whole subtree adopts NewTreeID.
type RestoreSubtreeParams struct {
	Offset     int64
	LevelDelta int64
	NewTreeID  int64
}

// RestoreSubtree moves every negated row to its final position. Exactly
// one subtree may be in flight per transaction.
func (q *Queries) RestoreSubtree(ctx context.Context, arg RestoreSubtreeParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages SET
			lft = -lft + ?,
			rgt = -rgt + ?,
			level = level + ?,
			tree_id = ?
		WHERE lft < 0`,
		arg.Offset, arg.Offset, arg.LevelDelta, arg.NewTreeID)
	return err
}

// ShiftTreeIDs renumbers whole trees: every tree id at or after From
// moves by By. In-flight subtrees are excluded.
func (q *Queries) ShiftTreeIDs(ctx context.Context, from, by int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET tree_id = tree_id + ? WHERE tree_id >= ? AND lft > 0`,
		by, from)
	return err
}

// CountNegatedPages reports the number of in-flight rows. A non-zero
// count outside a move transaction flags an inconsistent tree.
func (q *Queries) CountNegatedPages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE lft < 0 OR rgt < 0`).Scan(&count)
	return count, err
}
