// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPageNotFound is returned when no page matches the lookup.
	ErrPageNotFound = errors.New("page not found")

	// ErrContentNotFound is returned when a content block has no version
	// matching the lookup.
	ErrContentNotFound = errors.New("content not found")

	// ErrAliasNotFound is returned when no alias matches the URL.
	ErrAliasNotFound = errors.New("alias not found")

	// ErrDuplicateSlug is returned by the strict slug check when another
	// page already occupies the resulting path.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrInvalidMoveTarget is returned when a move would place a page
	// under itself or one of its descendants.
	ErrInvalidMoveTarget = errors.New("invalid move target")
)

// ValidationError reports invalid input on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
