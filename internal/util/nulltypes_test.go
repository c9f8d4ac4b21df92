// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullInt64FromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *int64
		expected sql.NullInt64
	}{
		{
			name:     "nil pointer",
			input:    nil,
			expected: sql.NullInt64{},
		},
		{
			name:     "positive value",
			input:    ptr(int64(42)),
			expected: sql.NullInt64{Int64: 42, Valid: true},
		},
		{
			name:     "zero value",
			input:    ptr(int64(0)),
			expected: sql.NullInt64{Int64: 0, Valid: true},
		},
		{
			name:     "negative value",
			input:    ptr(int64(-5)),
			expected: sql.NullInt64{Int64: -5, Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullInt64FromPtr(tt.input)
			if result != tt.expected {
				t.Errorf("NullInt64FromPtr() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestNullInt64FromValue(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected sql.NullInt64
	}{
		{
			name:     "positive value",
			input:    42,
			expected: sql.NullInt64{Int64: 42, Valid: true},
		},
		{
			name:     "zero value",
			input:    0,
			expected: sql.NullInt64{Int64: 0, Valid: true},
		},
		{
			name:     "negative value",
			input:    -5,
			expected: sql.NullInt64{Int64: -5, Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullInt64FromValue(tt.input)
			if result != tt.expected {
				t.Errorf("NullInt64FromValue() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestNullStringFromValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected sql.NullString
	}{
		{
			name:     "empty string",
			input:    "",
			expected: sql.NullString{},
		},
		{
			name:     "non-empty string",
			input:    "hello",
			expected: sql.NullString{String: "hello", Valid: true},
		},
		{
			name:     "whitespace only",
			input:    "  ",
			expected: sql.NullString{String: "  ", Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NullStringFromValue(tt.input)
			if result != tt.expected {
				t.Errorf("NullStringFromValue(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNullTimeFromPtr(t *testing.T) {
	now := time.Now()
	got := NullTimeFromPtr(&now)
	if !got.Valid || !got.Time.Equal(now) {
		t.Errorf("NullTimeFromPtr(&now) = %+v, want valid %v", got, now)
	}
	if got := NullTimeFromPtr(nil); got.Valid {
		t.Errorf("NullTimeFromPtr(nil) = %+v, want invalid", got)
	}
}

func ptr(v int64) *int64 {
	return &v
}
