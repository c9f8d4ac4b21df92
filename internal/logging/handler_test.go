package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	// Create temp file for test database
	f, err := os.CreateTemp("", "pagecore-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	// Open database
	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	// Run migrations
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	// Return cleanup function
	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	return db, cleanup
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, db *sql.DB) []model.Event {
	t.Helper()
	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Handle_ErrorLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	// Log an error
	logger.Error("database connection failed", "host", "localhost", "port", 5432)

	// Give it a moment to write
	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
	if events[0].Message != "database connection failed" {
		t.Errorf("Message = %q, want %q", events[0].Message, "database connection failed")
	}
}

func TestEventLogHandler_Handle_WarnLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	logger.Warn("slow query detected", "duration_ms", 5000)

	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if events[0].Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelWarning)
	}
}

func TestEventLogHandler_Handle_InfoLevel_NotCaptured(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	// Log info level - should NOT be captured
	logger.Info("engine started", "pages", 42)

	time.Sleep(50 * time.Millisecond)

	if events := recentEvents(t, db); len(events) != 0 {
		t.Errorf("expected 0 events for INFO level, got %d", len(events))
	}
}

func TestEventLogHandler_Handle_CustomLevel(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	// Create handler with INFO as minimum level
	handler := NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo)
	logger := slog.New(handler)

	logger.Info("engine started", "pages", 42)

	time.Sleep(50 * time.Millisecond)

	if events := recentEvents(t, db); len(events) != 1 {
		t.Errorf("expected 1 event with custom INFO level, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	testCases := []struct {
		message          string
		expectedCategory string
	}{
		{"slug collision resolved", model.EventCategoryPage},
		{"alias loop detected", model.EventCategoryPage},
		{"content version pruned", model.EventCategoryContent},
		{"cache invalidation failed", model.EventCategoryCache},
		{"redis unavailable", model.EventCategoryCache},
		{"config validation failed", model.EventCategoryConfig},
		{"unknown error occurred", model.EventCategorySystem},
	}

	for _, tc := range testCases {
		// Clear events first
		_, _ = db.Exec("DELETE FROM events")

		logger.Error(tc.message)
		time.Sleep(50 * time.Millisecond)

		events := recentEvents(t, db)
		if len(events) != 1 {
			t.Errorf("message %q: expected 1 event, got %d", tc.message, len(events))
			continue
		}

		if events[0].Category != tc.expectedCategory {
			t.Errorf("message %q: Category = %q, want %q", tc.message, events[0].Category, tc.expectedCategory)
		}
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	// An explicit category attribute should override inference
	logger.Error("something happened", "category", model.EventCategoryContent)
	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if events[0].Category != model.EventCategoryContent {
		t.Errorf("Category = %q, want %q (explicit category should override)", events[0].Category, model.EventCategoryContent)
	}
}

func TestEventLogHandler_MetadataExtraction(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	logger := slog.New(handler)

	logger.Error("request failed",
		"status_code", 500,
		"path", "/news/archive",
		"duration_ms", 1234,
	)
	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	metadata := events[0].Metadata
	if metadata == "{}" {
		t.Error("Metadata should not be empty")
	}
	for _, key := range []string{"status_code", "path", "duration_ms"} {
		if !strings.Contains(metadata, key) {
			t.Errorf("Metadata should contain %q: %s", key, metadata)
		}
	}
}

func TestEventLogHandler_WithAttrsAndGroup(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	handler := NewEventLogHandler(discardHandler{}, db)
	wrapped := handler.WithAttrs([]slog.Attr{slog.String("service", "pages")}).WithGroup("request")

	logger := slog.New(wrapped)
	logger.Error("service error", "id", "abc123")
	time.Sleep(50 * time.Millisecond)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Message != "service error" {
		t.Errorf("Message = %q, want %q", events[0].Message, "service error")
	}
}

func TestEscapeJSON(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{`hello`, `hello`},
		{`hello "world"`, `hello \"world\"`},
		{`path\to\file`, `path\\to\\file`},
		{"line1\nline2", `line1\nline2`},
		{"col1\tcol2", `col1\tcol2`},
		{"return\rhere", `return\rhere`},
	}

	for _, tc := range testCases {
		result := escapeJSON(tc.input)
		if result != tc.expected {
			t.Errorf("escapeJSON(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	h := &EventLogHandler{}

	testCases := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError}, // Higher than error
	}

	for _, tc := range testCases {
		result := h.slogLevelToEventLevel(tc.level)
		if result != tc.expected {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tc.level, result, tc.expected)
		}
	}
}
