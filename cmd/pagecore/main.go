// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/config"
	"github.com/olegiv/pagecore/internal/logging"
	"github.com/olegiv/pagecore/internal/model"
	"github.com/olegiv/pagecore/internal/service"
	"github.com/olegiv/pagecore/internal/store"
	"github.com/olegiv/pagecore/internal/template"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	showTree := flag.Bool("tree", false, "Print the page tree and exit")
	resolvePath := flag.String("resolve", "", "Resolve a URL path and print the result")
	showContent := flag.Int64("content", 0, "Print the rendered content of a page by ID")
	lang := flag.String("lang", "", "Language for -content (default: configured default language)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "pagecore - Hierarchical Page Engine\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_DB_PATH           SQLite database path (default: ./data/pagecore.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_LANGUAGES         Comma-separated language codes (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_DEFAULT_LANGUAGE  Default language code (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_REVISION_DEPTH    Content versions kept per placeholder (0 = all)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_HIDE_ROOT_SLUG    Serve the first root page at / (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGECORE_DO_SEED           Seed a demo page tree on first run (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/olegiv/pagecore\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("pagecore %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(*showTree, *resolvePath, *showContent, *lang); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(showTree bool, resolvePath string, contentID int64, lang string) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed demo tree if enabled
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, cfg.DefaultLanguage); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Initialize cache
	cacheConfig := cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	cacher, err := cache.New(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Initialize the page engine
	catalog := template.NewCatalog()
	catalog.Register(cfg.DefaultTemplate, "title", "body")
	engine := service.New(db, cacher, catalog, cfg)

	if lang == "" {
		lang = cfg.DefaultLanguage
	}

	switch {
	case showTree:
		return printTree(ctx, engine)
	case resolvePath != "":
		return printResolution(ctx, engine, resolvePath)
	case contentID != 0:
		return printContent(ctx, engine, contentID, lang)
	}

	// No action requested: report engine status
	queries := store.New(db)
	count, err := queries.CountPages(ctx)
	if err != nil {
		return fmt.Errorf("counting pages: %w", err)
	}
	slog.Info("page engine ready", "pages", count, "languages", cfg.Languages)
	fmt.Println("Nothing to do. Run with -tree, -resolve <path> or -content <id>; see -help.")
	return nil
}

// printTree writes an indented listing of every page tree to stdout.
func printTree(ctx context.Context, engine *service.Service) error {
	roots, err := engine.RootPages(ctx)
	if err != nil {
		return fmt.Errorf("listing root pages: %w", err)
	}
	if len(roots) == 0 {
		fmt.Println("No pages. Seed a demo tree with PAGECORE_DO_SEED=1.")
		return nil
	}

	for _, root := range roots {
		printPage(root)
		descendants, err := engine.Descendants(ctx, root)
		if err != nil {
			return fmt.Errorf("listing descendants of %q: %w", root.CompleteSlug, err)
		}
		for _, p := range descendants {
			printPage(p)
		}
	}
	return nil
}

func printPage(p model.Page) {
	indent := strings.Repeat("  ", int(p.Level))
	fmt.Printf("%s%s  [%d] /%s (%s)\n", indent, p.Slug, p.ID, p.CompleteSlug, model.StatusName(p.Status))
}

// printResolution resolves a URL path the way a frontend would and
// reports the outcome.
func printResolution(ctx context.Context, engine *service.Service, path string) error {
	res, err := engine.ResolvePath(ctx, path, "")
	if errors.Is(err, service.ErrPageNotFound) {
		fmt.Printf("%s: not found\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}

	fmt.Printf("path:      %s\n", path)
	fmt.Printf("page:      [%d] %s\n", res.Page.ID, res.Page.CompleteSlug)
	fmt.Printf("status:    %s\n", model.StatusName(res.Status))
	if res.RedirectTo != "" {
		fmt.Printf("redirect:  %s\n", res.RedirectTo)
	}
	if res.FromAlias {
		fmt.Printf("via:       alias\n")
	}
	if res.Delegated != "" {
		fmt.Printf("delegated: %s\n", res.Delegated)
	}
	tmpl, err := engine.GetTemplate(ctx, res.Page)
	if err != nil {
		return fmt.Errorf("resolving template: %w", err)
	}
	fmt.Printf("template:  %s\n", tmpl)
	return nil
}

// printContent renders a page's placeholders in the given language.
func printContent(ctx context.Context, engine *service.Service, id int64, lang string) error {
	page, err := engine.GetPage(ctx, id)
	if errors.Is(err, service.ErrPageNotFound) {
		fmt.Printf("page %d: not found\n", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading page %d: %w", id, err)
	}

	languages, err := engine.PageLanguages(ctx, page.ID)
	if err != nil {
		return fmt.Errorf("listing languages for page %d: %w", id, err)
	}
	fmt.Printf("page:      [%d] %s\n", page.ID, page.CompleteSlug)
	fmt.Printf("languages: %s\n", strings.Join(languages, ", "))
	if page.FreezeDate.Valid {
		fmt.Printf("frozen at: %s\n", page.FreezeDate.Time.Format(time.RFC3339))
	}

	body, err := engine.ExposeContent(ctx, page, lang)
	if err != nil {
		return fmt.Errorf("rendering content for page %d: %w", id, err)
	}
	fmt.Println(body)
	return nil
}
