package service

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagecore/internal/cache"
	"github.com/olegiv/pagecore/internal/config"
	"github.com/olegiv/pagecore/internal/store"
	"github.com/olegiv/pagecore/internal/template"
)

// newTestService builds a Service on a temp database with a memory
// cache. Callers may mutate cfg before first use through the returned
// config pointer.
func newTestService(t *testing.T) (*Service, *config.Config) {
	t.Helper()

	f, err := os.CreateTemp("", "pagecore-service-test-*.db")
	require.NoError(t, err)
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	cacher := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = cacher.Close() })

	catalog := template.NewCatalog()

	cfg := config.Default()
	cfg.Languages = []string{"en", "fr"}
	cfg.DefaultLanguage = "en"

	return New(db, cacher, catalog, cfg), cfg
}
