package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      time.Hour,
		MaxSize:         100,
		CleanupInterval: 0, // No background cleanup for tests
	})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	// Test Set and Get
	err := cache.Set(ctx, "key1", []byte("value1"), 0)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	// Test Has
	has, err := cache.Has(ctx, "key1")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Error("expected key1 to exist")
	}

	// Test Delete
	err = cache.Delete(ctx, "key1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = cache.Get(ctx, "key1")
	if err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_, err := cache.Get(ctx, "nonexistent")
	if err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	has, err := cache.Has(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if has {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      50 * time.Millisecond,
		CleanupInterval: 0,
	})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	err := cache.Set(ctx, "expiring", []byte("value"), 0)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Should exist immediately
	_, err = cache.Get(ctx, "expiring")
	if err != nil {
		t.Error("expected key to exist immediately")
	}

	// Wait for expiration
	time.Sleep(60 * time.Millisecond)

	// Should be expired
	_, err = cache.Get(ctx, "expiring")
	if err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	for _, key := range []string{
		ContentDictKey(7, "body", false),
		ContentDictKey(7, "body", true),
		ContentDictKey(7, "title", false),
		ContentDictKey(8, "body", false),
	} {
		if err := cache.Set(ctx, key, []byte("x"), 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.DeleteByPrefix(ctx, ContentDictPrefix(7)); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	for _, key := range []string{
		ContentDictKey(7, "body", false),
		ContentDictKey(7, "body", true),
		ContentDictKey(7, "title", false),
	} {
		if _, err := cache.Get(ctx, key); err != ErrCacheMiss {
			t.Errorf("expected %s to be deleted, got %v", key, err)
		}
	}

	// Other pages untouched
	if _, err := cache.Get(ctx, ContentDictKey(8, "body", false)); err != nil {
		t.Errorf("expected page 8 entry to survive, got %v", err)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats := cache.Stats()
	if stats.Items != 0 {
		t.Errorf("expected 0 items after clear, got %d", stats.Items)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Double close is safe
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Set(ctx, "key", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%3)
			for j := 0; j < 100; j++ {
				_ = cache.Set(ctx, key, []byte("value"), 0)
				_, _ = cache.Get(ctx, key)
				_ = cache.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "key", []byte("value"), 0)
	_, _ = cache.Get(ctx, "key")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %f, want 50", stats.HitRate)
	}

	cache.ResetStats()
	stats = cache.Stats()
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Error("stats should be zero after reset")
	}
}
