package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testValue struct {
	Name  string
	Count int
}

func TestTypedCache_SetGet(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = backend.Close() }()
	tc := NewTypedCache[testValue](backend, time.Hour)
	ctx := context.Background()

	if err := tc.Set(ctx, "k", &testValue{Name: "home", Count: 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := tc.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Name != "home" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}

	if _, ok := tc.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = backend.Close() }()
	tc := NewTypedCache[testValue](backend, time.Hour)
	ctx := context.Background()

	calls := 0
	fn := func() (*testValue, error) {
		calls++
		return &testValue{Name: "computed"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := tc.GetOrSet(ctx, "k", fn)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got.Name != "computed" {
			t.Errorf("got %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("compute function called %d times, want 1", calls)
	}

	wantErr := errors.New("boom")
	_, err := tc.GetOrSet(ctx, "other", func() (*testValue, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected compute error to propagate, got %v", err)
	}
}

func TestTypedCache_Delete(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = backend.Close() }()
	tc := NewTypedCache[testValue](backend, time.Hour)
	ctx := context.Background()

	_ = tc.Set(ctx, "k", &testValue{Name: "x"})
	if err := tc.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}
}
