package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type point struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := []point{{"Beans", 120.5}, {"Tomato", 90}}
	if err := mc.Set(ctx, Key("series", "xlsx"), in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out []point
	if err := mc.Get(ctx, "series:xlsx", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	var s string
	_ = mc.Set(ctx, "plain", "hello", 0)
	if err := mc.Get(ctx, "plain", &s); err != nil || s != "hello" {
		t.Fatalf("string get = %q, %v", s, err)
	}
}

func TestMemoryCacheMissAndExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	var s string
	if err := mc.Get(ctx, "nope", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	_ = mc.Set(ctx, "short", "x", time.Second)
	now = now.Add(2 * time.Second)
	if err := mc.Get(ctx, "short", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if mc.Len() != 0 {
		t.Fatalf("expired value kept after read")
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryCleanup(0))
	defer mc.Close()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { now = now.Add(time.Second); return now }
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", 0)
	_ = mc.Set(ctx, "b", "2", 0)
	var s string
	_ = mc.Get(ctx, "a", &s)
	_ = mc.Set(ctx, "c", "3", 0)

	if err := mc.Get(ctx, "b", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("b should have been evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &s); err != nil || s != "1" {
		t.Fatalf("a = %q, %v", s, err)
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(1))
	defer mc.Close()
	ctx := context.Background()

	ok, _ := mc.TryLock(ctx, "train", time.Minute)
	if !ok {
		t.Fatalf("first lock should succeed")
	}
	// filling the value store must not evict the lock
	_ = mc.Set(ctx, "x", "1", 0)
	_ = mc.Set(ctx, "y", "2", 0)
	if ok, _ := mc.TryLock(ctx, "train", time.Minute); ok {
		t.Fatalf("second lock should fail while held")
	}
	_ = mc.Unlock(ctx, "train")
	if ok, _ := mc.TryLock(ctx, "train", time.Minute); !ok {
		t.Fatalf("lock should be free after unlock")
	}
}

func TestFetchLoadsOnceAndCaches(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]point, error) {
		calls++
		return []point{{"Carrot", 150}}, nil
	}
	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, mc, "series:file", time.Minute, load, nil)
		if err != nil || len(got) != 1 || got[0].Name != "Carrot" {
			t.Fatalf("fetch %d = %+v, %v", i, got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("load called %d times, want 1", calls)
	}
}

type brokenStore struct{}

func (brokenStore) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("down")
}
func (brokenStore) Get(context.Context, string, interface{}) error { return errors.New("down") }
func (brokenStore) Delete(context.Context, ...string) error        { return nil }

func TestFetchSurvivesBrokenCache(t *testing.T) {
	var reported int
	got, err := Fetch(context.Background(), brokenStore{}, "k", time.Minute,
		func(context.Context) (int, error) { return 7, nil },
		func(error) { reported++ })
	if err != nil || got != 7 {
		t.Fatalf("fetch = %d, %v", got, err)
	}
	if reported != 2 {
		t.Fatalf("reported %d cache errors, want 2", reported)
	}
}
