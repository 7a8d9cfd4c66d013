package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/eventrec/core"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := ms.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = (%q, %v), want v1", got, err)
	}

	if err := ms.Set(ctx, "k1", []byte("v2")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = ms.Get(ctx, "k1")
	if string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	if err := ms.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ms.Get(ctx, "k1"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "short", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := ms.Get(ctx, "short"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	// Expire the entry directly instead of sleeping past the TTL.
	past := time.Now().Add(-time.Second)
	ms.mu.Lock()
	ms.data["short"].ttl = &past
	ms.mu.Unlock()

	if _, err := ms.Get(ctx, "short"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get after expiry: err = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreCloseStopsCleanup(t *testing.T) {
	ms := NewMemoryStore()

	if err := ms.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-ms.done:
	default:
		t.Fatal("done channel still open after Close, cleanup goroutine leaks")
	}

	if err := ms.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ms.mu.RLock()
	e := ms.data["forever"]
	ms.mu.RUnlock()
	if e.ttl != nil {
		t.Error("ttl = 0 should store without an expiry")
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for member, score := range map[string]float64{
		"e1": 3.5,
		"e2": 9.1,
		"e3": 3.5,
		"e4": 1.0,
	} {
		if err := ms.ZAdd(ctx, "trending", score, member); err != nil {
			t.Fatalf("ZAdd %s: %v", member, err)
		}
	}

	got, err := ms.ZRange(ctx, "trending", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	// Descending by score; ties break by member for a stable ranking.
	want := []string{"e2", "e1", "e3", "e4"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i, got[i], want[i])
		}
	}

	top2, _ := ms.ZRange(ctx, "trending", 0, 1)
	if len(top2) != 2 || top2[0] != "e2" || top2[1] != "e1" {
		t.Errorf("top2 = %v, want [e2 e1]", top2)
	}

	score, err := ms.ZScore(ctx, "trending", "e2")
	if err != nil || score != 9.1 {
		t.Errorf("ZScore e2 = (%v, %v), want 9.1", score, err)
	}
	if _, err := ms.ZScore(ctx, "trending", "nope"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("ZScore missing member: err = %v, want ErrStoreNotFound", err)
	}
	if _, err := ms.ZScore(ctx, "nokey", "e1"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("ZScore missing key: err = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreZAddUpdatesScore(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	ms.ZAdd(ctx, "z", 1, "e1")
	ms.ZAdd(ctx, "z", 2, "e2")
	ms.ZAdd(ctx, "z", 5, "e1")

	got, _ := ms.ZRange(ctx, "z", 0, -1)
	if len(got) != 2 || got[0] != "e1" {
		t.Errorf("ZRange = %v, want e1 promoted to first", got)
	}
}

func TestMemoryStoreZRangeEmptyAndOutOfBounds(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if got, err := ms.ZRange(ctx, "empty", 0, -1); err != nil || got != nil {
		t.Errorf("ZRange empty = (%v, %v), want nil", got, err)
	}

	ms.ZAdd(ctx, "z", 1, "e1")
	if got, _ := ms.ZRange(ctx, "z", 5, 9); got != nil {
		t.Errorf("ZRange past end = %v, want nil", got)
	}
	if got, _ := ms.ZRange(ctx, "z", 0, 99); len(got) != 1 {
		t.Errorf("ZRange with large stop = %v, want clamped to 1 member", got)
	}
}
