package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/store"
)

func trendingData() ([]core.Event, []core.Interaction) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []core.Event{
		{ID: "e1", Category: "Music", Price: 50},
		{ID: "e2", Category: "Sports", Price: 80},
	}
	interactions := []core.Interaction{
		{UserID: "u1", EventID: "e1", Type: core.InteractionPurchase, Timestamp: now.AddDate(0, 0, -1)},
		{UserID: "u2", EventID: "e2", Type: core.InteractionView, Timestamp: now.AddDate(0, 0, -20)},
	}
	return events, interactions
}

func TestTrendingSourceComputesAndWarmsStore(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	src := NewTrendingSource(st, "")
	src.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	events, interactions := trendingData()
	src.Refresh(events, interactions)

	got, err := src.Recommend(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	// recent purchase beats an old view by a wide margin
	if got[0].ID != "e1" {
		t.Errorf("top trending = %s, want e1", got[0].ID)
	}

	// second call reads the warmed sorted set
	members, err := st.ZRange(context.Background(), TrendingKeyPrefix, 0, 9)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(members) != 2 || members[0] != "e1" {
		t.Errorf("warmed leaderboard = %v, want e1 first", members)
	}

	again, err := src.Recommend(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("Recommend (warm): %v", err)
	}
	if len(again) != 1 || again[0].ID != "e1" {
		t.Errorf("warm read = %v, want [e1]", again)
	}
}

func TestTrendingSourceCategoryFilter(t *testing.T) {
	src := NewTrendingSource(nil, "Sports")
	events, interactions := trendingData()
	src.Refresh(events, interactions)

	got, err := src.Recommend(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e2" {
		t.Errorf("got %v, want only the sports event e2", got)
	}
}

func TestTrendingSourceWithoutStore(t *testing.T) {
	src := NewTrendingSource(nil, "")
	events, interactions := trendingData()
	src.Refresh(events, interactions)

	got, err := src.Recommend(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("got %v, want [e1]", got)
	}
}
