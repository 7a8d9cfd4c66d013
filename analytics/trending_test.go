package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/eventrec/core"
)

var trendNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func trendEvents() []core.Event {
	return []core.Event{
		{ID: "e1", Title: "Jazz Night", Category: "Music", Price: 60},
		{ID: "e2", Title: "City Marathon", Category: "Sports", Price: 30},
		{ID: "e3", Title: "Art Expo", Category: "Arts", Price: 25},
	}
}

func trendInteraction(eventID string, typ core.InteractionType, daysAgo int) core.Interaction {
	return core.Interaction{
		UserID:    "u1",
		EventID:   eventID,
		Type:      typ,
		Timestamp: trendNow.AddDate(0, 0, -daysAgo),
	}
}

func TestTrendingRecentPurchaseBeatsOldView(t *testing.T) {
	interactions := []core.Interaction{
		trendInteraction("e2", core.InteractionView, 20),
		trendInteraction("e1", core.InteractionPurchase, 1),
	}

	got := NewTrending().Scores(trendEvents(), interactions, trendNow, "")
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e2" {
		t.Fatalf("order = [%s %s], want [e1 e2]", got[0].ID, got[1].ID)
	}

	want := math.Exp(-0.1*1) * 10
	if math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("e1 score = %v, want %v", got[0].Score, want)
	}
	if got[0].Label("recall_source") != "trending" {
		t.Errorf("recall_source = %q, want trending", got[0].Label("recall_source"))
	}
}

func TestTrendingDecayReordersEqualWeights(t *testing.T) {
	// Same interaction type, different recency: the fresher event ranks first.
	interactions := []core.Interaction{
		trendInteraction("e1", core.InteractionClick, 10),
		trendInteraction("e2", core.InteractionClick, 1),
	}

	got := NewTrending().Scores(trendEvents(), interactions, trendNow, "")
	if len(got) != 2 || got[0].ID != "e2" {
		t.Fatalf("fresher interaction should rank first, got %+v", got)
	}
}

func TestTrendingCategoryFilter(t *testing.T) {
	interactions := []core.Interaction{
		trendInteraction("e1", core.InteractionPurchase, 1),
		trendInteraction("e2", core.InteractionPurchase, 1),
	}

	got := NewTrending().Scores(trendEvents(), interactions, trendNow, "Sports")
	if len(got) != 1 || got[0].ID != "e2" {
		t.Fatalf("got %+v, want only e2", got)
	}
	if got[0].Meta["category"] != "Sports" {
		t.Errorf("category meta = %v, want Sports", got[0].Meta["category"])
	}
}

func TestTrendingSkipsEventsWithoutInteractions(t *testing.T) {
	interactions := []core.Interaction{
		trendInteraction("e1", core.InteractionView, 1),
	}

	got := NewTrending().Scores(trendEvents(), interactions, trendNow, "")
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("events without interactions should not rank, got %+v", got)
	}
}

func TestTrendingFutureTimestampClampedToZeroDays(t *testing.T) {
	interactions := []core.Interaction{
		trendInteraction("e1", core.InteractionView, -3),
	}

	got := NewTrending().Scores(trendEvents(), interactions, trendNow, "")
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if math.Abs(got[0].Score-1.0) > 1e-9 {
		t.Errorf("future interaction should decay as 0 days ago, score = %v", got[0].Score)
	}
}
