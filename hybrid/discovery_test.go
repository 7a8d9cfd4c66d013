package hybrid

import (
	"testing"
	"time"

	"github.com/rushteam/eventrec/core"
)

func discoverEvents() []core.Event {
	return []core.Event{
		{ID: "m1", Category: "Music"},
		{ID: "m2", Category: "Music"},
		{ID: "s1", Category: "Sports"},
		{ID: "s2", Category: "Sports"},
		{ID: "a1", Category: "Arts"},
	}
}

func inter(user, event string, typ core.InteractionType) core.Interaction {
	return core.Interaction{
		UserID:    user,
		EventID:   event,
		Type:      typ,
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDiscoverTargetsUnexploredCategories(t *testing.T) {
	// u1 has 3 interactions in Music, none in Sports or Arts:
	// Music is well explored and must not surface in discovery.
	interactions := []core.Interaction{
		inter("u1", "m1", core.InteractionView),
		inter("u1", "m1", core.InteractionClick),
		inter("u1", "m2", core.InteractionPurchase),
		// global popularity signal
		inter("u2", "s1", core.InteractionView),
		inter("u2", "s1", core.InteractionView),
		inter("u3", "a1", core.InteractionView),
	}

	got := Discover("u1", interactions, discoverEvents(), 4)
	if len(got) == 0 {
		t.Fatal("no discovery results")
	}
	for _, it := range got {
		if it.Category() == "Music" {
			t.Errorf("well-explored category Music surfaced: %s", it.ID)
		}
	}
	// s1 has the most interactions among target categories
	if got[0].ID != "s1" {
		t.Errorf("top discovery = %s, want s1", got[0].ID)
	}
}

func TestDiscoverKeepsLightlyExploredCategories(t *testing.T) {
	// u1 touched Sports twice: still counts as under-explored.
	interactions := []core.Interaction{
		inter("u1", "s1", core.InteractionView),
		inter("u1", "s1", core.InteractionClick),
	}

	got := Discover("u1", interactions, discoverEvents(), 5)
	seen := make(map[string]bool)
	for _, it := range got {
		seen[it.Category()] = true
	}
	if !seen["Sports"] {
		t.Error("Sports missing, two interactions should still count as under-explored")
	}
}

func TestDiscoverUnexploredCategoryRanksFirst(t *testing.T) {
	// u1 bought m1: Music is lightly explored, Sports untouched. Even
	// though m1 is the most popular event overall, the untouched
	// category must lead the discovery list.
	interactions := []core.Interaction{
		inter("u1", "m1", core.InteractionPurchase),
	}
	events := []core.Event{
		{ID: "m1", Category: "Music"},
		{ID: "m2", Category: "Music"},
		{ID: "s1", Category: "Sports"},
	}

	got := Discover("u1", interactions, events, 2)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].Category() != "Sports" {
		t.Errorf("top discovery category = %s, want Sports ahead of the history category", got[0].Category())
	}
}

func TestDiscoverNoHistoryFallsBackToDiversePopular(t *testing.T) {
	interactions := []core.Interaction{
		inter("u2", "m1", core.InteractionPurchase),
		inter("u2", "m1", core.InteractionView),
		inter("u3", "s1", core.InteractionView),
	}

	got := Discover("newcomer", interactions, discoverEvents(), 3)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}

	// quota = max(1, 3/3) = 1 per category, every category gets a slot
	categories := make(map[string]bool)
	for _, it := range got {
		categories[it.Category()] = true
	}
	if len(categories) != 3 {
		t.Errorf("got categories %v, want one slot each for Music/Sports/Arts", categories)
	}
}

func TestDiscoverAllCategoriesExplored(t *testing.T) {
	// u1 has deep history everywhere; fall back to the popularity path
	var interactions []core.Interaction
	for _, ev := range []string{"m1", "m2", "s1", "s2", "a1"} {
		for i := 0; i < 3; i++ {
			interactions = append(interactions, inter("u1", ev, core.InteractionView))
		}
	}

	got := Discover("u1", interactions, discoverEvents(), 5)
	if len(got) != 5 {
		t.Fatalf("got %d items, want the full catalog of 5", len(got))
	}
}

func TestDiscoverRespectsLimit(t *testing.T) {
	got := Discover("anyone", nil, discoverEvents(), 2)
	if len(got) > 2 {
		t.Errorf("got %d items, limit is 2", len(got))
	}
}
