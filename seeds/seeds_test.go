package seeds

import (
	"testing"
	"time"
)

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(42)
	a.Now = now
	b := NewGenerator(42)
	b.Now = now

	eventsA, interA := a.Generate()
	eventsB, interB := b.Generate()

	if len(eventsA) != len(eventsB) || len(interA) != len(interB) {
		t.Fatalf("sizes differ: %d/%d events, %d/%d interactions",
			len(eventsA), len(eventsB), len(interA), len(interB))
	}
	for i := range eventsA {
		if eventsA[i] != eventsB[i] {
			t.Fatalf("event %d differs: %+v vs %+v", i, eventsA[i], eventsB[i])
		}
	}
	for i := range interA {
		if interA[i] != interB[i] {
			t.Fatalf("interaction %d differs", i)
		}
	}
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(1)
	a.Now = now
	b := NewGenerator(2)
	b.Now = now

	eventsA, _ := a.Generate()
	eventsB, _ := b.Generate()

	same := true
	for i := range eventsA {
		if eventsA[i] != eventsB[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical catalogs")
	}
}

func TestGenerateShape(t *testing.T) {
	g := NewGenerator(7)
	g.Users = 10
	g.Events = 20
	g.Interactions = 100
	g.Now = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	events, interactions := g.Generate()
	if len(events) != 20 || len(interactions) != 100 {
		t.Fatalf("got %d events %d interactions, want 20 and 100", len(events), len(interactions))
	}

	seenIDs := make(map[string]bool)
	for _, ev := range events {
		if seenIDs[ev.ID] {
			t.Errorf("duplicate event ID %s", ev.ID)
		}
		seenIDs[ev.ID] = true
		if ev.Price < 20 || ev.Price > 199 {
			t.Errorf("price %v outside [20, 199]", ev.Price)
		}
		if ev.Category == "" || ev.Location == "" || ev.Title == "" {
			t.Errorf("incomplete event: %+v", ev)
		}
	}

	for _, in := range interactions {
		if !seenIDs[in.EventID] {
			t.Errorf("interaction references unknown event %s", in.EventID)
		}
		age := g.Now.Sub(in.Timestamp)
		if age < 24*time.Hour || age > 30*24*time.Hour {
			t.Errorf("interaction age %v outside 1..29 days", age)
		}
	}
}
