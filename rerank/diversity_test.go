package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/eventrec/core"
)

func item(id, category string, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	it.Meta["category"] = category
	return it
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestEnsureCategoryDiversity(t *testing.T) {
	tests := []struct {
		name  string
		items []*core.Item
		limit int
		want  []string
	}{
		{
			name: "round robin with quota one",
			items: []*core.Item{
				item("m1", "Music", 9),
				item("m2", "Music", 8),
				item("s1", "Sports", 7),
				item("a1", "Arts", 6),
			},
			limit: 3,
			// quota = max(1, 3/3) = 1, one slot per category in first-seen order
			want: []string{"m1", "s1", "a1"},
		},
		{
			name: "quota two takes top two per category",
			items: []*core.Item{
				item("m1", "Music", 9),
				item("m2", "Music", 8),
				item("m3", "Music", 7),
				item("s1", "Sports", 6),
				item("s2", "Sports", 5),
			},
			limit: 4,
			// quota = max(1, 4/2) = 2
			want: []string{"m1", "s1", "m2", "s2"},
		},
		{
			name: "fills remaining slots by rank",
			items: []*core.Item{
				item("m1", "Music", 9),
				item("m2", "Music", 8),
				item("m3", "Music", 7),
				item("s1", "Sports", 6),
			},
			limit: 3,
			// quota = max(1, 3/2) = 1 -> m1, s1; fill with next best m2
			want: []string{"m1", "s1", "m2"},
		},
		{
			name: "single category keeps ranking",
			items: []*core.Item{
				item("m1", "Music", 9),
				item("m2", "Music", 8),
			},
			limit: 2,
			want:  []string{"m1", "m2"},
		},
		{
			name:  "empty input",
			items: nil,
			limit: 5,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(EnsureCategoryDiversity(tt.items, tt.limit))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnsureCategoryDiversityEveryCategoryRepresented(t *testing.T) {
	items := []*core.Item{
		item("m1", "Music", 9),
		item("m2", "Music", 8),
		item("m3", "Music", 7),
		item("s1", "Sports", 3),
		item("a1", "Arts", 1),
	}

	got := EnsureCategoryDiversity(items, 3)
	categories := make(map[string]bool)
	for _, it := range got {
		categories[it.Category()] = true
	}
	if len(categories) != 3 {
		t.Errorf("categories = %v, want all three represented when limit >= category count", categories)
	}
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{item("e1", "Music", 3), item("e2", "Music", 2), item("e3", "Music", 1)}

	node := &TopNNode{N: 2}
	got, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}

	unbounded := &TopNNode{N: 0}
	got, _ = unbounded.Process(context.Background(), nil, items)
	if len(got) != 3 {
		t.Errorf("N=0 truncated to %d items, want all 3", len(got))
	}
}

func TestDiversityNodeReadsLimitFromContext(t *testing.T) {
	items := []*core.Item{
		item("m1", "Music", 9),
		item("s1", "Sports", 8),
		item("a1", "Arts", 7),
	}
	rctx := &core.RecommendContext{Params: map[string]any{"limit": 2}}

	node := &DiversityNode{}
	got, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d items, want 2 from rctx limit", len(got))
	}
}
