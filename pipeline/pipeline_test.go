package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/eventrec/core"
)

type recordingNode struct {
	name  string
	calls int
	fn    func(items []*core.Item) ([]*core.Item, error)
}

func (n *recordingNode) Name() string { return n.name }
func (n *recordingNode) Kind() Kind   { return KindFilter }

func (n *recordingNode) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	n.calls++
	if n.fn != nil {
		return n.fn(items)
	}
	return items, nil
}

func TestPipelineRunChainsNodes(t *testing.T) {
	drop := &recordingNode{name: "drop-first", fn: func(items []*core.Item) ([]*core.Item, error) {
		return items[1:], nil
	}}
	keep := &recordingNode{name: "keep"}
	p := &Pipeline{Nodes: []Node{drop, keep}}

	items := []*core.Item{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}
	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 2 || out[0].ID != "e2" {
		t.Fatalf("unexpected output: %v", out)
	}
	if drop.calls != 1 || keep.calls != 1 {
		t.Errorf("calls = %d, %d, want 1, 1", drop.calls, keep.calls)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	wantErr := errors.New("boom")
	bad := &recordingNode{name: "bad", fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, wantErr
	}}
	after := &recordingNode{name: "after"}
	p := &Pipeline{Nodes: []Node{bad, after}}

	_, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, []*core.Item{{ID: "e1"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if after.calls != 0 {
		t.Errorf("downstream node ran after error")
	}
}

func TestPipelineRunSkipsNodesOnEmptyInput(t *testing.T) {
	n := &recordingNode{name: "noop"}
	p := &Pipeline{Nodes: []Node{n}}

	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("unexpected output: %v", out)
	}
	if n.calls != 0 {
		t.Errorf("node ran on empty candidate list")
	}
}
