package rerank

import (
	"context"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pipeline"
)

// TopNNode 截取前 N 个候选，通常放在链路末端控制返回数量。
// N <= 0 时不截断。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
