package pipeline

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// Pipeline 把召回后的候选加工逻辑拆成可组合的 Node 链。
// engine 在融合召回结果之后执行它，任一节点出错即中断整条链路。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if len(cur) == 0 {
			break
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
