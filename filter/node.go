package filter

import (
	"context"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pipeline"
	"github.com/rushteam/eventrec/pkg/utils"
)

// FilterNode 把若干过滤器组合成一个 Pipeline 节点。
// 任何一个过滤器返回 true，该候选就被移除。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		removed := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器出错时放行，不让单个规则拖垮整条链路
				continue
			}
			if ok {
				removed = true
				item.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				break
			}
		}
		if !removed {
			out = append(out, item)
		}
	}
	return out, nil
}
