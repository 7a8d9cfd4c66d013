// Package rerank 提供重排节点：类目多样性配额与 Top-N 截断。
package rerank

import (
	"context"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pipeline"
)

// EnsureCategoryDiversity 在大小预算内保证每个类目都有露出。
//
// 算法流程：
//  1. 按类目在输入中的首次出现顺序分组（输入应已按分数降序）
//  2. 每个类目的配额 = max(1, limit / 类目数)
//  3. 按类目轮转各取配额内的物品
//  4. 没装满时按原始顺序用剩余物品补齐
//
// 没有类目信息的物品归入空类目参与分配。limit <= 0 时原样返回。
func EnsureCategoryDiversity(items []*core.Item, limit int) []*core.Item {
	if limit <= 0 || len(items) == 0 {
		return items
	}

	var catOrder []string
	byCategory := make(map[string][]*core.Item)
	for _, it := range items {
		c := it.Category()
		if _, ok := byCategory[c]; !ok {
			catOrder = append(catOrder, c)
		}
		byCategory[c] = append(byCategory[c], it)
	}

	quota := limit / len(catOrder)
	if quota < 1 {
		quota = 1
	}

	picked := make(map[string]bool, limit)
	out := make([]*core.Item, 0, limit)
	for round := 0; round < quota && len(out) < limit; round++ {
		for _, c := range catOrder {
			group := byCategory[c]
			if round >= len(group) || len(out) >= limit {
				continue
			}
			out = append(out, group[round])
			picked[group[round].ID] = true
		}
	}

	// 配额没用满预算时按原排序补齐
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		if picked[it.ID] {
			continue
		}
		out = append(out, it)
		picked[it.ID] = true
	}
	return out
}

// DiversityNode 把类目多样性重排接入 Pipeline。
// Limit 为 0 时从 rctx.Params["limit"] 取预算，再取不到时不重排。
type DiversityNode struct {
	Limit int
}

func (n *DiversityNode) Name() string {
	return "rerank.diversity"
}

func (n *DiversityNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DiversityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.Limit
	if limit <= 0 && rctx != nil {
		if i, ok := rctx.Param("limit").(int); ok {
			limit = i
		}
	}
	return EnsureCategoryDiversity(items, limit), nil
}
