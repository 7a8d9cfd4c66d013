package recall

import (
	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
)

// PopularityByWeight 按聚合隐式反馈权重（purchase 权重最高）对活动降序排名。
// 用作协同过滤的冷启动降级：未知用户拿不到隐向量，就给全局热门。
// 平手按活动在交互流中的首次出现顺序，保证确定性。
func PopularityByWeight(interactions []core.Interaction) []*core.Item {
	var order []string
	weights := make(map[string]float64)
	for _, in := range interactions {
		if _, ok := weights[in.EventID]; !ok {
			order = append(order, in.EventID)
		}
		weights[in.EventID] += in.Weight()
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.Score = weights[id]
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	sortByScoreDesc(out)
	return out
}

// InteractionCounts 统计每个活动的原始交互条数（所有用户，不加权）。
// 发现模式用它做热度排序。
func InteractionCounts(interactions []core.Interaction) map[string]float64 {
	counts := make(map[string]float64)
	for _, in := range interactions {
		counts[in.EventID]++
	}
	return counts
}
