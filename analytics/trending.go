package analytics

import (
	"math"
	"time"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
)

// DefaultTrendDecay 是趋势分的指数时间衰减系数（按天）。
const DefaultTrendDecay = 0.1

// Trending 基于交互速度计算活动趋势分。
//
// 趋势分 = Σ exp(-decay·daysAgo) · 行为类型权重，
// 近期的高价值行为（购买）贡献最大。
type Trending struct {
	// Decay 每天的指数衰减系数（默认 0.1）
	Decay float64
}

func NewTrending() *Trending {
	return &Trending{Decay: DefaultTrendDecay}
}

// Scores 对活动按趋势分降序排名。category 非空时只统计该类目的活动。
// 没有任何交互的活动不参与排名。
func (t *Trending) Scores(events []core.Event, interactions []core.Interaction, now time.Time, category string) []*core.Item {
	decay := t.Decay
	if decay <= 0 {
		decay = DefaultTrendDecay
	}

	eligible := make(map[string]core.Event, len(events))
	for _, ev := range events {
		if category != "" && ev.Category != category {
			continue
		}
		eligible[ev.ID] = ev
	}

	var order []string
	scores := make(map[string]float64)
	for _, in := range interactions {
		if _, ok := eligible[in.EventID]; !ok {
			continue
		}
		daysAgo := now.Sub(in.Timestamp).Hours() / 24
		if daysAgo < 0 {
			daysAgo = 0
		}
		if _, ok := scores[in.EventID]; !ok {
			order = append(order, in.EventID)
		}
		scores[in.EventID] += math.Exp(-decay*daysAgo) * in.Weight()
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		ev := eligible[id]
		it := core.NewItem(id)
		it.Score = scores[id]
		it.Meta["category"] = ev.Category
		it.Meta["price"] = ev.Price
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "analytics"})
		out = append(out, it)
	}
	sortItemsByScoreDesc(out)
	return out
}
