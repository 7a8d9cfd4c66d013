package recall

import (
	"context"
	"time"

	"github.com/rushteam/eventrec/analytics"
	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
)

// TrendingKeyPrefix 是趋势榜单在有序集合中的 key 前缀。
const TrendingKeyPrefix = "trending:events"

// TrendingSource 是趋势召回源，支持从 Store 读取预热的趋势榜单。
//   - 如果 Store 实现了 core.KeyValueStore，优先使用 ZRange（按趋势分降序）
//   - 榜单未预热时现场计算，并把结果写回有序集合
//   - 没有 Store 时每次现场计算
//
// 数据来自最近一次 Refresh 传入的活动与交互快照。
type TrendingSource struct {
	Store    core.Store
	Category string // 非空时只看该类目
	Trend    *analytics.Trending

	events       []core.Event
	interactions []core.Interaction
	now          func() time.Time
}

// NewTrendingSource 创建趋势召回源。store 可以为 nil。
func NewTrendingSource(store core.Store, category string) *TrendingSource {
	return &TrendingSource{
		Store:    store,
		Category: category,
		Trend:    analytics.NewTrending(),
		now:      time.Now,
	}
}

func (s *TrendingSource) Name() string { return "recall.trending" }

// Refresh 更新计算趋势分所需的数据快照。
func (s *TrendingSource) Refresh(events []core.Event, interactions []core.Interaction) {
	s.events = events
	s.interactions = interactions
}

// Recommend 实现 Source 接口。userID 未参与趋势计算，仅为满足接口。
func (s *TrendingSource) Recommend(ctx context.Context, _ string, topN int) ([]*core.Item, error) {
	if topN <= 0 {
		topN = 10
	}

	// 优先从有序集合读取预热榜单
	if kv, ok := s.Store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, s.key(), 0, int64(topN-1))
		if err == nil && len(members) > 0 {
			out := make([]*core.Item, 0, len(members))
			for _, m := range members {
				it := core.NewItem(m)
				if score, err := kv.ZScore(ctx, s.key(), m); err == nil {
					it.Score = score
				}
				it.PutLabel("recall_source", utils.Label{Value: "trending", Source: s.Name()})
				out = append(out, it)
			}
			return out, nil
		}
	}

	// 现场计算
	items := s.Trend.Scores(s.events, s.interactions, s.now(), s.Category)

	// 写回有序集合供下次直读
	if kv, ok := s.Store.(core.KeyValueStore); ok {
		for _, it := range items {
			_ = kv.ZAdd(ctx, s.key(), it.Score, it.ID)
		}
	}
	return truncate(items, topN), nil
}

func (s *TrendingSource) key() string {
	if s.Category == "" {
		return TrendingKeyPrefix
	}
	return TrendingKeyPrefix + ":" + s.Category
}
