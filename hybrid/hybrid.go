// Package hybrid 实现多路召回的加权融合与发现模式。
package hybrid

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
	"github.com/rushteam/eventrec/recall"
)

// DefaultCollabWeight 是协同过滤在融合分中的默认权重，内容相似占其余部分。
const DefaultCollabWeight = 0.7

// Blender 把协同过滤和内容相似两路候选融合成一个排名列表。
//
// 算法流程：
//  1. 并发向两路各请求 2×limit 个候选（超量召回，保证去重后仍够）
//  2. 每路分数各自做 min-max 归一化到 [0,1]
//  3. 融合分 = collabWeight·协同分 或 (1-collabWeight)·内容分
//  4. 同一物品出现在两路时保留融合分更高的一条
//  5. 按融合分降序稳定排序后截断到 limit
//
// 单路失败或为空时静默降级为另一路，两路都空才返回空列表。
type Blender struct {
	Collab       recall.Source
	Content      recall.Source
	CollabWeight float64
}

// NewBlender 创建融合器，weight <= 0 或 >= 1 时使用默认权重。
func NewBlender(collab, content recall.Source, weight float64) *Blender {
	if weight <= 0 || weight >= 1 {
		weight = DefaultCollabWeight
	}
	return &Blender{Collab: collab, Content: content, CollabWeight: weight}
}

// Recommend 生成融合推荐。limit <= 0 时默认 10。
func (b *Blender) Recommend(ctx context.Context, userID string, limit int) ([]*core.Item, error) {
	if limit <= 0 {
		limit = 10
	}
	fetch := limit * 2

	var collabItems, contentItems []*core.Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if b.Collab == nil {
			return nil
		}
		items, err := b.Collab.Recommend(gctx, userID, fetch)
		if err == nil {
			collabItems = items
		}
		return nil
	})
	g.Go(func() error {
		if b.Content == nil {
			return nil
		}
		items, err := b.Content.Recommend(gctx, userID, fetch)
		if err == nil {
			contentItems = items
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 单路降级：一路为空时原样返回另一路的 Top limit
	if len(collabItems) == 0 && len(contentItems) == 0 {
		return nil, nil
	}
	if len(collabItems) == 0 {
		return labelAndTruncate(contentItems, "content", limit), nil
	}
	if len(contentItems) == 0 {
		return labelAndTruncate(collabItems, "collaborative", limit), nil
	}

	collabNorm := normalizeScores(collabItems)
	contentNorm := normalizeScores(contentItems)

	merged := make(map[string]*core.Item)
	var order []string
	add := func(id string, fused float64, model string, src *core.Item) {
		if exist, ok := merged[id]; ok {
			// 两路撞车时保留融合分更高的一条；相等保留先到的
			if fused > exist.Score {
				exist.Score = fused
				exist.Meta = src.Meta
				exist.Labels["model"] = utils.Label{Value: model, Source: "hybrid"}
			}
			return
		}
		it := core.NewItem(id)
		it.Score = fused
		it.Meta = src.Meta
		it.Labels = src.Labels
		it.PutLabel("model", utils.Label{Value: model, Source: "hybrid"})
		merged[id] = it
		order = append(order, id)
	}
	for i, it := range collabItems {
		add(it.ID, b.CollabWeight*collabNorm[i], "collaborative", it)
	}
	for i, it := range contentItems {
		add(it.ID, (1-b.CollabWeight)*contentNorm[i], "content", it)
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func labelAndTruncate(items []*core.Item, model string, limit int) []*core.Item {
	if len(items) > limit {
		items = items[:limit]
	}
	for _, it := range items {
		it.PutLabel("model", utils.Label{Value: model, Source: "hybrid"})
	}
	return items
}

// normalizeScores 对一路候选做 min-max 归一化。
// 全部分数相同时（含单个候选）归一化为常数 1.0，避免除零。
func normalizeScores(items []*core.Item) []float64 {
	if len(items) == 0 {
		return nil
	}
	min, max := items[0].Score, items[0].Score
	for _, it := range items[1:] {
		if it.Score < min {
			min = it.Score
		}
		if it.Score > max {
			max = it.Score
		}
	}
	out := make([]float64, len(items))
	if max == min {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, it := range items {
		out[i] = (it.Score - min) / (max - min)
	}
	return out
}
