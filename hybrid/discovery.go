package hybrid

import (
	"sort"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
	"github.com/rushteam/eventrec/recall"
	"github.com/rushteam/eventrec/rerank"
)

// underExploredMax 是判定“浅尝类目”的交互次数上限。
const underExploredMax = 2

// Discover 生成发现模式推荐：刻意把用户推向没接触或浅尝过的类目。
//
// 算法流程：
//  1. 无历史用户：全量目录按热度排序 + 类目多样性整形
//  2. 有历史用户：把类目分成“未探索”（0 次交互）和“浅尝”（≤2 次交互）
//  3. 候选限制在目标类目内，未探索类目排在浅尝类目前面，
//     组内按全站交互次数热度排序，再做多样性整形
//  4. 所有类目都充分探索过时回退到第 1 步的全量路径
//
// limit <= 0 时默认 10。
func Discover(userID string, interactions []core.Interaction, events []core.Event, limit int) []*core.Item {
	if limit <= 0 {
		limit = 10
	}

	categoryOf := make(map[string]string, len(events))
	for _, ev := range events {
		categoryOf[ev.ID] = ev.Category
	}

	// 用户在各类目的交互次数
	userCategoryCount := make(map[string]int)
	hasHistory := false
	for _, in := range interactions {
		if in.UserID != userID {
			continue
		}
		hasHistory = true
		if c, ok := categoryOf[in.EventID]; ok {
			userCategoryCount[c]++
		}
	}

	counts := recall.InteractionCounts(interactions)

	if !hasHistory {
		return diversePopular(events, counts, nil, nil, limit)
	}

	target := make(map[string]bool)
	explored := make(map[string]bool)
	for _, ev := range events {
		n := userCategoryCount[ev.Category]
		if n <= underExploredMax {
			target[ev.Category] = true
		}
		if n > 0 {
			explored[ev.Category] = true
		}
	}
	if len(target) == 0 {
		return diversePopular(events, counts, nil, nil, limit)
	}
	return diversePopular(events, counts, target, explored, limit)
}

// diversePopular 把（可按类目圈定的）活动按全站交互次数排序并做多样性整形。
// categories 为 nil 时不限制类目；explored 标记的类目整体排在未探索类目后面。
func diversePopular(events []core.Event, counts map[string]float64, categories, explored map[string]bool, limit int) []*core.Item {
	items := make([]*core.Item, 0, len(events))
	for _, ev := range events {
		if categories != nil && !categories[ev.Category] {
			continue
		}
		it := core.NewItem(ev.ID)
		it.Score = counts[ev.ID]
		it.Meta["category"] = ev.Category
		it.Meta["price"] = ev.Price
		it.PutLabel("recall_source", utils.Label{Value: "discovery", Source: "hybrid"})
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		ei, ej := explored[items[i].Category()], explored[items[j].Category()]
		if ei != ej {
			return !ei
		}
		return items[i].Score > items[j].Score
	})
	return rerank.EnsureCategoryDiversity(items, limit)
}
