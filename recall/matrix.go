package recall

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/eventrec/core"
)

// userItemKey 是 (user, event) 聚合键。
type userItemKey struct {
	userID  string
	eventID string
}

// aggregateWeights 把原始交互记录聚合为 (user, event) -> 权重。
// 同一对的多次行为按固定权重表求和；没有交互的对不存储（隐式 0）。
func aggregateWeights(interactions []core.Interaction) map[userItemKey]float64 {
	weights := make(map[userItemKey]float64, len(interactions))
	for _, in := range interactions {
		weights[userItemKey{in.UserID, in.EventID}] += in.Weight()
	}
	return weights
}

// userItemMatrix 是加权隐式反馈矩阵及其索引映射。
// 映射按首次出现顺序分配稠密下标，在一次 Fit 的生命周期内保持双射一致。
type userItemMatrix struct {
	matrix *mat.Dense

	users     []string       // 下标 -> 用户 ID
	items     []string       // 下标 -> 活动 ID
	userIndex map[string]int // 用户 ID -> 下标
	itemIndex map[string]int // 活动 ID -> 下标
}

// buildUserItemMatrix 把交互记录物化为稠密 user×item 矩阵。
// 每个单元施加 log(1+w) 衰减，抑制极端热门造成的偏斜。
// 空输入返回 0×0 矩阵（matrix 为 nil），调用方视作“无法 Fit”。
func buildUserItemMatrix(interactions []core.Interaction) *userItemMatrix {
	m := &userItemMatrix{
		userIndex: make(map[string]int),
		itemIndex: make(map[string]int),
	}

	// 先按交互出现顺序固定映射，保证确定性
	for _, in := range interactions {
		if _, ok := m.userIndex[in.UserID]; !ok {
			m.userIndex[in.UserID] = len(m.users)
			m.users = append(m.users, in.UserID)
		}
		if _, ok := m.itemIndex[in.EventID]; !ok {
			m.itemIndex[in.EventID] = len(m.items)
			m.items = append(m.items, in.EventID)
		}
	}

	if len(m.users) == 0 || len(m.items) == 0 {
		return m
	}

	m.matrix = mat.NewDense(len(m.users), len(m.items), nil)
	for key, w := range aggregateWeights(interactions) {
		r := m.userIndex[key.userID]
		c := m.itemIndex[key.eventID]
		m.matrix.Set(r, c, math.Log1p(w))
	}
	return m
}
