package recall

import (
	"context"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
)

// CollaborativeModel 的默认超参数。seed 固定保证结果可复现。
const (
	DefaultFactors    = 20
	DefaultIterations = 200
	DefaultSeed       = 42
)

// CollaborativeModel 是基于隐式反馈矩阵分解的协同过滤模型。
//
// 核心思想：把加权 user-item 交互矩阵做非负分解（NMF），
// 预测分数 = 用户隐向量 · 活动隐向量。
//
// 状态模型：Fit 产出一份不可变快照并原子替换；读路径只读快照、无锁。
// 并发宿主下重新 Fit 等价于换一份新快照，不存在写读竞争。
//
// 冷启动：快照中不存在的用户不报错，降级为全局加权热门（购买权重最高）。
type CollaborativeModel struct {
	// Factors 隐向量维度 k（默认 20，自动钳制到矩阵维度）
	Factors int

	// Iterations 乘法更新迭代轮数
	Iterations int

	// Seed 随机初始化种子，相同输入下保证确定性
	Seed int64

	snap atomic.Pointer[collabSnapshot]
}

// collabSnapshot 是一次 Fit 的全部产物，整体只读。
type collabSnapshot struct {
	index *userItemMatrix

	userFactors *mat.Dense // users × k
	itemFactors *mat.Dense // items × k

	// seen 记录每个用户交互过的活动集合，exclude_seen 用
	seen map[string]map[string]struct{}

	// popular 是按聚合权重排好序的全局热门，冷启动降级用
	popular []*core.Item
}

func NewCollaborativeModel() *CollaborativeModel {
	return &CollaborativeModel{
		Factors:    DefaultFactors,
		Iterations: DefaultIterations,
		Seed:       DefaultSeed,
	}
}

func (m *CollaborativeModel) Name() string { return "recall.collaborative" }

// Fitted 返回模型是否已有可用快照。
func (m *CollaborativeModel) Fitted() bool { return m.snap.Load() != nil }

// Fit 构建交互矩阵并做 NMF 分解，产出新快照。
// 空交互集合无法分解，返回 InputError；此时保留旧快照不变。
func (m *CollaborativeModel) Fit(interactions []core.Interaction) error {
	if len(interactions) == 0 {
		return ErrEmptyInteractions
	}

	index := buildUserItemMatrix(interactions)
	if index.matrix == nil {
		return ErrEmptyInteractions
	}

	factors := m.Factors
	if factors <= 0 {
		factors = DefaultFactors
	}
	iterations := m.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	w, h := nmf(index.matrix, factors, iterations, m.Seed)

	seen := make(map[string]map[string]struct{})
	for _, in := range interactions {
		if seen[in.UserID] == nil {
			seen[in.UserID] = make(map[string]struct{})
		}
		seen[in.UserID][in.EventID] = struct{}{}
	}

	m.snap.Store(&collabSnapshot{
		index:       index,
		userFactors: w,
		itemFactors: mat.DenseCopyOf(h.T()),
		seen:        seen,
		popular:     PopularityByWeight(interactions),
	})
	return nil
}

// Recommend 实现 Source 接口；等价于 RecommendUser(userID, topN, true)，
// 即默认排除用户已交互过的活动。
func (m *CollaborativeModel) Recommend(ctx context.Context, userID string, topN int) ([]*core.Item, error) {
	return m.RecommendUser(userID, topN, true)
}

// RecommendUser 为单个用户计算 TopN 推荐。
//   - 模型未 Fit：返回 ErrNotFitted（显式两段式契约，读操作不做隐式 Fit）
//   - 未知用户：冷启动，静默降级为全局热门，不是错误
//   - excludeSeen：已交互活动的分数置 -Inf，保证绝不出现在结果中
//
// 排名按预测分数降序，平手按活动在 Fit 时的首次出现下标。
func (m *CollaborativeModel) RecommendUser(userID string, topN int, excludeSeen bool) ([]*core.Item, error) {
	snap := m.snap.Load()
	if snap == nil {
		return nil, ErrNotFitted
	}

	userIdx, ok := snap.index.userIndex[userID]
	if !ok {
		return snap.popularTopN(topN), nil
	}

	userVec := snap.userFactors.RawRowView(userIdx)
	scores := make([]float64, len(snap.index.items))
	for itemIdx := range snap.index.items {
		scores[itemIdx] = dot(userVec, snap.itemFactors.RawRowView(itemIdx))
	}

	if excludeSeen {
		for eventID := range snap.seen[userID] {
			if itemIdx, ok := snap.index.itemIndex[eventID]; ok {
				scores[itemIdx] = math.Inf(-1)
			}
		}
	}

	out := make([]*core.Item, 0, len(scores))
	for itemIdx, score := range scores {
		if math.IsInf(score, -1) {
			continue
		}
		it := core.NewItem(snap.index.items[itemIdx])
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	sortByScoreDesc(out)
	return truncate(out, topN), nil
}

// popularTopN 复制一份热门降级结果，避免请求方修改共享快照。
func (s *collabSnapshot) popularTopN(topN int) []*core.Item {
	top := truncate(s.popular, topN)
	out := make([]*core.Item, 0, len(top))
	for _, p := range top {
		it := core.NewItem(p.ID)
		it.Score = p.Score
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
