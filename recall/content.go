package recall

import (
	"math/rand"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/utils"
)

// ContentModel 是基于活动元数据文本相似度的内容模型。
//
// 核心思想：把 title + category + location 拼成一篇文档，
// 在 TF-IDF 向量空间里用余弦相似度找"长得像"的活动。
//
// 状态模型与 CollaborativeModel 一致：Fit 产出不可变快照并原子替换，
// 读路径只读快照、无锁。
//
// 冷启动：无历史用户降级为确定性随机抽样（固定 seed），不是错误。
type ContentModel struct {
	// MinDocFreq / MaxFeatures 透传给向量化器
	MinDocFreq  int
	MaxFeatures int

	// SampleSeed 冷启动抽样的随机种子，固定以保证可复现
	SampleSeed int64

	snap atomic.Pointer[contentSnapshot]
}

// contentSnapshot 是一次 Fit 的产物：与 eventIDs 平行对齐的向量数组。
type contentSnapshot struct {
	eventIDs []string
	index    map[string]int
	vectors  []sparseVec
}

func NewContentModel() *ContentModel {
	return &ContentModel{
		MinDocFreq:  DefaultMinDocFreq,
		MaxFeatures: DefaultMaxFeatures,
		SampleSeed:  DefaultSeed,
	}
}

func (m *ContentModel) Name() string { return "recall.content" }

// Fitted 返回模型是否已有可用快照。
func (m *ContentModel) Fitted() bool { return m.snap.Load() != nil }

// Fit 为每个活动派生一篇文档并构建 TF-IDF 向量空间。
// 空活动集合返回 InputError；此时保留旧快照不变。
func (m *ContentModel) Fit(events []core.Event) error {
	if len(events) == 0 {
		return ErrEmptyEvents
	}

	vectorizer := newTFIDFVectorizer()
	if m.MinDocFreq > 0 {
		vectorizer.MinDocFreq = m.MinDocFreq
	}
	if m.MaxFeatures > 0 {
		vectorizer.MaxFeatures = m.MaxFeatures
	}

	docs := make([]string, len(events))
	eventIDs := make([]string, len(events))
	index := make(map[string]int, len(events))
	for i, ev := range events {
		docs[i] = strings.Join([]string{ev.Title, ev.Category, ev.Location}, " ")
		eventIDs[i] = ev.ID
		index[ev.ID] = i
	}

	m.snap.Store(&contentSnapshot{
		eventIDs: eventIDs,
		index:    index,
		vectors:  vectorizer.fit(docs),
	})
	return nil
}

// SimilarItems 返回与指定活动最相似的 TopN 个活动（余弦相似度降序，
// 排除自身，平手按向量下标序）。
// 活动不在快照里不是错误，返回空结果。
func (m *ContentModel) SimilarItems(itemID string, topN int) ([]*core.Item, error) {
	snap := m.snap.Load()
	if snap == nil {
		return nil, ErrNotFitted
	}

	self, ok := snap.index[itemID]
	if !ok {
		return nil, nil
	}

	out := make([]*core.Item, 0, len(snap.eventIDs)-1)
	for i, vec := range snap.vectors {
		if i == self {
			continue
		}
		it := core.NewItem(snap.eventIDs[i])
		it.Score = sparseDot(snap.vectors[self], vec)
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	sortByScoreDesc(out)
	return truncate(out, topN), nil
}

// ProfileEntry 是用户画像中的一项：交互过的活动及聚合权重。
type ProfileEntry struct {
	EventID string
	Weight  float64
}

// Profile 从交互历史聚合用户偏好画像，按权重降序。
// 只保留快照内存在的活动；用户无任何交互时返回空。
func (m *ContentModel) Profile(userID string, interactions []core.Interaction) []ProfileEntry {
	snap := m.snap.Load()
	if snap == nil {
		return nil
	}

	var order []string
	weights := make(map[string]float64)
	for _, in := range interactions {
		if in.UserID != userID {
			continue
		}
		if _, ok := snap.index[in.EventID]; !ok {
			continue
		}
		if _, ok := weights[in.EventID]; !ok {
			order = append(order, in.EventID)
		}
		weights[in.EventID] += in.Weight()
	}

	entries := make([]ProfileEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, ProfileEntry{EventID: id, Weight: weights[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	return entries
}

// RecommendUser 为单个用户计算内容侧 TopN 推荐。
//
// 有画像：对画像中每个活动（权重高的先投）取相似活动并计票，
// 每个来源活动对一个候选至多投一票；最终按票数降序，
// 平手按首次得票顺序。
//
// 无画像：冷启动，降级为固定 seed 的均匀抽样，规模
// min(topN, 活动总数)，不是错误。
func (m *ContentModel) RecommendUser(userID string, interactions []core.Interaction, topN int) ([]*core.Item, error) {
	snap := m.snap.Load()
	if snap == nil {
		return nil, ErrNotFitted
	}

	profile := m.Profile(userID, interactions)
	if len(profile) == 0 {
		return snap.sample(topN, m.SampleSeed), nil
	}

	var order []string
	votes := make(map[string]float64)
	for _, entry := range profile {
		similars, err := m.SimilarItems(entry.EventID, topN)
		if err != nil {
			return nil, err
		}
		for _, sim := range similars {
			if _, ok := votes[sim.ID]; !ok {
				order = append(order, sim.ID)
			}
			votes[sim.ID]++
		}
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.Score = votes[id]
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	sortByScoreDesc(out)
	return truncate(out, topN), nil
}

// sample 均匀抽样 min(topN, n) 个活动，seed 固定保证两次调用结果一致。
func (s *contentSnapshot) sample(topN int, seed int64) []*core.Item {
	n := len(s.eventIDs)
	if topN > n {
		topN = n
	}
	if topN <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	out := make([]*core.Item, 0, topN)
	for _, idx := range perm[:topN] {
		it := core.NewItem(s.eventIDs[idx])
		it.PutLabel("recall_source", utils.Label{Value: "content_sample", Source: "recall"})
		out = append(out, it)
	}
	return out
}
