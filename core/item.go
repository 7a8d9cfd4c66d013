package core

import "github.com/rushteam/eventrec/pkg/utils"

// Item 是推荐链路中的统一候选结构：分数、元信息、标签。
// ID 对应活动（Event）ID；Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Label 读取单个 Label 的值；不存在时返回空串。
func (it *Item) Label(key string) string {
	if it.Labels == nil {
		return ""
	}
	return it.Labels[key].Value
}

// Category 读取候选的类目（Meta["category"]），不存在时返回空串。
func (it *Item) Category() string {
	if it.Meta == nil {
		return ""
	}
	if s, ok := it.Meta["category"].(string); ok {
		return s
	}
	return ""
}
