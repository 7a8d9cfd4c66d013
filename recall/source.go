package recall

import (
	"context"
	"sort"

	"github.com/rushteam/eventrec/core"
)

// Source 表示一个可复用的候选生成策略（协同过滤/内容相似/趋势/...）。
// 混排层只依赖这个能力接口，各策略可独立替换和单测。
type Source interface {
	Name() string
	Recommend(ctx context.Context, userID string, topN int) ([]*core.Item, error)
}

// ErrNotFitted 表示模型尚未 Fit 就被读取。
// Fit 必须显式先行；读操作不做隐式 Fit，保证状态迁移可见、可测。
var ErrNotFitted = core.NewDomainError(core.ModuleRecall, core.ErrorCodeNotFitted, "recall: model is not fitted")

// ErrEmptyInteractions 表示 Fit 收到了空的交互集合。
var ErrEmptyInteractions = core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput, "recall: empty interaction set")

// ErrEmptyEvents 表示 Fit 收到了空的活动集合。
var ErrEmptyEvents = core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput, "recall: empty event set")

// sortByScoreDesc 按分数降序稳定排序；相同分数保持输入顺序，
// 也就是“首次遇到/索引序”这一确定性平手规则。
func sortByScoreDesc(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// truncate 截取前 topN 个；topN <= 0 时不截断。
func truncate(items []*core.Item, topN int) []*core.Item {
	if topN > 0 && len(items) > topN {
		return items[:topN]
	}
	return items
}
