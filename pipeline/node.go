package pipeline

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// Kind 用于标记 Node 所处的加工阶段，方便按阶段打点与编排。
// 召回在 engine 内部完成，pipeline 只覆盖召回之后的阶段。
type Kind string

const (
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选
	KindReRank Kind = "rerank" // 重排阶段：在融合结果上做多样性/截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Filter 截断、ReRank 重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
