package filter

import (
	"context"

	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/pkg/dsl"
)

// RuleFilter 是表达式驱动的过滤器，用 CEL 表达式描述过滤规则。
//
// 表达式返回 true 表示过滤掉该候选，例如：
//
//	item.meta["price"] > 200.0
//	label("recall_source") == "content_sample" && item.score < 0.1
type RuleFilter struct {
	Expr    string
	program *dsl.Program
}

// NewRuleFilter 编译表达式并创建过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{Expr: expr, program: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.program == nil || item == nil {
		return false, nil
	}
	return f.program.Evaluate(item, rctx)
}
