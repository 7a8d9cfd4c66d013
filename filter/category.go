package filter

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// CategoryFilter 按类目过滤：只保留请求指定类目的候选。
// 类目来自 rctx.Params["category"]；参数缺失时不过滤。
type CategoryFilter struct{}

func (f *CategoryFilter) Name() string {
	return "filter.category"
}

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || item == nil {
		return false, nil
	}
	want, ok := rctx.Param("category").(string)
	if !ok || want == "" {
		return false, nil
	}
	return item.Category() != want, nil
}
