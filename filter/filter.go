// Package filter 提供候选过滤器与组合过滤节点。
package filter

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// Filter 判断一个候选是否应该被过滤掉。
// 返回 true 表示移除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
