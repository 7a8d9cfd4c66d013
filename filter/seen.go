package filter

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// SeenFilter 过滤掉用户已经交互过的活动。
// Lookup 返回某用户交互过的活动 ID 集合；为 nil 时不过滤。
type SeenFilter struct {
	Lookup func(userID string) map[string]struct{}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Lookup == nil || rctx == nil || rctx.UserID == "" || item == nil {
		return false, nil
	}
	seen := f.Lookup(rctx.UserID)
	if seen == nil {
		return false, nil
	}
	_, ok := seen[item.ID]
	return ok, nil
}
