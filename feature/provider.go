// Package feature 从 Feature Store 拉取用户在线特征，注入请求上下文。
package feature

import (
	"context"

	"github.com/rushteam/eventrec/core"
)

// ParamPrefix 是在线特征写入 rctx.Params 时的 key 前缀，
// 与普通请求参数区分开。
const ParamPrefix = "feature_"

// Provider 是在线特征的领域接口，由基础设施实现（Feast gRPC）。
type Provider interface {
	// UserFeatures 拉取单个用户的在线特征
	UserFeatures(ctx context.Context, userID string) (map[string]any, error)

	// Close 关闭客户端连接
	Close() error
}

// Enrich 把用户在线特征注入 rctx.Params（带 feature_ 前缀）。
// 拉取失败时静默跳过：特征是增强信号，不应阻断推荐主链路。
func Enrich(ctx context.Context, p Provider, rctx *core.RecommendContext) {
	if p == nil || rctx == nil || rctx.UserID == "" {
		return
	}
	features, err := p.UserFeatures(ctx, rctx.UserID)
	if err != nil {
		return
	}
	if rctx.Params == nil {
		rctx.Params = make(map[string]any, len(features))
	}
	for k, v := range features {
		rctx.Params[ParamPrefix+k] = v
	}
}
