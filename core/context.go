package core

import "github.com/rushteam/eventrec/pkg/utils"

// RecommendContext 承载用户/场景/实时信息，贯穿整个请求透传。
type RecommendContext struct {
	UserID string
	Scene  string

	// Labels 是用户级标签，可驱动过滤/重排行为。
	// 例如：新用户、重度用户、价格敏感等。
	Labels map[string]utils.Label

	// Params 请求级上下文参数，包含：
	// - 请求参数：category, limit, query 等
	// - 在线特征：feature 服务拉取的用户特征（建议加 feature_ 前缀区分）
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// Param 读取请求级参数；不存在时返回零值。
func (rctx *RecommendContext) Param(key string) any {
	if rctx.Params == nil {
		return nil
	}
	return rctx.Params[key]
}
