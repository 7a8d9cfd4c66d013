// Package config 组装 NodeFactory：把 YAML 配置里的节点类型映射到具体实现。
// 独立成包是为了避免 pipeline 与各节点包之间的循环依赖。
package config

import (
	"fmt"

	"github.com/rushteam/eventrec/filter"
	"github.com/rushteam/eventrec/pipeline"
	"github.com/rushteam/eventrec/rerank"
)

// Option 配置 NodeFactory 的外部依赖。
type Option func(*factoryDeps)

type factoryDeps struct {
	seenLookup func(userID string) map[string]struct{}
}

// WithSeenLookup 注入 filter.seen 节点用的已看集合查询，
// 通常传 engine.Seen。
func WithSeenLookup(fn func(userID string) map[string]struct{}) Option {
	return func(d *factoryDeps) { d.seenLookup = fn }
}

// NewNodeFactory 创建注册了内置节点的工厂。
//
// 支持的节点类型：
//   - "filter.category"：按请求参数 category 过滤
//   - "filter.seen"：过滤用户交互过的活动（Lookup 通过 WithSeenLookup 注入，
//     未注入时节点不过滤任何候选）
//   - "filter.rule"：CEL 表达式过滤，config: {expr: "..."}
//   - "rerank.diversity"：类目多样性重排，config: {limit: N}
//   - "rerank.topn"：Top-N 截断，config: {n: N}
func NewNodeFactory(opts ...Option) *pipeline.NodeFactory {
	var deps factoryDeps
	for _, opt := range opts {
		opt(&deps)
	}

	f := pipeline.NewNodeFactory()

	f.Register("filter.category", func(_ map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{&filter.CategoryFilter{}}}, nil
	})

	f.Register("filter.seen", func(_ map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{
			&filter.SeenFilter{Lookup: deps.seenLookup},
		}}, nil
	})

	f.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		expr := toString(cfg["expr"])
		if expr == "" {
			return nil, fmt.Errorf("filter.rule: expr is required")
		}
		rf, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("filter.rule: %w", err)
		}
		return &filter.FilterNode{Filters: []filter.Filter{rf}}, nil
	})

	f.Register("rerank.diversity", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.DiversityNode{Limit: toInt(cfg["limit"])}, nil
	})

	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: toInt(cfg["n"])}, nil
	})

	return f
}

// toInt 宽松地把 YAML 解析出的数值转成 int。
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
