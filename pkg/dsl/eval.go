package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/eventrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是一条编译后的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，多个请求/多个候选复用执行。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.meta.price < 100.0 / item.score > 0.7
//   - 标签：label.model == "content"
//   - 上下文：rctx.params.price_sensitivity > 0.5
//   - 逻辑：label.model == "collaborative" && item.score > 0.8
//
// 示例：
//   - `item.meta.price < 150.0` → 过高价位的活动
//   - `item.meta.category == "Music"` → 限定类目
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string { return p.expr }

// Evaluate 对单个候选执行表达式，返回布尔结果。
func (p *Program) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 表达式应使用 label.key != null 检查存在性，而不是直接访问
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		// label.model 直接返回 value，便于短写法
		labelAccessor[k] = v.Value
	}

	itemInput := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"meta":   item.Meta,
		"labels": labels,
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		rctxInput = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	}

	return map[string]any{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
