// Package engine 是推荐引擎的门面：组装模型、融合器与缓存，
// 对外暴露 Fit / 推荐 / 分析操作。
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rushteam/eventrec/analytics"
	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/feature"
	"github.com/rushteam/eventrec/hybrid"
	"github.com/rushteam/eventrec/pipeline"
	"github.com/rushteam/eventrec/recall"
)

// DefaultCacheTTL 是推荐结果缓存的默认过期时间（秒）。
const DefaultCacheTTL = 300

// ErrNotFitted 表示引擎还没有完成 Fit。
var ErrNotFitted = core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFitted, "engine: not fitted, call Fit first")

// dataset 是一次 Fit 传入数据的只读快照。
type dataset struct {
	events       []core.Event
	interactions []core.Interaction
	eventByID    map[string]core.Event
}

// Engine 持有两个召回模型和融合器，是线程安全的：
// Fit 原子替换数据快照与模型快照，读路径全程无锁。
type Engine struct {
	collab   *recall.CollaborativeModel
	content  *recall.ContentModel
	blender  *hybrid.Blender
	trending *recall.TrendingSource

	store    core.Store
	cacheTTL int
	post     *pipeline.Pipeline
	features feature.Provider

	data   atomic.Pointer[dataset]
	fitSeq atomic.Uint64
}

// Option 配置 Engine 的可选依赖。
type Option func(*Engine)

// WithStore 启用推荐结果缓存与趋势榜单存储。
func WithStore(s core.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithCacheTTL 设置缓存过期时间（秒）。
func WithCacheTTL(seconds int) Option {
	return func(e *Engine) { e.cacheTTL = seconds }
}

// WithPostPipeline 在融合结果上追加后处理链（过滤/重排节点）。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.post = p }
}

// WithFeatureProvider 启用在线特征注入。
func WithFeatureProvider(p feature.Provider) Option {
	return func(e *Engine) { e.features = p }
}

// WithCollabWeight 调整协同过滤在融合分中的权重。
func WithCollabWeight(w float64) Option {
	return func(e *Engine) { e.blender.CollabWeight = w }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		collab:   recall.NewCollaborativeModel(),
		content:  recall.NewContentModel(),
		cacheTTL: DefaultCacheTTL,
	}
	e.blender = hybrid.NewBlender(
		e.collab,
		&contentSource{engine: e},
		hybrid.DefaultCollabWeight,
	)
	for _, opt := range opts {
		opt(e)
	}
	e.trending = recall.NewTrendingSource(e.store, "")
	return e
}

// contentSource 把 ContentModel 适配成 recall.Source：
// 内容侧画像需要交互历史，从引擎的数据快照取。
type contentSource struct {
	engine *Engine
}

func (s *contentSource) Name() string { return s.engine.content.Name() }

func (s *contentSource) Recommend(_ context.Context, userID string, topN int) ([]*core.Item, error) {
	data := s.engine.data.Load()
	if data == nil {
		return nil, recall.ErrNotFitted
	}
	return s.engine.content.RecommendUser(userID, data.interactions, topN)
}

// Fitted 返回引擎是否完成过一次成功的 Fit。
func (e *Engine) Fitted() bool { return e.data.Load() != nil }

// Fit 用全量数据训练两个模型并替换数据快照。
// 交互或活动为空时返回 InputError；此时两个模型和数据快照都保持原样。
func (e *Engine) Fit(interactions []core.Interaction, events []core.Event) error {
	if len(interactions) == 0 {
		return recall.ErrEmptyInteractions
	}
	if len(events) == 0 {
		return recall.ErrEmptyEvents
	}
	if err := e.collab.Fit(interactions); err != nil {
		return err
	}
	if err := e.content.Fit(events); err != nil {
		return err
	}

	byID := make(map[string]core.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	e.data.Store(&dataset{
		events:       events,
		interactions: interactions,
		eventByID:    byID,
	})
	e.trending.Refresh(events, interactions)
	// 缓存 key 带上拟合代次，重训后旧结果自然失效
	e.fitSeq.Add(1)
	return nil
}

// Events 返回当前数据快照里的活动目录；未 Fit 时为 nil。
func (e *Engine) Events() []core.Event {
	if data := e.data.Load(); data != nil {
		return data.events
	}
	return nil
}

// Interactions 返回当前数据快照里的交互日志；未 Fit 时为 nil。
func (e *Engine) Interactions() []core.Interaction {
	if data := e.data.Load(); data != nil {
		return data.interactions
	}
	return nil
}

// Seen 返回用户在当前快照里交互过的活动 ID 集合，
// 供 filter.seen 节点注入 Lookup。未 Fit 时为 nil。
func (e *Engine) Seen(userID string) map[string]struct{} {
	data := e.data.Load()
	if data == nil {
		return nil
	}
	out := make(map[string]struct{})
	for _, in := range data.interactions {
		if in.UserID == userID {
			out[in.EventID] = struct{}{}
		}
	}
	return out
}

// Event 按 ID 查活动。
func (e *Engine) Event(id string) (core.Event, bool) {
	data := e.data.Load()
	if data == nil {
		return core.Event{}, false
	}
	ev, ok := data.eventByID[id]
	return ev, ok
}

// RecommendHybrid 生成个性化融合推荐。
func (e *Engine) RecommendHybrid(ctx context.Context, userID string, limit int) ([]core.Recommendation, error) {
	data := e.data.Load()
	if data == nil {
		return nil, ErrNotFitted
	}
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("rec:hybrid:%d:%s:%d", e.fitSeq.Load(), userID, limit)
	if cached, ok := e.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	rctx := &core.RecommendContext{
		UserID: userID,
		Scene:  "personalized",
		Params: map[string]any{"limit": limit},
	}
	feature.Enrich(ctx, e.features, rctx)

	items, err := e.blender.Recommend(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	items, err = e.runPost(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	recs := e.join(data, items, "model")
	e.cacheSet(ctx, cacheKey, recs)
	return recs, nil
}

// Discover 生成发现模式推荐，把用户推向没接触过的类目。
func (e *Engine) Discover(ctx context.Context, userID string, limit int) ([]core.Recommendation, error) {
	data := e.data.Load()
	if data == nil {
		return nil, ErrNotFitted
	}
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("rec:discovery:%d:%s:%d", e.fitSeq.Load(), userID, limit)
	if cached, ok := e.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	items := hybrid.Discover(userID, data.interactions, data.events, limit)
	recs := e.join(data, items, "recall_source")
	e.cacheSet(ctx, cacheKey, recs)
	return recs, nil
}

// Trending 返回趋势榜单，category 非空时限定类目。
func (e *Engine) Trending(ctx context.Context, category string, limit int) ([]core.Recommendation, error) {
	data := e.data.Load()
	if data == nil {
		return nil, ErrNotFitted
	}

	src := e.trending
	if category != "" {
		src = recall.NewTrendingSource(e.store, category)
		src.Refresh(data.events, data.interactions)
	}
	items, err := src.Recommend(ctx, "", limit)
	if err != nil {
		return nil, err
	}
	return e.join(data, items, "recall_source"), nil
}

// SimilarEvents 返回与指定活动内容最相似的活动。
func (e *Engine) SimilarEvents(_ context.Context, eventID string, limit int) ([]core.Recommendation, error) {
	data := e.data.Load()
	if data == nil {
		return nil, ErrNotFitted
	}
	items, err := e.content.SimilarItems(eventID, limit)
	if err != nil {
		return nil, err
	}
	return e.join(data, items, "recall_source"), nil
}

// ForecastSales 预测指定活动未来若干天的销量。
func (e *Engine) ForecastSales(eventID string, daysAhead int) ([]analytics.ForecastPoint, error) {
	data := e.data.Load()
	if data == nil {
		return nil, ErrNotFitted
	}
	if _, ok := data.eventByID[eventID]; !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound, "engine: event not found: "+eventID)
	}
	return analytics.SalesForecast(eventID, data.interactions, time.Now(), daysAhead), nil
}

// SuggestPrice 基于价格需求弹性给出指定活动的建议价。
func (e *Engine) SuggestPrice(eventID string) (analytics.PriceSuggestion, error) {
	data := e.data.Load()
	if data == nil {
		return analytics.PriceSuggestion{}, ErrNotFitted
	}
	ev, ok := data.eventByID[eventID]
	if !ok {
		return analytics.PriceSuggestion{}, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound, "engine: event not found: "+eventID)
	}
	return analytics.OptimizePrice(ev, data.events, data.interactions), nil
}

func (e *Engine) runPost(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if e.post == nil {
		return items, nil
	}
	return e.post.Run(ctx, rctx, items)
}

// join 把候选列表回填成带活动详情的推荐结果。
// 目录里查不到的候选直接丢弃。
func (e *Engine) join(data *dataset, items []*core.Item, sourceLabel string) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		ev, ok := data.eventByID[it.ID]
		if !ok {
			continue
		}
		source := it.Label(sourceLabel)
		if source == "" {
			source = it.Label("recall_source")
		}
		out = append(out, core.Recommendation{
			Event:  ev,
			Score:  it.Score,
			Source: source,
		})
	}
	return out
}

func (e *Engine) cacheGet(ctx context.Context, key string) ([]core.Recommendation, bool) {
	if e.store == nil {
		return nil, false
	}
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var recs []core.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func (e *Engine) cacheSet(ctx context.Context, key string, recs []core.Recommendation) {
	if e.store == nil {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	_ = e.store.Set(ctx, key, raw, e.cacheTTL)
}
