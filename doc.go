// Package eventrec 是票务平台的混合活动推荐引擎。
//
// 设计要点：
//   - 双路召回：隐式反馈矩阵分解（协同过滤）+ 活动元数据文本相似（内容模型）
//   - 分数融合：各路 min-max 归一化后加权合并，去重保高分
//   - 发现模式：刻意把用户推向未探索/浅尝类目，并保证类目多样性
//   - 快照状态：Fit 产出不可变快照原子替换，读路径无锁
//
// 入口是 engine.Engine 门面；filter / rerank 节点可通过 pipeline 配置化组合。
package eventrec

import "github.com/rushteam/eventrec/pipeline"

// 轻量 facade：便于直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
