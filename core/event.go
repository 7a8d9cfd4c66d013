package core

import "time"

// Event 是票务平台的活动实体。由外部数据方拥有，引擎只读不写。
type Event struct {
	ID       string
	Title    string
	Category string
	Location string
	Price    float64
}

// InteractionType 是隐式反馈的行为类型。
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionClick    InteractionType = "click"
	InteractionPurchase InteractionType = "purchase"
)

// InteractionWeights 是隐式反馈的固定权重表：purchase > click > view。
// 同一 (user, event) 的多次行为按此表求和，作为偏好强度。
var InteractionWeights = map[InteractionType]float64{
	InteractionView:     1,
	InteractionClick:    3,
	InteractionPurchase: 10,
}

// Interaction 是一条用户-活动行为记录。顺序对引擎无意义，只看聚合权重。
type Interaction struct {
	UserID    string
	EventID   string
	Type      InteractionType
	Timestamp time.Time
}

// Weight 返回该行为的隐式反馈权重；未知类型计 0。
func (i Interaction) Weight() float64 {
	return InteractionWeights[i.Type]
}

// Recommendation 是对外输出的最终推荐项：活动 + 融合分数 + 来源模型。
// 切片顺序即排名（分数降序），是对外唯一有意义的排序语义。
type Recommendation struct {
	Event  Event   `json:"event"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}
