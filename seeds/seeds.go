// Package seeds 生成演示/开发用的确定性样例数据。
// 生产部署应从业务系统加载真实数据，本包只服务本地联调和示例。
package seeds

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rushteam/eventrec/core"
)

// 默认数据规模，和演示前端的预期保持一致。
const (
	DefaultUsers        = 200
	DefaultEvents       = 100
	DefaultInteractions = 5000
)

var (
	categories = []string{"Music", "Sports", "Arts", "Food", "Tech"}
	cities     = []string{"New York", "Los Angeles", "Chicago"}
	types      = []core.InteractionType{
		core.InteractionView,
		core.InteractionClick,
		core.InteractionPurchase,
	}
)

// Generator 生成样例数据。Seed 固定时每次生成的数据完全一致。
type Generator struct {
	Users        int
	Events       int
	Interactions int
	Seed         int64
	Now          time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		Users:        DefaultUsers,
		Events:       DefaultEvents,
		Interactions: DefaultInteractions,
		Seed:         seed,
		Now:          time.Now(),
	}
}

// Generate 产出活动目录和交互日志。
// 交互时间分布在最近 30 天内。
func (g *Generator) Generate() ([]core.Event, []core.Interaction) {
	rng := rand.New(rand.NewSource(g.Seed))

	events := make([]core.Event, 0, g.Events)
	for i := 1; i <= g.Events; i++ {
		category := categories[rng.Intn(len(categories))]
		events = append(events, core.Event{
			ID:       fmt.Sprintf("event_%d", i),
			Title:    fmt.Sprintf("%s %s %d", category, eventNoun(rng), i),
			Category: category,
			Location: cities[rng.Intn(len(cities))],
			Price:    float64(20 + rng.Intn(180)),
		})
	}

	interactions := make([]core.Interaction, 0, g.Interactions)
	for i := 0; i < g.Interactions; i++ {
		daysAgo := 1 + rng.Intn(29)
		interactions = append(interactions, core.Interaction{
			UserID:    fmt.Sprintf("user_%d", 1+rng.Intn(g.Users)),
			EventID:   events[rng.Intn(len(events))].ID,
			Type:      types[rng.Intn(len(types))],
			Timestamp: g.Now.AddDate(0, 0, -daysAgo),
		})
	}

	return events, interactions
}

func eventNoun(rng *rand.Rand) string {
	nouns := []string{"Festival", "Night", "Showcase", "Live", "Expo", "Meetup", "Gala"}
	return nouns[rng.Intn(len(nouns))]
}
