package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/eventrec/core"
)

// PriceSuggestion 是价格优化建议。
type PriceSuggestion struct {
	EventID        string  `json:"event_id"`
	CurrentPrice   float64 `json:"current_price"`
	SuggestedPrice float64 `json:"suggested_price"`
	Elasticity     float64 `json:"elasticity"`
}

// OptimizePrice 基于同类目活动的价格需求弹性给出建议价。
//
// 核心思想：对同类目活动做 log(需求)~log(价格) 回归估计弹性 e，
// e >= -1（需求不敏感）时小幅提价 10%，否则按 -e/(1+e) 加成定价。
//
// 同类目可比活动不足 3 个时不调价。
func OptimizePrice(event core.Event, events []core.Event, interactions []core.Interaction) PriceSuggestion {
	out := PriceSuggestion{
		EventID:        event.ID,
		CurrentPrice:   event.Price,
		SuggestedPrice: event.Price,
	}

	purchases := make(map[string]float64)
	for _, in := range interactions {
		if in.Type == core.InteractionPurchase {
			purchases[in.EventID]++
		}
	}

	var logPrice, logDemand []float64
	for _, ev := range events {
		if ev.Category != event.Category || ev.Price <= 0 {
			continue
		}
		logPrice = append(logPrice, math.Log(ev.Price))
		logDemand = append(logDemand, math.Log(purchases[ev.ID]+1))
	}
	if len(logPrice) < 3 || event.Price <= 0 {
		return out
	}

	_, elasticity := stat.LinearRegression(logPrice, logDemand, nil, false)
	out.Elasticity = round2(elasticity)

	if elasticity >= -1 {
		out.SuggestedPrice = round2(event.Price * 1.1)
		return out
	}
	markup := -elasticity / (1 + elasticity)
	out.SuggestedPrice = round2(event.Price * (1 + markup))
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
