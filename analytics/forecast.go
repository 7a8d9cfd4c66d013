package analytics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/eventrec/core"
)

// DefaultForecastDays 是销量预测的默认预测天数。
const DefaultForecastDays = 7

// ForecastPoint 是单日销量预测，带置信区间上下界。
type ForecastPoint struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted_sales"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// SalesForecast 基于历史购买量对未来若干天的销量做线性外推。
//
// 算法流程：
//  1. 按天聚合该活动的购买次数（view/click 不计入销量）
//  2. 历史不足两天时退化为均值平推；没有任何购买记录时按日销量 1 平推
//  3. 否则用最小二乘线性回归外推，区间取 ±20%
//
// daysAhead <= 0 时取默认值。
func SalesForecast(eventID string, interactions []core.Interaction, now time.Time, daysAhead int) []ForecastPoint {
	if daysAhead <= 0 {
		daysAhead = DefaultForecastDays
	}

	daily := make(map[string]float64)
	for _, in := range interactions {
		if in.EventID != eventID || in.Type != core.InteractionPurchase {
			continue
		}
		daily[in.Timestamp.Format("2006-01-02")]++
	}
	if len(daily) == 0 {
		return flatForecast(now, daysAhead, 1)
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = float64(i)
		ys[i] = daily[d]
	}

	var alpha, beta float64
	if len(days) < 2 {
		alpha = ys[0]
		beta = 0
	} else {
		alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	}

	out := make([]ForecastPoint, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		x := float64(len(days) - 1 + i)
		predicted := math.Max(0, alpha+beta*x)
		out = append(out, ForecastPoint{
			Date:       now.AddDate(0, 0, i).Format("2006-01-02"),
			Predicted:  predicted,
			LowerBound: math.Max(0, predicted*0.8),
			UpperBound: predicted * 1.2,
		})
	}
	return out
}

// flatForecast 以固定日销量平推未来区间。
func flatForecast(now time.Time, daysAhead int, sales float64) []ForecastPoint {
	out := make([]ForecastPoint, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		out = append(out, ForecastPoint{
			Date:       now.AddDate(0, 0, i).Format("2006-01-02"),
			Predicted:  sales,
			LowerBound: math.Max(0, sales*0.8),
			UpperBound: sales * 1.2,
		})
	}
	return out
}

func sortItemsByScoreDesc(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}
