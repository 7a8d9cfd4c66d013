package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/eventrec/core"
)

func purchase(eventID string, daysAgo int) core.Interaction {
	return core.Interaction{
		UserID:    "u1",
		EventID:   eventID,
		Type:      core.InteractionPurchase,
		Timestamp: trendNow.AddDate(0, 0, -daysAgo),
	}
}

func TestSalesForecastNoPurchasesFlatAtOne(t *testing.T) {
	interactions := []core.Interaction{
		trendInteraction("e1", core.InteractionView, 1),
		trendInteraction("e1", core.InteractionClick, 2),
	}

	got := SalesForecast("e1", interactions, trendNow, 7)
	if len(got) != 7 {
		t.Fatalf("got %d points, want 7", len(got))
	}
	for i, p := range got {
		if p.Predicted != 1 {
			t.Errorf("day %d predicted = %v, want flat 1 without purchase history", i+1, p.Predicted)
		}
		if math.Abs(p.LowerBound-0.8) > 1e-9 || math.Abs(p.UpperBound-1.2) > 1e-9 {
			t.Errorf("day %d bounds = [%v, %v], want [0.8, 1.2]", i+1, p.LowerBound, p.UpperBound)
		}
	}
}

func TestSalesForecastSingleDayIsFlat(t *testing.T) {
	interactions := []core.Interaction{
		purchase("e1", 1),
		purchase("e1", 1),
		purchase("e1", 1),
	}

	got := SalesForecast("e1", interactions, trendNow, 5)
	if len(got) != 5 {
		t.Fatalf("got %d points, want 5", len(got))
	}
	for i, p := range got {
		if math.Abs(p.Predicted-3) > 1e-9 {
			t.Errorf("day %d predicted = %v, want flat 3", i, p.Predicted)
		}
		if math.Abs(p.LowerBound-2.4) > 1e-9 || math.Abs(p.UpperBound-3.6) > 1e-9 {
			t.Errorf("day %d bounds = [%v, %v], want [2.4, 3.6]", i, p.LowerBound, p.UpperBound)
		}
	}
}

func TestSalesForecastLinearTrend(t *testing.T) {
	// One purchase two days ago, two yesterday: slope 1 per day.
	interactions := []core.Interaction{
		purchase("e1", 2),
		purchase("e1", 1),
		purchase("e1", 1),
	}

	got := SalesForecast("e1", interactions, trendNow, 3)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	for i, p := range got {
		want := float64(3 + i)
		if math.Abs(p.Predicted-want) > 1e-9 {
			t.Errorf("day %d predicted = %v, want %v", i+1, p.Predicted, want)
		}
	}
}

func TestSalesForecastClampsNegativePredictions(t *testing.T) {
	// Declining sales: three purchases two days ago, one yesterday.
	interactions := []core.Interaction{
		purchase("e1", 2),
		purchase("e1", 2),
		purchase("e1", 2),
		purchase("e1", 1),
	}

	got := SalesForecast("e1", interactions, trendNow, 5)
	for i, p := range got {
		if p.Predicted < 0 || p.LowerBound < 0 {
			t.Errorf("day %d predicted = %v lower = %v, want clamped at 0", i+1, p.Predicted, p.LowerBound)
		}
	}
}

func TestSalesForecastDatesAdvanceFromNow(t *testing.T) {
	interactions := []core.Interaction{purchase("e1", 1)}

	got := SalesForecast("e1", interactions, trendNow, 2)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	for i, p := range got {
		want := trendNow.AddDate(0, 0, i+1).Format("2006-01-02")
		if p.Date != want {
			t.Errorf("point %d date = %s, want %s", i, p.Date, want)
		}
	}
	if _, err := time.Parse("2006-01-02", got[0].Date); err != nil {
		t.Errorf("date not in YYYY-MM-DD form: %v", err)
	}
}

func TestSalesForecastIgnoresOtherEvents(t *testing.T) {
	interactions := []core.Interaction{
		purchase("e1", 1),
		purchase("e2", 1),
		purchase("e2", 2),
	}

	got := SalesForecast("e1", interactions, trendNow, 2)
	for i, p := range got {
		if math.Abs(p.Predicted-1) > 1e-9 {
			t.Errorf("day %d predicted = %v, want 1 from e1's single purchase", i+1, p.Predicted)
		}
	}
}

func TestSalesForecastDefaultHorizon(t *testing.T) {
	interactions := []core.Interaction{purchase("e1", 1)}
	if got := SalesForecast("e1", interactions, trendNow, 0); len(got) != DefaultForecastDays {
		t.Errorf("got %d points, want default %d", len(got), DefaultForecastDays)
	}
}
