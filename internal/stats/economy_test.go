package stats

import (
	"testing"

	"aoe4coach/internal/aoe4world"
)

func TestCalculateGatherRates(t *testing.T) {
	res := aoe4world.Resources{Food: 6000, Wood: 4500, Gold: 3000, Stone: 600, Total: 14100}

	rates := CalculateGatherRates(res, 1200) // 20 minutes

	if rates.FoodPerMin != 300.0 {
		t.Errorf("Expected 300.0 food/min, got %f", rates.FoodPerMin)
	}
	if rates.WoodPerMin != 225.0 {
		t.Errorf("Expected 225.0 wood/min, got %f", rates.WoodPerMin)
	}
	if rates.TotalPerMin != 705.0 {
		t.Errorf("Expected 705.0 total/min, got %f", rates.TotalPerMin)
	}
}

func TestCalculateGatherRatesTotalFallback(t *testing.T) {
	// Feeds that omit the total still get a consistent aggregate rate.
	res := aoe4world.Resources{Food: 600, Wood: 300, Gold: 60, Stone: 0}

	rates := CalculateGatherRates(res, 600)
	if rates.TotalPerMin != 96.0 {
		t.Errorf("Expected 96.0 total/min from summed resources, got %f", rates.TotalPerMin)
	}
}

func TestCalculateGatherRatesZeroDuration(t *testing.T) {
	res := aoe4world.Resources{Food: 1000}
	for _, d := range []int{0, -60} {
		if got := CalculateGatherRates(res, d); got != (GatherRates{}) {
			t.Errorf("Expected zero rates for duration %d, got %+v", d, got)
		}
	}
}
