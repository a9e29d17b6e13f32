package stats

import (
	"math"

	"aoe4coach/internal/aoe4world"
)

// GatherRates expresses resource collection as per-minute rates over the
// full game duration.
type GatherRates struct {
	FoodPerMin  float64 `json:"foodPerMin"`
	WoodPerMin  float64 `json:"woodPerMin"`
	GoldPerMin  float64 `json:"goldPerMin"`
	StonePerMin float64 `json:"stonePerMin"`
	TotalPerMin float64 `json:"totalPerMin"`
}

// CalculateGatherRates converts gathered totals into per-minute rates.
// Zero or negative duration yields zero rates, not a division fault.
func CalculateGatherRates(res aoe4world.Resources, durationSeconds int) GatherRates {
	if durationSeconds <= 0 {
		return GatherRates{}
	}

	perMin := func(total int) float64 {
		return math.Round(float64(total)/float64(durationSeconds)*60*10) / 10
	}

	total := res.Total
	if total == 0 {
		total = res.Food + res.Wood + res.Gold + res.Stone
	}

	return GatherRates{
		FoodPerMin:  perMin(res.Food),
		WoodPerMin:  perMin(res.Wood),
		GoldPerMin:  perMin(res.Gold),
		StonePerMin: perMin(res.Stone),
		TotalPerMin: perMin(total),
	}
}
