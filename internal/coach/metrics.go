package coach

import (
	"aoe4coach/internal/config"
)

// deriveMetrics flattens a game analysis into the scalar metric values
// the comparison layer consumes. Milestones that were never reached are
// left out of the map so aggregation sees a smaller sample instead of a
// fake zero.
func (c *Coach) deriveMetrics(a *GameAnalysis) map[string]float64 {
	m := make(map[string]float64)

	putMilestone := func(name string, ts *int) {
		if ts != nil {
			m[name] = float64(*ts)
		}
	}
	putMilestone(config.MetricFeudalAge, a.Milestones.FeudalAge)
	putMilestone(config.MetricCastleAge, a.Milestones.CastleAge)
	putMilestone(config.MetricImperialAge, a.Milestones.ImperialAge)
	putMilestone(config.MetricFirstMilitary, a.Milestones.FirstMilitaryUnit)
	putMilestone(config.MetricNthMilitary, a.Milestones.NthMilitaryUnit)

	// Idle excess and counts are defined for every game, including one
	// with zero production on the line.
	m[config.MetricWorkerIdleExcess] = float64(a.WorkerGaps.TotalExcess)
	m[config.MetricWorkerCount] = float64(len(a.Timeline.FinishedSeconds(c.workerLine())))
	m[config.MetricMilitaryCount] = float64(a.Composition.Total)

	if a.Timeline.DurationSeconds > 0 {
		m[config.MetricGatherRate] = a.GatherRates.TotalPerMin
	}

	return m
}
