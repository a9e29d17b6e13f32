package stats

import (
	"fmt"
	"slices"

	"aoe4coach/internal/timeline"
)

// DefaultWorkerThreshold is the steady-state worker production cadence
// in seconds. It applies to the worker line only; other lines need their
// own threshold.
const DefaultWorkerThreshold = 25

// IdleInterval is a gap between consecutive completions on a production
// line exceeding the line's cadence threshold.
type IdleInterval struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Excess int `json:"excess"` // (End - Start) - threshold, always > 0
}

// GapReport summarizes the idle intervals found on one production line.
type GapReport struct {
	ThresholdSeconds int            `json:"thresholdSeconds"`
	Intervals        []IdleInterval `json:"intervals,omitempty"`
	TotalExcess      int            `json:"totalExcess"`
	IncidentCount    int            `json:"incidentCount"`
	LongestGap       int            `json:"longestGap"` // largest excess, 0 when no intervals
}

// DetectIdleGaps scans the Finished timestamps of the selected line and
// reports every consecutive pair further apart than thresholdSeconds.
// The result is a pure function of the timeline and threshold. Fewer
// than two completions yield an empty report, not an error.
func DetectIdleGaps(tl timeline.GameTimeline, line Selector, thresholdSeconds int) (GapReport, error) {
	if thresholdSeconds <= 0 {
		return GapReport{}, fmt.Errorf("gap threshold must be positive, got %d", thresholdSeconds)
	}

	report := GapReport{ThresholdSeconds: thresholdSeconds}

	ts := tl.FinishedSeconds(line)
	if len(ts) < 2 {
		return report, nil
	}

	slices.Sort(ts)
	ts = slices.Compact(ts)

	for i := 1; i < len(ts); i++ {
		gap := ts[i] - ts[i-1]
		if gap <= thresholdSeconds {
			continue
		}
		excess := gap - thresholdSeconds
		report.Intervals = append(report.Intervals, IdleInterval{
			Start:  ts[i-1],
			End:    ts[i],
			Excess: excess,
		})
		report.TotalExcess += excess
		if excess > report.LongestGap {
			report.LongestGap = excess
		}
	}
	report.IncidentCount = len(report.Intervals)

	return report, nil
}
