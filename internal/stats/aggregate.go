package stats

import "fmt"

// Direction states which extreme of a metric is desirable. It is an
// explicit parameter: the aggregator is reused for timing metrics (lower
// is better) and volume metrics (higher is better), and inferring the
// direction would silently mislabel results.
type Direction string

const (
	LowerIsBetter  Direction = "lower"
	HigherIsBetter Direction = "higher"
)

func (d Direction) valid() bool {
	return d == LowerIsBetter || d == HigherIsBetter
}

// AggregateStat summarizes one scalar metric across a set of reference
// games. SampleSize zero means every statistic is undefined; callers
// must branch on Defined before displaying any field.
type AggregateStat struct {
	Average    float64 `json:"average"`
	Best       float64 `json:"best"`
	Worst      float64 `json:"worst"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	StdDev     float64 `json:"stddev"` // population standard deviation
	SampleSize int     `json:"sample_size"`
}

// Defined reports whether the statistics carry any meaning.
func (a AggregateStat) Defined() bool {
	return a.SampleSize > 0
}

// Aggregate computes the cross-game summary of one metric. An empty
// value set is a valid input and produces an undefined result, never a
// division error.
func Aggregate(values []float64, dir Direction) (AggregateStat, error) {
	if !dir.valid() {
		return AggregateStat{}, fmt.Errorf("invalid aggregation direction %q", dir)
	}
	if len(values) == 0 {
		return AggregateStat{}, nil
	}

	stat := AggregateStat{
		SampleSize: len(values),
		Average:    Mean(values),
		Median:     Median(values),
		StdDev:     PopulationStdDev(values),
		Min:        values[0],
		Max:        values[0],
	}
	for _, v := range values[1:] {
		if v < stat.Min {
			stat.Min = v
		}
		if v > stat.Max {
			stat.Max = v
		}
	}

	if dir == LowerIsBetter {
		stat.Best, stat.Worst = stat.Min, stat.Max
	} else {
		stat.Best, stat.Worst = stat.Max, stat.Min
	}

	return stat, nil
}
