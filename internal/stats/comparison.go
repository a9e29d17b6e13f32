package stats

import (
	"fmt"
	"math"
)

// MetricKind selects the severity banding applied to a metric's delta.
type MetricKind string

const (
	// Timing metrics are measured in seconds; deltas are banded
	// absolutely (30s / 60s).
	Timing MetricKind = "timing"
	// Volume metrics are counts or rates; deltas are banded relative to
	// the reference average (20% / 50%).
	Volume MetricKind = "volume"
	// Percentage metrics are already expressed in percent; deltas are
	// banded absolutely in percentage points (20 / 50).
	Percentage MetricKind = "percentage"
)

// Severity is the qualitative classification of a metric delta.
type Severity string

const (
	Good        Severity = "good"
	Minor       Severity = "minor"
	Significant Severity = "significant"
	// NoReference marks a metric with no reference data; no severity is
	// computed for it.
	NoReference Severity = "no reference data"
)

// MetricDef describes one comparable metric: its identity, how its
// delta is banded, and which extreme is desirable.
type MetricDef struct {
	Name      string     `json:"name" koanf:"name"`
	Kind      MetricKind `json:"kind" koanf:"kind"`
	Direction Direction  `json:"direction" koanf:"direction"`
}

// MetricComparison is one metric's row in the comparison report.
type MetricComparison struct {
	Name      string        `json:"name"`
	Kind      MetricKind    `json:"kind"`
	Player    float64       `json:"player"`
	Reference AggregateStat `json:"reference"`
	// Delta is player - reference average. For a timing metric positive
	// means the player is slower; for a volume metric positive means
	// the player did more. Convention restates this per row.
	Delta      float64  `json:"delta"`
	Severity   Severity `json:"severity"`
	Convention string   `json:"convention"`
}

// ComparisonReport is the assembled player-vs-reference comparison. It
// is built once and never mutated; persistence and rendering belong to
// the caller.
type ComparisonReport struct {
	Metrics []MetricComparison `json:"metrics"`
	// ReferenceGames is the number of reference games that contributed
	// at least one metric value.
	ReferenceGames int `json:"referenceGames"`
}

// Metric returns the comparison row by metric name.
func (r *ComparisonReport) Metric(name string) (MetricComparison, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricComparison{}, false
}

// BuildComparison assembles the comparison report for the configured
// metric set. player maps metric name to the player's value (metrics
// the player never reached are simply absent); reference maps metric
// name to the per-reference-game values. Metrics without reference data
// appear with NoReference severity rather than failing.
func BuildComparison(player map[string]float64, reference map[string][]float64, defs []MetricDef, referenceGames int) (*ComparisonReport, error) {
	if err := validateMetricDefs(defs); err != nil {
		return nil, err
	}

	report := &ComparisonReport{ReferenceGames: referenceGames}

	for _, def := range defs {
		value, ok := player[def.Name]
		if !ok {
			continue
		}

		agg, err := Aggregate(reference[def.Name], def.Direction)
		if err != nil {
			return nil, err
		}

		row := MetricComparison{
			Name:       def.Name,
			Kind:       def.Kind,
			Player:     value,
			Reference:  agg,
			Convention: conventionFor(def.Kind),
		}

		if !agg.Defined() {
			row.Severity = NoReference
		} else {
			row.Delta = value - agg.Average
			row.Severity = classifySeverity(def.Kind, row.Delta, agg.Average)
		}

		report.Metrics = append(report.Metrics, row)
	}

	return report, nil
}

// classifySeverity applies the fixed, metric-typed bands. The bands are
// monotone in |delta|: growing a delta never lowers its severity.
func classifySeverity(kind MetricKind, delta, referenceAverage float64) Severity {
	magnitude := math.Abs(delta)

	switch kind {
	case Timing:
		switch {
		case magnitude < 30:
			return Good
		case magnitude <= 60:
			return Minor
		default:
			return Significant
		}
	case Percentage:
		return percentageBand(magnitude)
	case Volume:
		// Counts and rates have no universal scale; band the delta
		// relative to the reference average.
		if referenceAverage == 0 {
			if magnitude == 0 {
				return Good
			}
			return Significant
		}
		return percentageBand(magnitude / math.Abs(referenceAverage) * 100)
	default:
		return Good
	}
}

func percentageBand(magnitude float64) Severity {
	switch {
	case magnitude < 20:
		return Good
	case magnitude <= 50:
		return Minor
	default:
		return Significant
	}
}

func conventionFor(kind MetricKind) string {
	switch kind {
	case Timing:
		return "positive delta: player is slower than the reference average"
	case Volume:
		return "positive delta: player did more than the reference average"
	case Percentage:
		return "positive delta: player's share is higher than the reference average"
	default:
		return ""
	}
}

func validateMetricDefs(defs []MetricDef) error {
	seen := make(map[string]bool)
	for i, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("metric definition %d has an empty name", i)
		}
		if seen[def.Name] {
			return fmt.Errorf("metric %q is defined twice", def.Name)
		}
		seen[def.Name] = true
		switch def.Kind {
		case Timing, Volume, Percentage:
		default:
			return fmt.Errorf("metric %q has invalid kind %q", def.Name, def.Kind)
		}
		if !def.Direction.valid() {
			return fmt.Errorf("metric %q has invalid direction %q", def.Name, def.Direction)
		}
	}
	return nil
}
