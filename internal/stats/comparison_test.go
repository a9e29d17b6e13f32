package stats

import (
	"math"
	"testing"
)

func feudalDef() MetricDef {
	return MetricDef{Name: "feudal_age_seconds", Kind: Timing, Direction: LowerIsBetter}
}

func TestBuildComparisonTimingDelta(t *testing.T) {
	player := map[string]float64{"feudal_age_seconds": 322}
	reference := map[string][]float64{"feudal_age_seconds": {255, 270, 292, 312}}

	report, err := BuildComparison(player, reference, []MetricDef{feudalDef()}, 4)
	if err != nil {
		t.Fatalf("BuildComparison returned error: %v", err)
	}

	row, ok := report.Metric("feudal_age_seconds")
	if !ok {
		t.Fatal("Expected feudal_age_seconds row")
	}
	if math.Abs(row.Delta-39.75) > 1e-9 {
		t.Errorf("Expected delta 39.75, got %f", row.Delta)
	}
	if row.Severity != Minor {
		t.Errorf("Expected Minor severity, got %s", row.Severity)
	}
	if row.Reference.Average != 282.25 {
		t.Errorf("Expected reference average 282.25, got %f", row.Reference.Average)
	}
	if report.ReferenceGames != 4 {
		t.Errorf("Expected 4 reference games, got %d", report.ReferenceGames)
	}
}

func TestBuildComparisonNoReferenceData(t *testing.T) {
	player := map[string]float64{"feudal_age_seconds": 322}

	report, err := BuildComparison(player, map[string][]float64{}, []MetricDef{feudalDef()}, 0)
	if err != nil {
		t.Fatalf("BuildComparison returned error: %v", err)
	}

	row, ok := report.Metric("feudal_age_seconds")
	if !ok {
		t.Fatal("Expected feudal_age_seconds row")
	}
	if row.Severity != NoReference {
		t.Errorf("Expected NoReference severity, got %s", row.Severity)
	}
	if row.Delta != 0 {
		t.Errorf("Expected zero delta for missing reference, got %f", row.Delta)
	}
	if row.Reference.Defined() {
		t.Error("Expected undefined reference stat")
	}
}

func TestBuildComparisonSkipsMissingPlayerMetrics(t *testing.T) {
	// The player never reached castle age; the row is absent entirely.
	defs := []MetricDef{
		feudalDef(),
		{Name: "castle_age_seconds", Kind: Timing, Direction: LowerIsBetter},
	}
	player := map[string]float64{"feudal_age_seconds": 300}
	reference := map[string][]float64{
		"feudal_age_seconds": {280},
		"castle_age_seconds": {600},
	}

	report, err := BuildComparison(player, reference, defs, 1)
	if err != nil {
		t.Fatalf("BuildComparison returned error: %v", err)
	}
	if len(report.Metrics) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(report.Metrics))
	}
	if _, ok := report.Metric("castle_age_seconds"); ok {
		t.Error("Expected no castle_age_seconds row")
	}
}

func TestClassifySeverityTimingBands(t *testing.T) {
	cases := []struct {
		delta float64
		want  Severity
	}{
		{0, Good},
		{29.9, Good},
		{-29.9, Good},
		{30, Minor},
		{45, Minor},
		{60, Minor},
		{-60, Minor},
		{60.1, Significant},
		{300, Significant},
	}
	for _, tc := range cases {
		if got := classifySeverity(Timing, tc.delta, 282); got != tc.want {
			t.Errorf("Timing delta %f: expected %s, got %s", tc.delta, tc.want, got)
		}
	}
}

func TestClassifySeverityPercentageBands(t *testing.T) {
	cases := []struct {
		delta float64
		want  Severity
	}{
		{10, Good},
		{19.9, Good},
		{20, Minor},
		{50, Minor},
		{50.1, Significant},
		{-60, Significant},
	}
	for _, tc := range cases {
		if got := classifySeverity(Percentage, tc.delta, 40); got != tc.want {
			t.Errorf("Percentage delta %f: expected %s, got %s", tc.delta, tc.want, got)
		}
	}
}

func TestClassifySeverityVolumeRelative(t *testing.T) {
	// Reference average 50: 5 is 10% off (Good), 20 is 40% off (Minor),
	// 30 is 60% off (Significant).
	cases := []struct {
		delta float64
		want  Severity
	}{
		{5, Good},
		{-20, Minor},
		{30, Significant},
	}
	for _, tc := range cases {
		if got := classifySeverity(Volume, tc.delta, 50); got != tc.want {
			t.Errorf("Volume delta %f: expected %s, got %s", tc.delta, tc.want, got)
		}
	}

	if got := classifySeverity(Volume, 0, 0); got != Good {
		t.Errorf("Expected Good for zero delta on zero reference, got %s", got)
	}
	if got := classifySeverity(Volume, 3, 0); got != Significant {
		t.Errorf("Expected Significant for nonzero delta on zero reference, got %s", got)
	}
}

func TestSeverityMonotoneInDelta(t *testing.T) {
	rank := map[Severity]int{Good: 0, Minor: 1, Significant: 2}
	for _, kind := range []MetricKind{Timing, Percentage, Volume} {
		prev := 0
		for delta := 0.0; delta <= 400; delta += 0.5 {
			r := rank[classifySeverity(kind, delta, 100)]
			if r < prev {
				t.Fatalf("%s severity dropped at delta %f", kind, delta)
			}
			prev = r
		}
	}
}

func TestBuildComparisonInvalidDefs(t *testing.T) {
	cases := []struct {
		name string
		defs []MetricDef
	}{
		{"empty name", []MetricDef{{Name: "", Kind: Timing, Direction: LowerIsBetter}}},
		{"duplicate name", []MetricDef{feudalDef(), feudalDef()}},
		{"bad kind", []MetricDef{{Name: "x", Kind: "ordinal", Direction: LowerIsBetter}}},
		{"bad direction", []MetricDef{{Name: "x", Kind: Timing, Direction: "sideways"}}},
	}
	for _, tc := range cases {
		if _, err := BuildComparison(nil, nil, tc.defs, 0); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
