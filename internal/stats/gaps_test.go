package stats

import (
	"testing"

	"aoe4coach/internal/timeline"
)

func workerEvents(timestamps ...int) []timeline.ProductionEvent {
	events := make([]timeline.ProductionEvent, 0, len(timestamps))
	for _, ts := range timestamps {
		events = append(events, timeline.ProductionEvent{
			Kind:    timeline.Unit,
			ItemID:  "villager",
			Seconds: ts,
			Type:    timeline.Finished,
		})
	}
	return events
}

func TestDetectIdleGapsSingleGap(t *testing.T) {
	tl := timeline.GameTimeline{Events: workerEvents(0, 22, 42, 62, 709)}

	report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}

	if report.IncidentCount != 1 {
		t.Fatalf("Expected 1 incident, got %d", report.IncidentCount)
	}
	iv := report.Intervals[0]
	if iv.Start != 62 || iv.End != 709 {
		t.Errorf("Expected interval [62, 709], got [%d, %d]", iv.Start, iv.End)
	}
	if iv.Excess != 622 {
		t.Errorf("Expected excess 622, got %d", iv.Excess)
	}
	if report.TotalExcess != 622 {
		t.Errorf("Expected total excess 622, got %d", report.TotalExcess)
	}
	if report.LongestGap != 622 {
		t.Errorf("Expected longest gap 622, got %d", report.LongestGap)
	}
}

func TestDetectIdleGapsMultipleGaps(t *testing.T) {
	// 62->709 (excess 622) and 709->1090 (excess 356) both exceed the
	// threshold; 1090->1110 does not.
	tl := timeline.GameTimeline{Events: workerEvents(0, 22, 42, 62, 709, 1090, 1110)}

	report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}

	if report.IncidentCount != 2 {
		t.Fatalf("Expected 2 incidents, got %d", report.IncidentCount)
	}
	if report.TotalExcess != 622+356 {
		t.Errorf("Expected total excess %d, got %d", 622+356, report.TotalExcess)
	}
	if report.LongestGap != 622 {
		t.Errorf("Expected longest gap 622, got %d", report.LongestGap)
	}
}

func TestDetectIdleGapsGapEqualToThreshold(t *testing.T) {
	// A gap exactly at the threshold is on cadence, not idle.
	tl := timeline.GameTimeline{Events: workerEvents(0, 25, 50)}

	report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}
	if report.IncidentCount != 0 {
		t.Errorf("Expected no incidents, got %d", report.IncidentCount)
	}
}

func TestDetectIdleGapsDuplicateTimestamps(t *testing.T) {
	// Two completions in the same second collapse to one point on the
	// cadence axis; the duplicate must not create a zero-length gap or
	// mask a real one.
	tl := timeline.GameTimeline{Events: workerEvents(0, 30, 30, 100)}

	report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}
	if report.IncidentCount != 2 {
		t.Fatalf("Expected 2 incidents, got %d", report.IncidentCount)
	}
	if report.Intervals[1].Start != 30 || report.Intervals[1].End != 100 {
		t.Errorf("Expected second interval [30, 100], got [%d, %d]",
			report.Intervals[1].Start, report.Intervals[1].End)
	}
}

func TestDetectIdleGapsFewEvents(t *testing.T) {
	for _, events := range [][]timeline.ProductionEvent{nil, workerEvents(42)} {
		tl := timeline.GameTimeline{Events: events}
		report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
		if err != nil {
			t.Fatalf("DetectIdleGaps returned error: %v", err)
		}
		if report.IncidentCount != 0 || report.TotalExcess != 0 {
			t.Errorf("Expected empty report for %d events, got %+v", len(events), report)
		}
	}
}

func TestDetectIdleGapsIgnoresOtherEventTypes(t *testing.T) {
	tl := timeline.GameTimeline{Events: []timeline.ProductionEvent{
		{Kind: timeline.Unit, ItemID: "villager", Seconds: 0, Type: timeline.Finished},
		{Kind: timeline.Unit, ItemID: "villager", Seconds: 50, Type: timeline.Constructed},
		{Kind: timeline.Unit, ItemID: "villager", Seconds: 100, Type: timeline.Finished},
	}}

	report, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}
	if report.IncidentCount != 1 {
		t.Fatalf("Expected 1 incident, got %d", report.IncidentCount)
	}
	if report.Intervals[0].Excess != 75 {
		t.Errorf("Expected excess 75, got %d", report.Intervals[0].Excess)
	}
}

func TestDetectIdleGapsInvalidThreshold(t *testing.T) {
	tl := timeline.GameTimeline{Events: workerEvents(0, 100)}
	if _, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 0); err == nil {
		t.Error("Expected error for zero threshold")
	}
	if _, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), -5); err == nil {
		t.Error("Expected error for negative threshold")
	}
}

func TestDetectIdleGapsDeterministic(t *testing.T) {
	tl := timeline.GameTimeline{Events: workerEvents(0, 22, 42, 62, 709, 1090, 1110)}

	first, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
	if err != nil {
		t.Fatalf("DetectIdleGaps returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := DetectIdleGaps(tl, ByLine(timeline.Unit, "villager"), 25)
		if err != nil {
			t.Fatalf("DetectIdleGaps returned error: %v", err)
		}
		if len(again.Intervals) != len(first.Intervals) || again.TotalExcess != first.TotalExcess {
			t.Fatalf("Run %d diverged: %+v vs %+v", i, again, first)
		}
		for j := range first.Intervals {
			if again.Intervals[j] != first.Intervals[j] {
				t.Fatalf("Run %d interval %d diverged", i, j)
			}
		}
	}
}
