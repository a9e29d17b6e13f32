package stats

import (
	"fmt"
	"strings"

	"aoe4coach/internal/timeline"
)

// MilestoneSet holds the point-in-time facts extracted from a timeline.
// A nil entry means the milestone was never reached; that is a
// legitimate state, not an error, and must never be conflated with a
// real timestamp.
type MilestoneSet struct {
	FeudalAge   *int `json:"feudalAge,omitempty"`
	CastleAge   *int `json:"castleAge,omitempty"`
	ImperialAge *int `json:"imperialAge,omitempty"`

	FirstMilitaryUnit *int `json:"firstMilitaryUnit,omitempty"`
	// NthMilitaryUnit is the completion time of the N-th military unit,
	// with N recorded alongside so readers know which cut was taken.
	NthMilitaryUnit *int `json:"nthMilitaryUnit,omitempty"`
	N               int  `json:"n"`
}

// FirstFinished returns the earliest Finished timestamp matching the
// selector, or nil when no match exists.
func FirstFinished(tl timeline.GameTimeline, sel Selector) *int {
	// Events are already in ascending timeline order.
	for _, e := range tl.Events {
		if e.Type == timeline.Finished && sel(e) {
			ts := e.Seconds
			return &ts
		}
	}
	return nil
}

// NthFinished returns the n-th Finished timestamp (1-based) matching the
// selector. Events are taken in normalized timeline order, so identical
// timestamps resolve by the stable input order; this keeps Nth-unit
// times comparable across games.
func NthFinished(tl timeline.GameTimeline, sel Selector, n int) (*int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("occurrence index must be positive, got %d", n)
	}

	seen := 0
	for _, e := range tl.Events {
		if e.Type != timeline.Finished || !sel(e) {
			continue
		}
		seen++
		if seen == n {
			ts := e.Seconds
			return &ts, nil
		}
	}
	return nil, nil
}

// ExtractMilestones pulls the standard milestone set out of a timeline.
// military selects what counts as a military unit (typically Unit events
// excluding the worker and scout lines); n is the Nth-unit cut.
func ExtractMilestones(tl timeline.GameTimeline, military Selector, n int) (MilestoneSet, error) {
	nth, err := NthFinished(tl, military, n)
	if err != nil {
		return MilestoneSet{}, err
	}

	set := MilestoneSet{
		FeudalAge:         ageMilestone(tl, "feudal", tl.FeudalAge),
		CastleAge:         ageMilestone(tl, "castle", tl.CastleAge),
		ImperialAge:       ageMilestone(tl, "imperial", tl.ImperialAge),
		FirstMilitaryUnit: FirstFinished(tl, military),
		NthMilitaryUnit:   nth,
		N:                 n,
	}
	return set, nil
}

// ageMilestone prefers the Age-type Finished event; the feed's own
// age-up timing is the fallback for summaries that omit age items from
// the build order.
func ageMilestone(tl timeline.GameTimeline, token string, feedTiming *int) *int {
	if ts := FirstFinished(tl, ageByToken(token)); ts != nil {
		return ts
	}
	return feedTiming
}

func ageByToken(token string) Selector {
	return func(e timeline.ProductionEvent) bool {
		return e.Kind == timeline.Age && strings.Contains(strings.ToLower(e.ItemID), token)
	}
}
