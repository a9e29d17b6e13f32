package stats

import (
	"strings"

	"aoe4coach/internal/timeline"
)

// Selector is a predicate over production events, used to pick out a
// production line or a category of items.
type Selector func(timeline.ProductionEvent) bool

// ByLine matches events of one kind with an exact item ID, e.g. the
// worker-unit line.
func ByLine(kind timeline.ItemKind, itemID string) Selector {
	return func(e timeline.ProductionEvent) bool {
		return e.Kind == kind && e.ItemID == itemID
	}
}

// ByKind matches all events of one kind.
func ByKind(kind timeline.ItemKind) Selector {
	return func(e timeline.ProductionEvent) bool {
		return e.Kind == kind
	}
}

// UnitsExcluding matches Unit events whose item ID contains none of the
// given tokens. Token matching is case-insensitive substring matching,
// the same vocabulary the composition rules use.
func UnitsExcluding(tokens ...string) Selector {
	lowered := make([]string, len(tokens))
	for i, t := range tokens {
		lowered[i] = strings.ToLower(t)
	}
	return func(e timeline.ProductionEvent) bool {
		if e.Kind != timeline.Unit {
			return false
		}
		id := strings.ToLower(e.ItemID)
		for _, t := range lowered {
			if t != "" && strings.Contains(id, t) {
				return false
			}
		}
		return true
	}
}
