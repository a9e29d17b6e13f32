package stats

import (
	"fmt"
	"math"
	"strings"

	"aoe4coach/internal/timeline"
)

// OtherCategory is the fall-through bucket for units matching no rule.
const OtherCategory = "other"

// CompositionRule maps item-ID tokens to a category label. Rules are
// applied in order; the first rule with a matching token wins.
type CompositionRule struct {
	Label  string   `json:"label" koanf:"label"`
	Tokens []string `json:"tokens" koanf:"tokens"`
}

// CategoryShare is one category's slice of the produced military units.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // of total classified units, including other
}

// CompositionBreakdown is the categorical distribution of produced
// units. Zero produced units yield an empty breakdown.
type CompositionBreakdown struct {
	Categories []CategoryShare `json:"categories,omitempty"`
	Total      int             `json:"total"`
}

// Share returns the breakdown entry for a category label; ok is false
// when the category is absent.
func (b CompositionBreakdown) Share(label string) (CategoryShare, bool) {
	for _, c := range b.Categories {
		if c.Category == label {
			return c, true
		}
	}
	return CategoryShare{}, false
}

// ClassifyComposition buckets the Finished unit events selected by
// include into categories. The rule table comes from configuration: the
// category vocabulary is civilization- and patch-dependent and must be
// replaceable without touching this algorithm. An item matching no rule
// lands in the other bucket; that is not an error. A malformed rule
// table is.
func ClassifyComposition(tl timeline.GameTimeline, rules []CompositionRule, include Selector) (CompositionBreakdown, error) {
	if err := validateRules(rules); err != nil {
		return CompositionBreakdown{}, err
	}

	counts := make(map[string]int)
	total := 0
	for _, e := range tl.Events {
		if e.Type != timeline.Finished || !include(e) {
			continue
		}
		counts[classify(e.ItemID, rules)]++
		total++
	}

	breakdown := CompositionBreakdown{Total: total}
	if total == 0 {
		return breakdown, nil
	}

	// Emit in rule order, other last, skipping empty categories.
	emit := func(label string) {
		count, ok := counts[label]
		if !ok {
			return
		}
		breakdown.Categories = append(breakdown.Categories, CategoryShare{
			Category:   label,
			Count:      count,
			Percentage: math.Round(float64(count)/float64(total)*1000) / 10,
		})
	}
	for _, r := range rules {
		emit(r.Label)
	}
	emit(OtherCategory)

	return breakdown, nil
}

func classify(itemID string, rules []CompositionRule) string {
	id := strings.ToLower(itemID)
	for _, r := range rules {
		for _, token := range r.Tokens {
			if strings.Contains(id, strings.ToLower(token)) {
				return r.Label
			}
		}
	}
	return OtherCategory
}

func validateRules(rules []CompositionRule) error {
	seen := make(map[string]bool)
	for i, r := range rules {
		if r.Label == "" {
			return fmt.Errorf("composition rule %d has an empty label", i)
		}
		if r.Label == OtherCategory {
			return fmt.Errorf("composition rule %d uses the reserved label %q", i, OtherCategory)
		}
		if len(r.Tokens) == 0 {
			return fmt.Errorf("composition rule %q has no tokens", r.Label)
		}
		for _, token := range r.Tokens {
			if strings.TrimSpace(token) == "" {
				return fmt.Errorf("composition rule %q contains an empty token", r.Label)
			}
		}
		if seen[r.Label] {
			return fmt.Errorf("composition rule label %q appears twice", r.Label)
		}
		seen[r.Label] = true
	}
	return nil
}
