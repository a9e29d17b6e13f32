package config

import (
	"errors"
	"fmt"
	"strings"

	"aoe4coach/internal/stats"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Rules bundles the injected analysis policy: gap thresholds, the
// composition vocabulary, the milestone cut, reference-game selection
// bounds, and the metric set. None of this lives inside the analysis
// algorithms; it is all passed in per call.
type Rules struct {
	Gap         GapRules          `koanf:"gap"`
	Composition CompositionRules  `koanf:"composition"`
	Milestones  MilestoneRules    `koanf:"milestones"`
	Reference   ReferenceRules    `koanf:"reference"`
	Metrics     []stats.MetricDef `koanf:"metrics"`
}

// GapRules configures idle-gap detection per production line.
type GapRules struct {
	// WorkerThresholdSeconds is the worker-line cadence; the 25s default
	// does not transfer to other lines.
	WorkerThresholdSeconds int `koanf:"worker_threshold_seconds"`
	// LineThresholds overrides the cadence for named lines (item IDs).
	LineThresholds map[string]int `koanf:"line_thresholds"`
	// WorkerItemID names the worker line in build-order item IDs.
	WorkerItemID string `koanf:"worker_item_id"`
}

// CompositionRules configures military composition classification.
type CompositionRules struct {
	// Exclude lists item-ID tokens removed before classification
	// (worker and scout lines by default).
	Exclude []string                `koanf:"exclude"`
	Rules   []stats.CompositionRule `koanf:"rules"`
}

// MilestoneRules configures milestone extraction.
type MilestoneRules struct {
	// NthMilitary is the N for the Nth-military-unit milestone.
	NthMilitary int `koanf:"nth_military"`
}

// ReferenceRules bounds the reference-game search: losses against
// opponents rated within [RatingDiffMin, RatingDiffMax] points above
// the player.
type ReferenceRules struct {
	RatingDiffMin int `koanf:"rating_diff_min"`
	RatingDiffMax int `koanf:"rating_diff_max"`
	SearchLimit   int `koanf:"search_limit"`
}

// Metric names shared between the derivation layer and the metric set.
const (
	MetricFeudalAge        = "feudal_age_seconds"
	MetricCastleAge        = "castle_age_seconds"
	MetricImperialAge      = "imperial_age_seconds"
	MetricFirstMilitary    = "first_military_seconds"
	MetricNthMilitary      = "nth_military_seconds"
	MetricWorkerIdleExcess = "worker_idle_excess_seconds"
	MetricWorkerCount      = "worker_count"
	MetricMilitaryCount    = "military_count"
	MetricGatherRate       = "resources_per_minute"
)

// DefaultRules returns the built-in analysis policy. The composition
// vocabulary tracks the current patch and is expected to drift; override
// it via a rules file rather than editing code.
func DefaultRules() Rules {
	return Rules{
		Gap: GapRules{
			WorkerThresholdSeconds: stats.DefaultWorkerThreshold,
			WorkerItemID:           "villager",
			LineThresholds:         map[string]int{},
		},
		Composition: CompositionRules{
			Exclude: []string{"villager", "scout"},
			Rules: []stats.CompositionRule{
				{Label: "Ranged", Tokens: []string{"archer", "crossbow", "longbow", "bowman", "zhuge", "arbaletrier", "handcannon"}},
				{Label: "Cavalry", Tokens: []string{"horseman", "knight", "lancer", "camel", "keshik"}},
				{Label: "Infantry", Tokens: []string{"manatarms", "spearman", "landsknecht", "palace-guard", "samurai"}},
				{Label: "Siege", Tokens: []string{"ram", "trebuchet", "mangonel", "springald", "bombard", "ribauldequin", "culverin"}},
			},
		},
		Milestones: MilestoneRules{NthMilitary: 10},
		Reference: ReferenceRules{
			RatingDiffMin: 30,
			RatingDiffMax: 200,
			SearchLimit:   50,
		},
		Metrics: []stats.MetricDef{
			{Name: MetricFeudalAge, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricCastleAge, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricImperialAge, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricFirstMilitary, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricNthMilitary, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricWorkerIdleExcess, Kind: stats.Timing, Direction: stats.LowerIsBetter},
			{Name: MetricWorkerCount, Kind: stats.Volume, Direction: stats.HigherIsBetter},
			{Name: MetricMilitaryCount, Kind: stats.Volume, Direction: stats.HigherIsBetter},
			{Name: MetricGatherRate, Kind: stats.Volume, Direction: stats.HigherIsBetter},
		},
	}
}

// LoadRules builds the analysis rules by layering defaults, an optional
// YAML file, and environment variables.
// Order of precedence (low -> high):
//  1. defaults (DefaultRules)
//  2. file (YAML) if path is non-empty
//  3. env (prefix AOE4COACH_)
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Rules{}, fmt.Errorf("failed to load rules file %s: %w", path, err)
		}
	}

	// AOE4COACH_GAP.WORKER_THRESHOLD_SECONDS -> gap.worker_threshold_seconds
	envProvider := env.Provider("AOE4COACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "aoe4coach_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Rules{}, err
	}

	if err := k.UnmarshalWithConf("", &rules, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Rules{}, fmt.Errorf("failed to unmarshal rules: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate rejects rule sets that would produce misleading statistics.
func (r Rules) Validate() error {
	if r.Gap.WorkerThresholdSeconds <= 0 {
		return fmt.Errorf("gap.worker_threshold_seconds must be positive, got %d", r.Gap.WorkerThresholdSeconds)
	}
	for line, threshold := range r.Gap.LineThresholds {
		if threshold <= 0 {
			return fmt.Errorf("gap.line_thresholds[%s] must be positive, got %d", line, threshold)
		}
	}
	if r.Gap.WorkerItemID == "" {
		return errors.New("gap.worker_item_id must not be empty")
	}
	if r.Milestones.NthMilitary <= 0 {
		return fmt.Errorf("milestones.nth_military must be positive, got %d", r.Milestones.NthMilitary)
	}
	if r.Reference.RatingDiffMin < 0 || r.Reference.RatingDiffMax < r.Reference.RatingDiffMin {
		return fmt.Errorf("reference rating bounds are inverted: [%d, %d]", r.Reference.RatingDiffMin, r.Reference.RatingDiffMax)
	}
	if len(r.Metrics) == 0 {
		return errors.New("metrics must not be empty")
	}
	return nil
}
