package coach

import (
	"fmt"
	"strings"

	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/config"
	"aoe4coach/internal/stats"
	"aoe4coach/internal/timeline"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Coach orchestrates the analysis pipeline: fetch raw game data,
// normalize, derive per-game statistics, aggregate across reference
// games, and assemble the comparison report.
type Coach struct {
	client aoe4world.Client
	rules  config.Rules
}

// New creates a Coach. The rules are validated once here; a bad rule
// set is rejected before any statistics can be produced from it.
func New(client aoe4world.Client, rules config.Rules) (*Coach, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis rules: %w", err)
	}
	return &Coach{client: client, rules: rules}, nil
}

// GameAnalysis bundles everything derived from one player's game.
type GameAnalysis struct {
	Timeline    timeline.GameTimeline      `json:"timeline"`
	WorkerGaps  stats.GapReport            `json:"workerGaps"`
	Milestones  stats.MilestoneSet         `json:"milestones"`
	Composition stats.CompositionBreakdown `json:"composition"`
	GatherRates stats.GatherRates          `json:"gatherRates"`
	// Metrics holds the scalar metric values feeding the comparison;
	// metrics the game never reached are absent, not zero.
	Metrics map[string]float64 `json:"metrics"`
}

// AnalyzeGame fetches one game and derives the full per-game analysis
// from the perspective of ref.ProfileID.
func (c *Coach) AnalyzeGame(ref aoe4world.GameRef) (*GameAnalysis, error) {
	summary, err := c.client.GetGameSummary(ref.ProfileID, ref.GameID, ref.Sig)
	if err != nil {
		return nil, fmt.Errorf("no data available for game %d: %w", ref.GameID, err)
	}

	data, ok := summary.PlayerData(ref.ProfileID)
	if !ok {
		return nil, fmt.Errorf("player %d is not part of game %d", ref.ProfileID, ref.GameID)
	}
	return c.Analyze(data)
}

// AnalyzeOpponent is AnalyzeGame from the other side of the table: it
// derives the analysis for ref.ProfileID's opponent. Reference games
// are typically the player's own losses, where the stronger opponent's
// build is the one worth studying and the player's sig unlocks it.
func (c *Coach) AnalyzeOpponent(ref aoe4world.GameRef) (*GameAnalysis, error) {
	summary, err := c.client.GetGameSummary(ref.ProfileID, ref.GameID, ref.Sig)
	if err != nil {
		return nil, fmt.Errorf("no data available for game %d: %w", ref.GameID, err)
	}

	data, ok := summary.OpponentData(ref.ProfileID)
	if !ok {
		return nil, fmt.Errorf("game %d has no opponent for player %d", ref.GameID, ref.ProfileID)
	}
	return c.Analyze(data)
}

// Analyze derives the per-game statistics from already-fetched raw
// data. It is the pure part of the pipeline: no I/O happens past this
// point.
func (c *Coach) Analyze(data aoe4world.PlayerGameData) (*GameAnalysis, error) {
	tl := timeline.Normalize(data)

	workerGaps, err := stats.DetectIdleGaps(tl, c.workerLine(), c.workerThreshold())
	if err != nil {
		return nil, err
	}

	military := stats.UnitsExcluding(c.rules.Composition.Exclude...)

	milestones, err := stats.ExtractMilestones(tl, military, c.rules.Milestones.NthMilitary)
	if err != nil {
		return nil, err
	}

	composition, err := stats.ClassifyComposition(tl, c.rules.Composition.Rules, military)
	if err != nil {
		return nil, err
	}

	analysis := &GameAnalysis{
		Timeline:    tl,
		WorkerGaps:  workerGaps,
		Milestones:  milestones,
		Composition: composition,
		GatherRates: stats.CalculateGatherRates(tl.ResourcesGathered, tl.DurationSeconds),
	}
	analysis.Metrics = c.deriveMetrics(analysis)

	return analysis, nil
}

// Comparison is the assembled coaching comparison: the player's own
// analysis, the aggregated reference picture, and the single reference
// analysis closest in rating for narrative quoting.
type Comparison struct {
	Player           *GameAnalysis           `json:"player"`
	Report           *stats.ComparisonReport `json:"report"`
	ClosestReference *GameAnalysis           `json:"closestReference,omitempty"`
	// FailedReferences counts reference games that could not be fetched;
	// they shrink the sample instead of failing the comparison.
	FailedReferences int `json:"failedReferences,omitempty"`
}

// CompareWithReferences analyzes the player's game and compares it
// against the opponents of the given reference games. Reference
// derivations run concurrently; a fetch failure drops that game from
// the sample rather than aborting. With zero usable references every
// metric reports "no reference data".
func (c *Coach) CompareWithReferences(player aoe4world.GameRef, refs []aoe4world.GameRef) (*Comparison, error) {
	playerAnalysis, err := c.AnalyzeGame(player)
	if err != nil {
		return nil, err
	}

	analyses := make([]*GameAnalysis, len(refs))
	var g errgroup.Group
	g.SetLimit(4)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			a, err := c.AnalyzeOpponent(ref)
			if err != nil {
				log.Warn().Err(err).Int("gameId", ref.GameID).Msg("Skipping unavailable reference game")
				return nil
			}
			analyses[i] = a
			return nil
		})
	}
	_ = g.Wait()

	referenceValues := make(map[string][]float64)
	usable := 0
	failed := 0
	var closest *GameAnalysis
	for _, a := range analyses {
		if a == nil {
			failed++
			continue
		}
		usable++
		for name, value := range a.Metrics {
			referenceValues[name] = append(referenceValues[name], value)
		}
		if closest == nil || ratingGap(playerAnalysis, a) < ratingGap(playerAnalysis, closest) {
			closest = a
		}
	}

	report, err := stats.BuildComparison(playerAnalysis.Metrics, referenceValues, c.rules.Metrics, usable)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Player:           playerAnalysis,
		Report:           report,
		ClosestReference: closest,
		FailedReferences: failed,
	}, nil
}

// ReferenceGame is a candidate coaching baseline: a loss against a
// somewhat higher-rated opponent.
type ReferenceGame struct {
	aoe4world.GameListing
	RatingDiff int `json:"rating_diff"`
}

// FindReferenceGames scans the player's recent games for losses against
// opponents rated within the configured band above the player. Those
// games represent next-level play, and the opponent's build order is
// accessible through the player's own sig.
func (c *Coach) FindReferenceGames(profileID int, civilization string) ([]ReferenceGame, error) {
	listings, _, err := c.client.ListGames(profileID, civilization, c.rules.Reference.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("no data available for player %d: %w", profileID, err)
	}

	bounds := c.rules.Reference
	var refs []ReferenceGame
	for _, g := range listings {
		if g.PlayerResult != "loss" {
			continue
		}
		diff := g.OpponentRating - g.PlayerRating
		if diff < bounds.RatingDiffMin || diff > bounds.RatingDiffMax {
			continue
		}
		refs = append(refs, ReferenceGame{GameListing: g, RatingDiff: diff})
	}
	return refs, nil
}

func (c *Coach) workerLine() stats.Selector {
	token := strings.ToLower(c.rules.Gap.WorkerItemID)
	return func(e timeline.ProductionEvent) bool {
		return e.Kind == timeline.Unit && strings.Contains(strings.ToLower(e.ItemID), token)
	}
}

func (c *Coach) workerThreshold() int {
	if t, ok := c.rules.Gap.LineThresholds[c.rules.Gap.WorkerItemID]; ok {
		return t
	}
	return c.rules.Gap.WorkerThresholdSeconds
}

func ratingGap(player, ref *GameAnalysis) int {
	gap := ref.Timeline.Rating - player.Timeline.Rating
	if gap < 0 {
		return -gap
	}
	return gap
}
