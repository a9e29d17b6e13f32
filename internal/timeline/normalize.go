package timeline

import (
	"sort"

	"aoe4coach/internal/aoe4world"
)

// Result is the recorded outcome of a game for one player.
type Result string

const (
	Win     Result = "win"
	Loss    Result = "loss"
	Unknown Result = "unknown"
)

// GameTimeline is the canonical, time-ordered view of one player's game.
// It is constructed once by Normalize and never mutated afterwards.
type GameTimeline struct {
	GameID          int    `json:"gameId"`
	Map             string `json:"map"`
	PlayerName      string `json:"playerName"`
	Civilization    string `json:"civilization"`
	Rating          int    `json:"rating"`
	Result          Result `json:"result"`
	DurationSeconds int    `json:"durationSeconds"`

	// Events are sorted ascending by Seconds. Events with identical
	// timestamps keep the order the source feed listed their items in;
	// downstream Nth-occurrence extraction depends on that tie-break
	// being stable.
	Events []ProductionEvent `json:"events"`

	// FeudalAge, CastleAge and ImperialAge carry the feed's own age-up
	// timings; nil when the age was never reached.
	FeudalAge   *int `json:"feudalAge,omitempty"`
	CastleAge   *int `json:"castleAge,omitempty"`
	ImperialAge *int `json:"imperialAge,omitempty"`

	ResourcesGathered aoe4world.Resources `json:"resourcesGathered"`
	ResourcesSpent    aoe4world.Resources `json:"resourcesSpent"`
}

var knownKinds = map[string]ItemKind{
	"Unit":     Unit,
	"Building": Building,
	"Age":      Age,
	"Upgrade":  Upgrade,
	"Animal":   Animal,
}

// Normalize converts raw per-item game data into a GameTimeline. The
// feed groups timestamps by item, not by time, and may contain zero or
// negative placeholder values; normalization filters those and produces
// a single globally ordered event sequence. Malformed input never
// errors: an item with no valid timestamps is simply absent.
func Normalize(data aoe4world.PlayerGameData) GameTimeline {
	tl := GameTimeline{
		GameID:            data.GameID,
		Map:               data.Map,
		PlayerName:        data.Name,
		Civilization:      data.Civilization,
		Rating:            data.Rating,
		Result:            parseResult(data.Result),
		DurationSeconds:   data.DurationSeconds,
		FeudalAge:         data.FeudalAge,
		CastleAge:         data.CastleAge,
		ImperialAge:       data.ImperialAge,
		ResourcesGathered: data.ResourcesGathered,
		ResourcesSpent:    data.ResourcesSpent,
	}

	for _, item := range data.BuildOrder {
		kind, ok := knownKinds[item.Type]
		if !ok {
			// Unrecognized item classes carry no derivable statistics.
			continue
		}

		itemID := item.ID
		if itemID == "" {
			itemID = aoe4world.IconBaseID(item.Icon)
		}
		if itemID == "" {
			continue
		}

		appendEvents(&tl.Events, kind, itemID, item.Pbgid, Constructed, item.Constructed)
		appendEvents(&tl.Events, kind, itemID, item.Pbgid, Finished, item.Finished)
		appendEvents(&tl.Events, kind, itemID, item.Pbgid, Destroyed, item.Destroyed)
	}

	// Stable: ties keep original item order.
	sort.SliceStable(tl.Events, func(i, j int) bool {
		return tl.Events[i].Seconds < tl.Events[j].Seconds
	})

	return tl
}

func appendEvents(events *[]ProductionEvent, kind ItemKind, itemID string, pbgid int, et EventType, timestamps []int) {
	for _, ts := range timestamps {
		// Zero and negative timestamps are feed artifacts, not game
		// events.
		if ts <= 0 {
			continue
		}
		*events = append(*events, ProductionEvent{
			Kind:    kind,
			ItemID:  itemID,
			Pbgid:   pbgid,
			Seconds: ts,
			Type:    et,
		})
	}
}

func parseResult(s string) Result {
	switch s {
	case "win":
		return Win
	case "loss":
		return Loss
	default:
		return Unknown
	}
}

// FinishedSeconds returns all Finished timestamps for events matching
// the predicate, in timeline order.
func (tl *GameTimeline) FinishedSeconds(match func(ProductionEvent) bool) []int {
	var out []int
	for _, e := range tl.Events {
		if e.Type == Finished && match(e) {
			out = append(out, e.Seconds)
		}
	}
	return out
}
