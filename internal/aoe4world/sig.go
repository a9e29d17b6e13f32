package aoe4world

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// GameRef identifies a single fetchable game: whose perspective, which
// game, and the share signature that unlocks private summaries.
type GameRef struct {
	ProfileID int
	GameID    int
	Sig       string
}

var gameURLPattern = regexp.MustCompile(`^https?://(?:www\.)?aoe4world\.com/players/(\d+)[^/]*/games/(\d+)`)

// ParseGameURL extracts profile ID, game ID and sig from an AoE4 World
// game URL, e.g.
// https://aoe4world.com/players/8354416-EL-loueMT/games/220749753?sig=abc123
func ParseGameURL(raw string) (GameRef, error) {
	m := gameURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return GameRef{}, fmt.Errorf("not an AoE4 World game URL: %s", raw)
	}

	profileID, err := strconv.Atoi(m[1])
	if err != nil {
		return GameRef{}, fmt.Errorf("invalid profile ID in URL: %w", err)
	}
	gameID, err := strconv.Atoi(m[2])
	if err != nil {
		return GameRef{}, fmt.Errorf("invalid game ID in URL: %w", err)
	}

	ref := GameRef{ProfileID: profileID, GameID: gameID}

	parsed, err := url.Parse(raw)
	if err != nil {
		return GameRef{}, fmt.Errorf("failed to parse URL query: %w", err)
	}
	ref.Sig = parsed.Query().Get("sig")

	return ref, nil
}
