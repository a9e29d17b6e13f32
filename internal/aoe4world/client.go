package aoe4world

import (
	"time"
)

// Client is the interface for fetching game data from AoE4 World.
type Client interface {
	GetPlayer(profileID int) (*PlayerProfile, error)
	ListGames(profileID int, civilization string, limit int) ([]GameListing, int, error)
	GetGameSummary(profileID, gameID int, sig string) (*GameSummary, error)
}

// Config holds connection settings for the AoE4 World API.
type Config struct {
	BaseURL string
	DataURL string

	// RequestDelay throttles successive summary fetches. The public API
	// has no documented rate limit; this is politeness, not retry policy.
	RequestDelay time.Duration
}

// NewClient creates a new AoE4 World client from the provided configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}
