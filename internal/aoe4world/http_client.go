package aoe4world

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "aoe4coach/0.1"

type httpClient struct {
	cfg         Config
	httpClient  *http.Client
	lastRequest time.Time

	// Session cache
	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value       interface{}
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

func newHTTPClient(cfg Config) *httpClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://aoe4world.com"
	}
	if cfg.DataURL == "" {
		cfg.DataURL = "https://data.aoe4world.com"
	}
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 2 * time.Second
	}
	return &httpClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *httpClient) getFromCache(key string) (interface{}, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
	}

	return entry.Value, true
}

func (c *httpClient) addToCache(key string, value interface{}, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *httpClient) throttle(isMetadata bool) {
	// Profile and listing requests are allowed to burst; only the heavy
	// summary endpoint is paced.
	if isMetadata {
		c.lastRequest = time.Now()
		return
	}

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling AoE4 World request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

func (c *httpClient) getJSON(reqURL string, out interface{}) error {
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("resource not found (404): %s", reqURL)
		case http.StatusForbidden:
			return fmt.Errorf("access denied (403): the game may be private, check the sig parameter")
		case http.StatusTooManyRequests:
			return fmt.Errorf("AoE4 World rate limit exceeded (429)")
		default:
			return fmt.Errorf("AoE4 World API returned status %d", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode AoE4 World response: %w", err)
	}
	return nil
}

func (c *httpClient) GetPlayer(profileID int) (*PlayerProfile, error) {
	cacheKey := fmt.Sprintf("player:%d", profileID)
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.(*PlayerProfile), nil
	}

	c.throttle(true)

	reqURL := fmt.Sprintf("%s/api/v0/players/%d", c.cfg.BaseURL, profileID)
	log.Info().Int("profileId", profileID).Msg("Requesting player profile")

	var profile PlayerProfile
	if err := c.getJSON(reqURL, &profile); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, &profile, 10*time.Minute)
	return &profile, nil
}

func (c *httpClient) ListGames(profileID int, civilization string, limit int) ([]GameListing, int, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("games:%d:%s:%d", profileID, civilization, limit)
	if val, ok := c.getFromCache(cacheKey); ok {
		cached := val.(*gamesResponse)
		return flattenGames(cached, profileID), cached.TotalCount, nil
	}

	c.throttle(true)

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if civilization != "" {
		params.Set("civilization", civilization)
	}

	reqURL := fmt.Sprintf("%s/api/v0/players/%d/games?%s", c.cfg.BaseURL, profileID, params.Encode())
	log.Info().Int("profileId", profileID).Int("limit", limit).Msg("Requesting player games")

	var result gamesResponse
	if err := c.getJSON(reqURL, &result); err != nil {
		return nil, 0, err
	}

	c.addToCache(cacheKey, &result, 5*time.Minute)
	return flattenGames(&result, profileID), result.TotalCount, nil
}

func (c *httpClient) GetGameSummary(profileID, gameID int, sig string) (*GameSummary, error) {
	cacheKey := fmt.Sprintf("summary:%d:%d", profileID, gameID)
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.(*GameSummary), nil
	}

	c.throttle(false)

	// The summary endpoint lives on the web URL, not under /api/v0.
	params := url.Values{}
	params.Set("camelize", "true")
	if sig != "" {
		params.Set("sig", sig)
	}

	reqURL := fmt.Sprintf("%s/players/%d/games/%d/summary?%s", c.cfg.BaseURL, profileID, gameID, params.Encode())
	log.Info().Int("gameId", gameID).Msg("Requesting game summary")

	var summary GameSummary
	if err := c.getJSON(reqURL, &summary); err != nil {
		return nil, err
	}

	// Summaries are immutable once the game is over; cache generously.
	c.addToCache(cacheKey, &summary, 30*time.Minute)
	return &summary, nil
}

// flattenGames resolves the nested teams structure into per-game rows
// seen from profileID's side of the table.
func flattenGames(resp *gamesResponse, profileID int) []GameListing {
	var listings []GameListing
	for _, g := range resp.Games {
		listing := GameListing{
			GameID:    g.GameID,
			Map:       g.Map,
			Duration:  g.Duration,
			StartedAt: g.StartedAt,
			Kind:      g.Kind,
		}

		found := false
		for _, team := range g.Teams {
			for _, slot := range team {
				p := slot.Player
				if p.ProfileID == profileID {
					listing.PlayerCiv = p.Civilization
					listing.PlayerResult = p.Result
					listing.PlayerRating = p.Rating
					found = true
				} else if listing.OpponentName == "" {
					listing.OpponentName = p.Name
					listing.OpponentCiv = p.Civilization
					listing.OpponentRating = p.Rating
				}
			}
		}

		if found {
			listings = append(listings, listing)
		}
	}
	return listings
}
