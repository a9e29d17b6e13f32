package aoe4world

// BuildOrderItem is one trackable production line in a game summary,
// grouped by item rather than by time. Timestamp lists arrive in the
// order the feed produced them, which is not guaranteed to be sorted.
type BuildOrderItem struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Pbgid       int    `json:"pbgid"`
	Type        string `json:"type"` // Unit, Building, Age, Upgrade, Animal
	Finished    []int  `json:"finished"`
	Constructed []int  `json:"constructed"`
	Destroyed   []int  `json:"destroyed"`
}

// Resources holds per-resource totals from the game summary scores.
type Resources struct {
	Food  int `json:"food"`
	Wood  int `json:"wood"`
	Gold  int `json:"gold"`
	Stone int `json:"stone"`
	Total int `json:"total"`
}

// PlayerGameData is the per-player slice of a game summary: everything
// the analysis layer needs about one player's single game.
type PlayerGameData struct {
	GameID          int
	Map             string
	DurationSeconds int

	ProfileID    int
	Name         string
	Civilization string
	Result       string // win, loss, or empty when unknown
	Rating       int
	APM          int

	// Age-up timestamps in seconds; nil when the age was never reached.
	FeudalAge   *int
	CastleAge   *int
	ImperialAge *int

	BuildOrder []BuildOrderItem

	ResourcesGathered Resources
	ResourcesSpent    Resources
}

// GameSummary is the decoded summary endpoint payload for one game,
// covering both players.
type GameSummary struct {
	GameID    int             `json:"gameId"`
	Duration  int             `json:"duration"`
	MapName   string          `json:"mapName"`
	WinReason string          `json:"winReason"`
	Players   []summaryPlayer `json:"players"`
}

type summaryPlayer struct {
	ProfileID    int              `json:"profileId"`
	Name         string           `json:"name"`
	Civilization string           `json:"civilization"`
	Result       string           `json:"result"`
	Rating       int              `json:"rating"`
	APM          int              `json:"apm"`
	Actions      map[string][]int `json:"actions"`
	BuildOrder   []BuildOrderItem `json:"buildOrder"`
	Gathered     Resources        `json:"totalResourcesGathered"`
	Spent        Resources        `json:"totalResourcesSpent"`
}

// GameListing is one row from the player games endpoint.
type GameListing struct {
	GameID    int    `json:"game_id"`
	Map       string `json:"map"`
	Duration  int    `json:"duration"`
	StartedAt string `json:"started_at"`
	Kind      string `json:"kind"`

	PlayerCiv    string
	PlayerResult string
	PlayerRating int

	OpponentName   string
	OpponentCiv    string
	OpponentRating int
}

type gamesResponse struct {
	TotalCount int       `json:"total_count"`
	Games      []gameRow `json:"games"`
}

type gameRow struct {
	GameID    int          `json:"game_id"`
	Map       string       `json:"map"`
	Duration  int          `json:"duration"`
	StartedAt string       `json:"started_at"`
	Kind      string       `json:"kind"`
	Teams     [][]teamSlot `json:"teams"`
}

type teamSlot struct {
	Player listedPlayer `json:"player"`
}

type listedPlayer struct {
	ProfileID    int    `json:"profile_id"`
	Name         string `json:"name"`
	Civilization string `json:"civilization"`
	Result       string `json:"result"`
	Rating       int    `json:"rating"`
}

// PlayerProfile is the subset of the player endpoint we surface.
type PlayerProfile struct {
	ProfileID int    `json:"profile_id"`
	Name      string `json:"name"`
	SteamID   string `json:"steam_id"`
	Country   string `json:"country"`
}

// PlayerData extracts the slice of a summary belonging to profileID.
// The second return is false when that player is not in the game.
func (s *GameSummary) PlayerData(profileID int) (PlayerGameData, bool) {
	for _, p := range s.Players {
		if p.ProfileID != profileID {
			continue
		}
		data := PlayerGameData{
			GameID:            s.GameID,
			Map:               s.MapName,
			DurationSeconds:   s.Duration,
			ProfileID:         p.ProfileID,
			Name:              p.Name,
			Civilization:      p.Civilization,
			Result:            p.Result,
			Rating:            p.Rating,
			APM:               p.APM,
			BuildOrder:        p.BuildOrder,
			ResourcesGathered: p.Gathered,
			ResourcesSpent:    p.Spent,
		}
		data.FeudalAge = firstAction(p.Actions, "feudalAge")
		data.CastleAge = firstAction(p.Actions, "castleAge")
		data.ImperialAge = firstAction(p.Actions, "imperialAge")
		return data, true
	}
	return PlayerGameData{}, false
}

// OpponentData extracts the slice of a summary belonging to the first
// player that is NOT profileID.
func (s *GameSummary) OpponentData(profileID int) (PlayerGameData, bool) {
	for _, p := range s.Players {
		if p.ProfileID == profileID {
			continue
		}
		return s.PlayerData(p.ProfileID)
	}
	return PlayerGameData{}, false
}

func firstAction(actions map[string][]int, key string) *int {
	ts, ok := actions[key]
	if !ok || len(ts) == 0 {
		return nil
	}
	v := ts[0]
	return &v
}
