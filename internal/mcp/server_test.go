package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/coach"
	"aoe4coach/internal/config"
	"aoe4coach/internal/report"
)

type fakeClient struct {
	summaries map[int]*aoe4world.GameSummary
}

func (f *fakeClient) GetPlayer(profileID int) (*aoe4world.PlayerProfile, error) {
	return &aoe4world.PlayerProfile{ProfileID: profileID}, nil
}

func (f *fakeClient) ListGames(profileID int, civilization string, limit int) ([]aoe4world.GameListing, int, error) {
	return []aoe4world.GameListing{{GameID: 1, Map: "Dry Arabia"}}, 1, nil
}

func (f *fakeClient) GetGameSummary(profileID, gameID int, sig string) (*aoe4world.GameSummary, error) {
	s, ok := f.summaries[gameID]
	if !ok {
		return nil, fmt.Errorf("game %d not found", gameID)
	}
	return s, nil
}

func testSummary(gameID int) *aoe4world.GameSummary {
	raw := fmt.Sprintf(`{
		"gameId": %d,
		"duration": 1200,
		"mapName": "Dry Arabia",
		"players": [
			{"profileId": 1, "name": "Me", "result": "loss", "rating": 1000,
			 "buildOrder": [{"id": "villager", "type": "Unit", "finished": [25, 50]}]},
			{"profileId": 2, "name": "Opponent", "result": "win", "rating": 1100,
			 "buildOrder": [{"id": "villager", "type": "Unit", "finished": [20, 40]}]}
		]
	}`, gameID)
	var s aoe4world.GameSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		panic(err)
	}
	return &s
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	client := &fakeClient{summaries: map[int]*aoe4world.GameSummary{
		10: testSummary(10),
		20: testSummary(20),
	}}
	c, err := coach.New(client, config.DefaultRules())
	if err != nil {
		t.Fatalf("coach.New returned error: %v", err)
	}
	return NewServer(c, client, report.NewRenderer(nil))
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)

	tools, ok := s.listTools()["tools"].([]map[string]interface{})
	if !ok {
		t.Fatal("Expected a tools list")
	}

	want := map[string]bool{
		"list_player_games":       false,
		"find_reference_games":    false,
		"analyze_game":            false,
		"compare_with_references": false,
	}
	for _, tool := range tools {
		name := tool["name"].(string)
		if _, known := want[name]; !known {
			t.Errorf("Unexpected tool %q", name)
			continue
		}
		want[name] = true
		if tool["inputSchema"] == nil {
			t.Errorf("Tool %q is missing its input schema", name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("Tool %q is missing", name)
		}
	}
}

func TestCallToolAnalyzeGame(t *testing.T) {
	s := newTestServer(t)

	params, _ := json.Marshal(map[string]interface{}{
		"name": "analyze_game",
		"arguments": map[string]interface{}{
			"url": "https://aoe4world.com/players/1/games/10?sig=abc",
		},
	})

	result, errRes := s.callTool(params)
	if errRes != nil {
		t.Fatalf("callTool returned error: %v", errRes)
	}

	text := resultText(t, result)
	if !strings.Contains(text, `"workerGaps"`) {
		t.Errorf("Expected analysis payload, got %s", text)
	}
}

func TestCallToolCompare(t *testing.T) {
	s := newTestServer(t)

	params, _ := json.Marshal(map[string]interface{}{
		"name": "compare_with_references",
		"arguments": map[string]interface{}{
			"url":            "https://aoe4world.com/players/1/games/10?sig=abc",
			"reference_urls": []string{"https://aoe4world.com/players/1/games/20?sig=def"},
		},
	})

	result, errRes := s.callTool(params)
	if errRes != nil {
		t.Fatalf("callTool returned error: %v", errRes)
	}

	text := resultText(t, result)
	for _, want := range []string{`"comparison"`, `"prompt"`, `"markdown"`} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %s in result", want)
		}
	}
}

func TestCallToolUnavailableGame(t *testing.T) {
	s := newTestServer(t)

	params, _ := json.Marshal(map[string]interface{}{
		"name": "analyze_game",
		"arguments": map[string]interface{}{
			"url": "https://aoe4world.com/players/1/games/999?sig=abc",
		},
	})

	if _, errRes := s.callTool(params); errRes == nil {
		t.Error("Expected error for unfetchable game")
	}
}

func TestCallToolUnknownTool(t *testing.T) {
	s := newTestServer(t)
	params, _ := json.Marshal(map[string]interface{}{"name": "launch_trebuchet"})
	if _, errRes := s.callTool(params); errRes == nil {
		t.Error("Expected error for unknown tool")
	}
}

func TestGameRefArg(t *testing.T) {
	ref, err := gameRefArg(map[string]interface{}{
		"url": "https://aoe4world.com/players/1-me/games/10?sig=abc",
	})
	if err != nil {
		t.Fatalf("gameRefArg returned error: %v", err)
	}
	if ref.ProfileID != 1 || ref.GameID != 10 || ref.Sig != "abc" {
		t.Errorf("Unexpected ref from URL: %+v", ref)
	}

	// JSON numbers decode as float64; the triple must still resolve.
	ref, err = gameRefArg(map[string]interface{}{
		"profile_id": float64(1), "game_id": float64(10), "sig": "s",
	})
	if err != nil {
		t.Fatalf("gameRefArg returned error: %v", err)
	}
	if ref.ProfileID != 1 || ref.GameID != 10 || ref.Sig != "s" {
		t.Errorf("Unexpected ref from ids: %+v", ref)
	}

	if _, err := gameRefArg(map[string]interface{}{"profile_id": float64(1)}); err == nil {
		t.Error("Expected error when game_id is missing")
	}
}

func resultText(t *testing.T, result interface{}) string {
	t.Helper()
	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Unexpected result shape: %T", result)
	}
	content := m["content"].([]interface{})
	entry := content[0].(map[string]interface{})
	return entry["text"].(string)
}
