package mcp

func (s *Server) listTools() map[string]interface{} {
	return map[string]interface{}{
		"tools": []map[string]interface{}{
			{
				"name":        "list_player_games",
				"description": "Lists recent ranked games for a player, newest first. Optionally filtered by civilization.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"profile_id": map[string]interface{}{
							"type":        "number",
							"description": "AoE4 World profile id of the player",
						},
						"civilization": map[string]interface{}{
							"type":        "string",
							"description": "Civilization slug to filter by, e.g. 'english' (optional)",
						},
						"limit": map[string]interface{}{
							"type":        "number",
							"description": "Maximum number of games to return (optional)",
						},
					},
					"required": []string{"profile_id"},
				},
			},
			{
				"name":        "find_reference_games",
				"description": "Finds the player's losses against moderately higher-rated opponents. Those opponents' builds serve as realistic benchmarks for comparison.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"profile_id": map[string]interface{}{
							"type":        "number",
							"description": "AoE4 World profile id of the player",
						},
						"civilization": map[string]interface{}{
							"type":        "string",
							"description": "Civilization slug to filter by (optional)",
						},
					},
					"required": []string{"profile_id"},
				},
			},
			{
				"name":        "analyze_game",
				"description": "Analyzes one game's build order: age-up and military milestones, villager production gaps, army composition and gather rates. Accepts a full game URL (preferred, carries the sig token) or an explicit profile_id/game_id pair.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{
							"type":        "string",
							"description": "Full AoE4 World game URL including the sig query parameter",
						},
						"profile_id": map[string]interface{}{
							"type":        "number",
							"description": "Profile id, used when no url is given",
						},
						"game_id": map[string]interface{}{
							"type":        "number",
							"description": "Game id, used when no url is given",
						},
						"sig": map[string]interface{}{
							"type":        "string",
							"description": "Signature token authorizing access to the game summary (optional)",
						},
					},
				},
			},
			{
				"name":        "compare_with_references",
				"description": "Compares the player's build in one game against the opponents' builds from reference games, returning per-metric deltas with severity and a ready-made coaching prompt.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{
							"type":        "string",
							"description": "Full AoE4 World URL of the player's game to analyze",
						},
						"profile_id": map[string]interface{}{
							"type":        "number",
							"description": "Profile id, used when no url is given",
						},
						"game_id": map[string]interface{}{
							"type":        "number",
							"description": "Game id, used when no url is given",
						},
						"sig": map[string]interface{}{
							"type":        "string",
							"description": "Signature token for the player's game (optional)",
						},
						"reference_urls": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Full AoE4 World URLs of the reference games, each including its sig",
						},
					},
					"required": []string{"reference_urls"},
				},
			},
		},
	}
}
