package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"aoe4coach/internal/aoe4world"
	"aoe4coach/internal/coach"
	"aoe4coach/internal/report"

	"github.com/rs/zerolog/log"
)

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server exposes the coaching pipeline as MCP tools so an LLM client
// can drive the analysis and write the narrative itself.
type Server struct {
	coach    *coach.Coach
	client   aoe4world.Client
	renderer *report.Renderer
}

// NewServer creates a new MCP server.
func NewServer(c *coach.Coach, client aoe4world.Client, renderer *report.Renderer) *Server {
	return &Server{coach: c, client: client, renderer: renderer}
}

// Serve starts the JSON-RPC loop over Stdio.
func (s *Server) Serve() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "aoe4coach",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(os.Stdout, "%s\n", out)
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	var data interface{}
	var err error

	switch call.Name {
	case "list_player_games":
		data, err = s.handleListGames(call.Arguments)
	case "find_reference_games":
		data, err = s.handleFindReferences(call.Arguments)
	case "analyze_game":
		data, err = s.handleAnalyzeGame(call.Arguments)
	case "compare_with_references":
		data, err = s.handleCompare(call.Arguments)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func (s *Server) handleListGames(args map[string]interface{}) (interface{}, error) {
	profileID, err := intArg(args, "profile_id", true)
	if err != nil {
		return nil, err
	}
	civ, _ := args["civilization"].(string)
	limit, _ := intArg(args, "limit", false)

	games, total, err := s.client.ListGames(profileID, civ, limit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"total": total, "games": games}, nil
}

func (s *Server) handleFindReferences(args map[string]interface{}) (interface{}, error) {
	profileID, err := intArg(args, "profile_id", true)
	if err != nil {
		return nil, err
	}
	civ, _ := args["civilization"].(string)
	return s.coach.FindReferenceGames(profileID, civ)
}

func (s *Server) handleAnalyzeGame(args map[string]interface{}) (interface{}, error) {
	ref, err := gameRefArg(args)
	if err != nil {
		return nil, err
	}
	return s.coach.AnalyzeGame(ref)
}

func (s *Server) handleCompare(args map[string]interface{}) (interface{}, error) {
	ref, err := gameRefArg(args)
	if err != nil {
		return nil, err
	}

	rawRefs, _ := args["reference_urls"].([]interface{})
	var refs []aoe4world.GameRef
	for _, raw := range rawRefs {
		u, ok := raw.(string)
		if !ok {
			continue
		}
		r, err := aoe4world.ParseGameURL(u)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}

	cmp, err := s.coach.CompareWithReferences(ref, refs)
	if err != nil {
		return nil, err
	}

	// Hand the LLM the ready-made prompt alongside the raw numbers so
	// it can quote exact figures.
	return map[string]interface{}{
		"comparison": cmp,
		"markdown":   s.renderer.Markdown(cmp),
		"prompt":     report.BuildCoachingPrompt(cmp),
	}, nil
}

// gameRefArg accepts either a full AoE4 World game URL or the explicit
// profile_id/game_id/sig triple.
func gameRefArg(args map[string]interface{}) (aoe4world.GameRef, error) {
	if rawURL, ok := args["url"].(string); ok && rawURL != "" {
		return aoe4world.ParseGameURL(rawURL)
	}

	profileID, err := intArg(args, "profile_id", true)
	if err != nil {
		return aoe4world.GameRef{}, err
	}
	gameID, err := intArg(args, "game_id", true)
	if err != nil {
		return aoe4world.GameRef{}, err
	}
	sig, _ := args["sig"].(string)

	return aoe4world.GameRef{ProfileID: profileID, GameID: gameID, Sig: sig}, nil
}

func intArg(args map[string]interface{}, key string, required bool) (int, error) {
	val, ok := args[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required argument %q", key)
		}
		return 0, nil
	}
	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
	return int(f), nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
