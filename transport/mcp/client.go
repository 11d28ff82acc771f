package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MichaelHabermas/Planning-Poker/poker/service"
	"github.com/MichaelHabermas/Planning-Poker/poker/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Planning Poker",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Planning Poker - MCP Interface

This is a thin client that proxies all requests to the REST API server.

HOW A SESSION WORKS:
A facilitator creates a session and shares its 6-character code. Voters join
with the code, the facilitator sets a story, voters pick cards, and the round
reveals automatically once every voter has voted (the facilitator can also
reveal early). A revealed round with a story can be archived into history,
which clears the table for the next story.

ROLES:
- FACILITATOR: sets the story, reveals, resets, archives. Cannot vote.
- VOTER: casts one card per round, may change it until reveal.

AVAILABLE TOOLS:
- create_session: Start a session (you become facilitator)
- join_session: Join a session as a voter
- session_state: Fetch the current snapshot (also signals you are present)
- cast_vote: Cast or change your card
- set_story: Set the story under estimation
- reveal_cards: Expose all votes
- reset_round: Clear votes, keep the story
- archive_story: Close a revealed round into history
- list_sessions: Overview of all sessions
- list_decks: Available card decks

NOTE: Sessions drop participants that stay silent for about a minute, so
poll session_state regularly while you are at the table.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new planning poker session; the caller becomes the facilitator",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"display_name": map[string]interface{}{
					"type":        "string",
					"description": "Your display name",
				},
				"deck": map[string]interface{}{
					"type":        "string",
					"description": "Deck to vote with (optional, defaults to fibonacci)",
				},
			},
			Required: []string{"display_name"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_session",
		Description: "Join an existing session as a voter",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "6-character session code (any casing)",
				},
				"display_name": map[string]interface{}{
					"type":        "string",
					"description": "Your display name",
				},
			},
			Required: []string{"session_id", "display_name"},
		},
	}, c.handleJoinSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_state",
		Description: "Get the current session snapshot; passing your user_id also marks you as present",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session code",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user ID (optional; include it so you are not swept as idle)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSessionState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_decks",
		Description: "List available card decks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDecks)

	// Round operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cast_vote",
		Description: "Cast or change your card for the current round (voters only)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session code",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user ID",
				},
				"card_value": map[string]interface{}{
					"type":        "string",
					"description": "Card token from the session's deck, e.g. \"5\" or \"∞\"",
				},
			},
			Required: []string{"session_id", "user_id", "card_value"},
		},
	}, c.handleCastVote)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_story",
		Description: "Set the story under estimation (facilitator only, max 255 characters)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session code",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user ID",
				},
				"story_text": map[string]interface{}{
					"type":        "string",
					"description": "Story description",
				},
			},
			Required: []string{"session_id", "user_id", "story_text"},
		},
	}, c.handleSetStory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal_cards",
		Description: "Reveal all votes (facilitator only, idempotent)",
		InputSchema: facilitatorActionSchema(),
	}, c.handleRevealCards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_round",
		Description: "Clear all votes and hide the cards again; the story is kept (facilitator only)",
		InputSchema: facilitatorActionSchema(),
	}, c.handleResetRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "archive_story",
		Description: "Archive a revealed round into history and start a fresh one (facilitator only)",
		InputSchema: facilitatorActionSchema(),
	}, c.handleArchiveStory)
}

// facilitatorActionSchema is the shared input schema for reveal/reset/archive.
func facilitatorActionSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session code",
			},
			"user_id": map[string]interface{}{
				"type":        "string",
				"description": "Your user ID (must be the facilitator)",
			},
		},
		Required: []string{"session_id", "user_id"},
	}
}

// GetMCPServer exposes the underlying MCP server for HTTP/stdio mounting.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	displayName, _ := args["display_name"].(string)
	deck, _ := args["deck"].(string)

	body := map[string]interface{}{
		"display_name": displayName,
		"deck":         deck,
	}

	var result session.CreateResult
	if err := c.apiCall("POST", "/api/sessions", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Session created.\nSession code: %s\nYour user ID: %s (role FACILITATOR)\n\n%s",
		result.SessionID, result.UserID, formatState(result.State))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleJoinSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	displayName, _ := args["display_name"].(string)

	body := map[string]interface{}{
		"display_name": displayName,
	}

	var result session.JoinResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/join", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Joined session %s.\nYour user ID: %s (role VOTER)\n\n%s",
		result.State.SessionID, result.UserID, formatState(result.State))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSessionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)

	path := fmt.Sprintf("/api/sessions/%s/state", sessionID)
	if userID != "" {
		path += "?user=" + userID
	}

	var response struct {
		State *session.State `json:"state"`
	}
	if err := c.apiCall("GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(response.State)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active sessions."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active sessions (%d):\n", response.Count)
	for _, info := range response.Sessions {
		story := info.CurrentStory
		if story == "" {
			story = "(no story)"
		}
		fmt.Fprintf(&sb, "- %s deck=%s participants=%d archived=%d revealed=%v story=%q\n",
			info.SessionID, info.DeckName, info.Participants, info.Archived, info.IsRevealed, story)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Decks []*service.DeckInfo `json:"decks"`
	}
	if err := c.apiCall("GET", "/api/decks", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Available decks (%d):\n", response.Count)
	for _, deck := range response.Decks {
		fmt.Fprintf(&sb, "- %s: %s\n  cards: %s\n", deck.DeckID, deck.Description, strings.Join(deck.Values, " "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleCastVote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)
	cardValue, _ := args["card_value"].(string)

	body := map[string]interface{}{
		"user_id":    userID,
		"card_value": cardValue,
	}

	var response struct {
		Success bool           `json:"success"`
		State   *session.State `json:"state"`
	}
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/vote", sessionID), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prefix := "Vote recorded."
	if response.State.IsRevealed {
		prefix = "Vote recorded - all voters are in, cards are revealed."
	}
	return mcp.NewToolResultText(prefix + "\n\n" + formatState(response.State)), nil
}

func (c *Client) handleSetStory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)
	storyText, _ := args["story_text"].(string)

	body := map[string]interface{}{
		"user_id":    userID,
		"story_text": storyText,
	}

	var response struct {
		Success bool           `json:"success"`
		State   *session.State `json:"state"`
	}
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/story", sessionID), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Story set.\n\n" + formatState(response.State)), nil
}

func (c *Client) handleRevealCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.facilitatorAction(request, "reveal", "Cards revealed.")
}

func (c *Client) handleResetRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.facilitatorAction(request, "reset", "Round reset - same story, fresh votes.")
}

func (c *Client) handleArchiveStory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.facilitatorAction(request, "archive", "Story archived.")
}

// facilitatorAction proxies reveal/reset/archive, which share one shape.
func (c *Client) facilitatorAction(request mcp.CallToolRequest, action, message string) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)

	body := map[string]interface{}{
		"user_id": userID,
	}

	var response struct {
		Success bool           `json:"success"`
		State   *session.State `json:"state"`
	}
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, action), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(message + "\n\n" + formatState(response.State)), nil
}

// formatState renders a snapshot as readable text for tool output.
func formatState(state *session.State) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Session %s (deck %s)\n", state.SessionID, state.DeckName)
	if state.CurrentStory != "" {
		fmt.Fprintf(&sb, "Story: %s\n", state.CurrentStory)
	} else {
		sb.WriteString("Story: (not set)\n")
	}
	fmt.Fprintf(&sb, "Revealed: %v\n", state.IsRevealed)

	// Stable participant ordering for readability
	userIDs := make([]string, 0, len(state.Users))
	for id := range state.Users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	sb.WriteString("Participants:\n")
	for _, id := range userIDs {
		user := state.Users[id]
		status := ""
		switch {
		case user.Role != session.RoleVoter:
			// Facilitators and observers have no vote status
		case state.IsRevealed:
			if card, ok := state.Votes[id]; ok {
				status = " card=" + card
			} else {
				status = " (no vote)"
			}
		case user.HasVoted:
			status = " (voted)"
		default:
			status = " (waiting)"
		}
		fmt.Fprintf(&sb, "- %s [%s]%s (id %s)\n", user.DisplayName, user.Role, status, id)
	}

	if len(state.History) > 0 {
		fmt.Fprintf(&sb, "History (%d archived):\n", len(state.History))
		for i, story := range state.History {
			fmt.Fprintf(&sb, "%d. %q min=%g max=%g avg=%.2f (%d votes)\n",
				i+1, story.StoryText, story.Results.Min, story.Results.Max,
				story.Results.Average, len(story.Results.Votes))
		}
	}

	return sb.String()
}
