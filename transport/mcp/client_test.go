package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
	"github.com/mark3labs/mcp-go/mcp"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"sessionID": "ABC123",
		"userID":    "user_1_TEST",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["sessionID"] != expectedResponse["sessionID"] {
		t.Errorf("Expected sessionID %v, got %v", expectedResponse["sessionID"], response["sessionID"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api/sessions", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "session not found",
			"reason": "SESSION_NOT_FOUND",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/sessions/ZZZZZZ/state", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}
	if !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected API error message to surface, got: %v", err)
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := session.CreateResult{
			SessionID: "POKER1",
			UserID:    "user_1_FACIL",
			State: &session.State{
				SessionID:     "POKER1",
				FacilitatorID: "user_1_FACIL",
				DeckName:      "fibonacci",
				Users: map[string]session.User{
					"user_1_FACIL": {UserID: "user_1_FACIL", DisplayName: "Alice", Role: session.RoleFacilitator},
				},
				Votes: map[string]string{},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{"display_name": "Alice"},
		},
	}

	result, err := client.handleCreateSession(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "POKER1") {
		t.Errorf("Expected session code in result, got: %s", text.Text)
	}
	if !strings.Contains(text.Text, "user_1_FACIL") {
		t.Errorf("Expected user ID in result, got: %s", text.Text)
	}
}

func TestClient_handleCastVote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/POKER1/vote" {
			t.Errorf("Expected POST /api/sessions/POKER1/vote, got %s %s", r.Method, r.URL.Path)
		}

		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["card_value"] != "5" {
			t.Errorf("Expected card_value 5, got %q", req["card_value"])
		}

		resp := map[string]interface{}{
			"success": true,
			"state": session.State{
				SessionID:  "POKER1",
				IsRevealed: true,
				Users: map[string]session.User{
					"user_2_BOB": {UserID: "user_2_BOB", DisplayName: "Bob", Role: session.RoleVoter, HasVoted: true},
				},
				Votes: map[string]string{"user_2_BOB": "5"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "cast_vote",
			Arguments: map[string]interface{}{
				"session_id": "POKER1",
				"user_id":    "user_2_BOB",
				"card_value": "5",
			},
		},
	}

	result, err := client.handleCastVote(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCastVote failed: %v", err)
	}

	text := result.Content[0].(mcp.TextContent)
	if !strings.Contains(text.Text, "revealed") {
		t.Errorf("Expected reveal notice in result, got: %s", text.Text)
	}
}

func TestFormatState(t *testing.T) {
	state := &session.State{
		SessionID:     "POKER1",
		FacilitatorID: "user_1_A",
		DeckName:      "fibonacci",
		CurrentStory:  "Fix bug",
		IsRevealed:    false,
		Users: map[string]session.User{
			"user_1_A": {UserID: "user_1_A", DisplayName: "Alice", Role: session.RoleFacilitator},
			"user_2_B": {UserID: "user_2_B", DisplayName: "Bob", Role: session.RoleVoter, HasVoted: true},
			"user_3_C": {UserID: "user_3_C", DisplayName: "Carol", Role: session.RoleVoter},
		},
		Votes: map[string]string{"user_2_B": "5"},
		History: []session.Story{
			{
				StoryText:  "Done already",
				Results:    session.Results{Min: 3, Max: 8, Average: 5.5, Votes: []session.VoteRecord{{}, {}}},
				ArchivedAt: time.Now(),
			},
		},
	}

	result := formatState(state)

	expectedFields := []string{
		"Session POKER1",
		"Story: Fix bug",
		"Alice [FACILITATOR]",
		"Bob [VOTER] (voted)",
		"Carol [VOTER] (waiting)",
		"Done already",
		"avg=5.50",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected %q in formatted output, got:\n%s", field, result)
		}
	}

	// Votes stay hidden in the text rendering until reveal
	if strings.Contains(result, "card=5") {
		t.Errorf("Unrevealed vote value should not be rendered, got:\n%s", result)
	}

	state.IsRevealed = true
	result = formatState(state)
	if !strings.Contains(result, "card=5") {
		t.Errorf("Revealed vote should be rendered, got:\n%s", result)
	}
	if !strings.Contains(result, "Carol [VOTER] (no vote)") {
		t.Errorf("Missing no-vote marker after reveal, got:\n%s", result)
	}
}
