package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/MichaelHabermas/Planning-Poker/poker/service"
	"github.com/MichaelHabermas/Planning-Poker/poker/session"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	service service.PokerService
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(pokerService service.PokerService) *Server {
	s := &Server{
		service: pokerService,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}/join", s.handleJoinSession).Methods("POST")
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")

	// Round operations
	api.HandleFunc("/sessions/{id}/vote", s.handleVote).Methods("POST")
	api.HandleFunc("/sessions/{id}/story", s.handleSetStory).Methods("POST")
	api.HandleFunc("/sessions/{id}/reveal", s.handleReveal).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleResetRound).Methods("POST")
	api.HandleFunc("/sessions/{id}/archive", s.handleArchiveStory).Methods("POST")

	// Decks
	api.HandleFunc("/decks", s.handleListDecks).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondOperationError maps a service failure onto its reason code and
// matching HTTP status.
func respondOperationError(w http.ResponseWriter, err error) {
	reason := service.ReasonForError(err)

	status := http.StatusBadRequest
	switch reason {
	case service.ReasonSessionNotFound, service.ReasonUserNotFound:
		status = http.StatusNotFound
	case service.ReasonForbiddenRole:
		status = http.StatusForbidden
	}

	respondJSON(w, status, map[string]string{
		"error":  err.Error(),
		"reason": string(reason),
	})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{
		"error":  message,
		"reason": string(service.ReasonInvalidInput),
	})
}

// stateResponse is the common mutation response body.
type stateResponse struct {
	Success bool           `json:"success"`
	State   *session.State `json:"state"`
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
		Deck        string `json:"deck,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	created, err := s.service.CreateSession(r.Context(), req.DisplayName, req.Deck)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	log.Printf("[CREATE] session=%s facilitator=%s deck=%s", created.SessionID, created.UserID, created.State.DeckName)

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondOperationError(w, err)
		return
	}

	// Most recently active first
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		DisplayName string `json:"display_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	joined, err := s.service.JoinSession(r.Context(), sessionID, req.DisplayName)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	log.Printf("[JOIN] session=%s user=%s participants=%d", sessionID, joined.UserID, len(joined.State.Users))

	respondJSON(w, http.StatusOK, joined)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	userID := r.URL.Query().Get("user")

	state, err := s.service.GetState(r.Context(), sessionID, userID)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]*session.State{"state": state})
}

// Round Operation Handlers

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		UserID    string `json:"user_id"`
		CardValue string `json:"card_value"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	state, err := s.service.CastVote(r.Context(), sessionID, req.UserID, req.CardValue)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	log.Printf("[VOTE] session=%s user=%s voted=%d/%d revealed=%v",
		sessionID, req.UserID, len(state.Votes), voterCount(state), state.IsRevealed)

	respondJSON(w, http.StatusOK, stateResponse{Success: true, State: state})
}

func (s *Server) handleSetStory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		UserID    string `json:"user_id"`
		StoryText string `json:"story_text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	state, err := s.service.SetStory(r.Context(), sessionID, req.UserID, req.StoryText)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateResponse{Success: true, State: state})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req, ok := decodeUserRequest(w, r)
	if !ok {
		return
	}

	state, err := s.service.RevealCards(r.Context(), sessionID, req.UserID)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	log.Printf("[REVEAL] session=%s votes=%d", sessionID, len(state.Votes))

	respondJSON(w, http.StatusOK, stateResponse{Success: true, State: state})
}

func (s *Server) handleResetRound(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req, ok := decodeUserRequest(w, r)
	if !ok {
		return
	}

	state, err := s.service.ResetRound(r.Context(), sessionID, req.UserID)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateResponse{Success: true, State: state})
}

func (s *Server) handleArchiveStory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req, ok := decodeUserRequest(w, r)
	if !ok {
		return
	}

	state, err := s.service.ArchiveStory(r.Context(), sessionID, req.UserID)
	if err != nil {
		respondOperationError(w, err)
		return
	}

	log.Printf("[ARCHIVE] session=%s stories=%d", sessionID, len(state.History))

	respondJSON(w, http.StatusOK, stateResponse{Success: true, State: state})
}

// Deck Handlers

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.service.ListDecks(r.Context())
	if err != nil {
		respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(decks),
		"decks": decks,
	})
}

// userRequest is the body shared by reveal/reset/archive.
type userRequest struct {
	UserID string `json:"user_id"`
}

func decodeUserRequest(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return req, false
	}
	return req, true
}

func voterCount(state *session.State) int {
	count := 0
	for _, u := range state.Users {
		if u.Role == session.RoleVoter {
			count++
		}
	}
	return count
}
