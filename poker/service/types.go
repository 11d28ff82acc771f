package service

import (
	"errors"
	"time"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
)

// Reason is the stable failure code reported to transports.
type Reason string

const (
	ReasonSessionNotFound Reason = "SESSION_NOT_FOUND"
	ReasonUserNotFound    Reason = "USER_NOT_FOUND"
	ReasonForbiddenRole   Reason = "FORBIDDEN_ROLE"
	ReasonInvalidInput    Reason = "INVALID_INPUT"
)

// Boundary validation errors raised by this layer (the coordinator has its
// own sentinels for the invariants it owns).
var (
	ErrEmptyDisplayName = errors.New("display name must not be empty")
	ErrDeckNotFound     = errors.New("deck not found")
	ErrCardNotInDeck    = errors.New("card value is not in the session's deck")
)

// ReasonForError classifies any error produced by a PokerService operation.
// Unknown errors count as invalid input; the service never returns internal
// faults for these in-memory operations.
func ReasonForError(err error) Reason {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return ReasonSessionNotFound
	case errors.Is(err, session.ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, session.ErrForbiddenRole):
		return ReasonForbiddenRole
	default:
		return ReasonInvalidInput
	}
}

// Deck is a named set of card tokens participants may vote with.
type Deck struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Values      []string `json:"values"`
}

// Contains reports whether card is one of the deck's tokens.
func (d *Deck) Contains(card string) bool {
	for _, v := range d.Values {
		if v == card {
			return true
		}
	}
	return false
}

// DeckInfo describes an available deck for listing endpoints.
type DeckInfo struct {
	DeckID      string   `json:"deck_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Values      []string `json:"values"`
	BuiltIn     bool     `json:"built_in"`
}

// SessionInfo is the overview row returned by ListSessions. It carries no
// per-user detail; callers wanting the full picture fetch the state.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	DeckName     string    `json:"deck_name"`
	CurrentStory string    `json:"current_story"`
	IsRevealed   bool      `json:"is_revealed"`
	Participants int       `json:"participants"`
	Archived     int       `json:"archived"`
	LastActivity time.Time `json:"last_activity"`
}
