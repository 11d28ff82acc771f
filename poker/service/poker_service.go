package service

import (
	"context"
	"time"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
)

// PokerService defines all session coordination operations exposed to
// transports. Every mutation returns the post-operation snapshot so callers
// observe the effect of their own call (including an auto-reveal triggered
// by the vote they just cast) without a second read.
type PokerService interface {
	// Session lifecycle
	CreateSession(ctx context.Context, displayName, deckName string) (*session.CreateResult, error)
	JoinSession(ctx context.Context, sessionID, displayName string) (*session.JoinResult, error)
	GetState(ctx context.Context, sessionID, userID string) (*session.State, error)

	// Round operations
	CastVote(ctx context.Context, sessionID, userID, cardValue string) (*session.State, error)
	SetStory(ctx context.Context, sessionID, userID, storyText string) (*session.State, error)
	RevealCards(ctx context.Context, sessionID, userID string) (*session.State, error)
	ResetRound(ctx context.Context, sessionID, userID string) (*session.State, error)
	ArchiveStory(ctx context.Context, sessionID, userID string) (*session.State, error)

	// Operational surfaces
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	ListDecks(ctx context.Context) ([]*DeckInfo, error)
}

// SessionStore defines the coordinator operations the service builds on,
// implemented by *session.Store.
type SessionStore interface {
	Create(facilitatorName, deckName string) *session.CreateResult
	Join(sessionID, displayName string) (*session.JoinResult, error)
	GetState(sessionID, userID string) (*session.State, error)
	Vote(sessionID, userID, cardValue string) (*session.State, error)
	SetStory(sessionID, userID, storyText string) (*session.State, error)
	Reveal(sessionID, userID string) (*session.State, error)
	ResetRound(sessionID, userID string) (*session.State, error)
	ArchiveStory(sessionID, userID string) (*session.State, error)
	SweepIdleUsers(inactivity time.Duration) int
	List() []*session.State
}

// DeckCatalog provides the card decks sessions vote with.
type DeckCatalog interface {
	GetDeck(name string) (*Deck, error)
	ListDecks() ([]*DeckInfo, error)
	Default() *Deck
}
