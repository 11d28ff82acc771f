package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
)

// pokerServiceImpl implements the PokerService interface on top of the
// session coordinator and the deck catalog.
type pokerServiceImpl struct {
	store SessionStore
	decks DeckCatalog
}

// NewPokerService creates a new poker service instance.
func NewPokerService(store SessionStore, decks DeckCatalog) PokerService {
	return &pokerServiceImpl{
		store: store,
		decks: decks,
	}
}

// CreateSession allocates a new session with the caller as facilitator.
// An empty deck name selects the catalog default.
func (s *pokerServiceImpl) CreateSession(ctx context.Context, displayName, deckName string) (*session.CreateResult, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	deck := s.decks.Default()
	if deckName != "" {
		var err error
		deck, err = s.decks.GetDeck(deckName)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, deckName)
		}
	}

	return s.store.Create(displayName, deck.Name), nil
}

// JoinSession adds the caller to an existing session as a voter.
func (s *pokerServiceImpl) JoinSession(ctx context.Context, sessionID, displayName string) (*session.JoinResult, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	return s.store.Join(sessionID, displayName)
}

// GetState returns a snapshot. A non-empty userID that resolves to a member
// also refreshes that member's last-seen; polling this operation is how
// presence is signaled.
func (s *pokerServiceImpl) GetState(ctx context.Context, sessionID, userID string) (*session.State, error) {
	return s.store.GetState(sessionID, userID)
}

// CastVote records a card for a voter. The card must belong to the
// session's deck; the coordinator itself stores tokens opaquely, so this is
// the one place membership is enforced.
func (s *pokerServiceImpl) CastVote(ctx context.Context, sessionID, userID, cardValue string) (*session.State, error) {
	state, err := s.store.GetState(sessionID, "")
	if err != nil {
		return nil, err
	}

	if deck, deckErr := s.decks.GetDeck(state.DeckName); deckErr == nil {
		if !deck.Contains(cardValue) {
			return nil, fmt.Errorf("%w: %q not in deck %q", ErrCardNotInDeck, cardValue, deck.Name)
		}
	}

	return s.store.Vote(sessionID, userID, cardValue)
}

// SetStory replaces the current story text (facilitator only).
func (s *pokerServiceImpl) SetStory(ctx context.Context, sessionID, userID, storyText string) (*session.State, error) {
	return s.store.SetStory(sessionID, userID, storyText)
}

// RevealCards exposes the current votes (facilitator only, idempotent).
func (s *pokerServiceImpl) RevealCards(ctx context.Context, sessionID, userID string) (*session.State, error) {
	return s.store.Reveal(sessionID, userID)
}

// ResetRound clears the votes but keeps the story (facilitator only).
func (s *pokerServiceImpl) ResetRound(ctx context.Context, sessionID, userID string) (*session.State, error) {
	return s.store.ResetRound(sessionID, userID)
}

// ArchiveStory closes a revealed round into history (facilitator only).
func (s *pokerServiceImpl) ArchiveStory(ctx context.Context, sessionID, userID string) (*session.State, error) {
	return s.store.ArchiveStory(sessionID, userID)
}

// ListSessions returns an overview of every session in the process.
func (s *pokerServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	states := s.store.List()

	infos := make([]*SessionInfo, 0, len(states))
	for _, state := range states {
		infos = append(infos, &SessionInfo{
			SessionID:    state.SessionID,
			DeckName:     state.DeckName,
			CurrentStory: state.CurrentStory,
			IsRevealed:   state.IsRevealed,
			Participants: len(state.Users),
			Archived:     len(state.History),
			LastActivity: state.LastActivity,
		})
	}
	return infos, nil
}

// ListDecks returns the deck catalog.
func (s *pokerServiceImpl) ListDecks(ctx context.Context) ([]*DeckInfo, error) {
	return s.decks.ListDecks()
}
