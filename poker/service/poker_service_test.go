package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
)

// testCatalog is a minimal in-memory DeckCatalog.
type testCatalog struct {
	decks map[string]*Deck
}

func newTestCatalog() *testCatalog {
	return &testCatalog{decks: map[string]*Deck{
		"fibonacci": {
			Name:   "fibonacci",
			Values: []string{"0", "1", "2", "3", "5", "8", "13", session.CardInfinity, session.CardUnknown},
		},
		"tshirt": {
			Name:   "tshirt",
			Values: []string{"XS", "S", "M", "L", "XL"},
		},
	}}
}

func (c *testCatalog) GetDeck(name string) (*Deck, error) {
	if d, ok := c.decks[name]; ok {
		return d, nil
	}
	return nil, ErrDeckNotFound
}

func (c *testCatalog) ListDecks() ([]*DeckInfo, error) {
	infos := make([]*DeckInfo, 0, len(c.decks))
	for id, d := range c.decks {
		infos = append(infos, &DeckInfo{DeckID: id, Name: d.Name, Values: d.Values})
	}
	return infos, nil
}

func (c *testCatalog) Default() *Deck {
	return c.decks["fibonacci"]
}

func newTestService() PokerService {
	return NewPokerService(session.NewStore(), newTestCatalog())
}

func TestPokerService_CreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("default deck", func(t *testing.T) {
		created, err := svc.CreateSession(ctx, "Alice", "")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if created.State.DeckName != "fibonacci" {
			t.Errorf("expected default deck, got %q", created.State.DeckName)
		}
	})

	t.Run("named deck", func(t *testing.T) {
		created, err := svc.CreateSession(ctx, "Alice", "tshirt")
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if created.State.DeckName != "tshirt" {
			t.Errorf("expected tshirt deck, got %q", created.State.DeckName)
		}
	})

	t.Run("unknown deck", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "Alice", "tarot")
		if !errors.Is(err, ErrDeckNotFound) {
			t.Fatalf("expected ErrDeckNotFound, got %v", err)
		}
		if ReasonForError(err) != ReasonInvalidInput {
			t.Errorf("unknown deck should classify as INVALID_INPUT")
		}
	})

	t.Run("blank display name", func(t *testing.T) {
		if _, err := svc.CreateSession(ctx, "   ", ""); !errors.Is(err, ErrEmptyDisplayName) {
			t.Errorf("expected ErrEmptyDisplayName, got %v", err)
		}
	})
}

func TestPokerService_JoinSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.CreateSession(ctx, "Alice", "")

	t.Run("join succeeds", func(t *testing.T) {
		joined, err := svc.JoinSession(ctx, created.SessionID, "Bob")
		if err != nil {
			t.Fatalf("JoinSession failed: %v", err)
		}
		if joined.State.Users[joined.UserID].Role != session.RoleVoter {
			t.Error("joined user should be a voter")
		}
	})

	t.Run("blank display name", func(t *testing.T) {
		if _, err := svc.JoinSession(ctx, created.SessionID, ""); !errors.Is(err, ErrEmptyDisplayName) {
			t.Errorf("expected ErrEmptyDisplayName, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.JoinSession(ctx, "ZZZZZZ", "Bob")
		if ReasonForError(err) != ReasonSessionNotFound {
			t.Errorf("expected SESSION_NOT_FOUND, got %v", ReasonForError(err))
		}
	})
}

func TestPokerService_CastVote(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.CreateSession(ctx, "Alice", "")
	bob, _ := svc.JoinSession(ctx, created.SessionID, "Bob")

	t.Run("card outside deck rejected", func(t *testing.T) {
		_, err := svc.CastVote(ctx, created.SessionID, bob.UserID, "42")
		if !errors.Is(err, ErrCardNotInDeck) {
			t.Fatalf("expected ErrCardNotInDeck, got %v", err)
		}
		state, _ := svc.GetState(ctx, created.SessionID, "")
		if len(state.Votes) != 0 {
			t.Error("rejected vote must not be recorded")
		}
	})

	t.Run("special tokens accepted", func(t *testing.T) {
		state, err := svc.CastVote(ctx, created.SessionID, bob.UserID, session.CardInfinity)
		if err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
		if state.Votes[bob.UserID] != session.CardInfinity {
			t.Errorf("expected %q vote, got %q", session.CardInfinity, state.Votes[bob.UserID])
		}
	})

	t.Run("facilitator vote forbidden", func(t *testing.T) {
		_, err := svc.CastVote(ctx, created.SessionID, created.UserID, "5")
		if ReasonForError(err) != ReasonForbiddenRole {
			t.Errorf("expected FORBIDDEN_ROLE, got %v", ReasonForError(err))
		}
	})
}

func TestPokerService_RoundFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.CreateSession(ctx, "Alice", "")
	bob, _ := svc.JoinSession(ctx, created.SessionID, "Bob")

	if _, err := svc.SetStory(ctx, created.SessionID, created.UserID, "Fix bug"); err != nil {
		t.Fatalf("SetStory failed: %v", err)
	}

	state, err := svc.CastVote(ctx, created.SessionID, bob.UserID, "5")
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if !state.IsRevealed {
		t.Fatal("sole voter should trigger auto-reveal")
	}

	state, err = svc.ArchiveStory(ctx, created.SessionID, created.UserID)
	if err != nil {
		t.Fatalf("ArchiveStory failed: %v", err)
	}
	if len(state.History) != 1 || state.CurrentStory != "" {
		t.Error("archive should append one story and clear the current one")
	}

	// A second archive on the fresh round fails: no story, not revealed.
	_, err = svc.ArchiveStory(ctx, created.SessionID, created.UserID)
	if err == nil {
		t.Fatal("archiving an empty round should fail")
	}
	if ReasonForError(err) != ReasonInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", ReasonForError(err))
	}
}

func TestPokerService_ListSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "Alice", "")
	svc.CreateSession(ctx, "Bob", "tshirt")
	svc.JoinSession(ctx, a.SessionID, "Carol")

	infos, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}

	var found bool
	for _, info := range infos {
		if info.SessionID == a.SessionID {
			found = true
			if info.Participants != 2 {
				t.Errorf("expected 2 participants, got %d", info.Participants)
			}
		}
	}
	if !found {
		t.Error("created session missing from listing")
	}
}

func TestReasonForError(t *testing.T) {
	tests := []struct {
		err  error
		want Reason
	}{
		{session.ErrSessionNotFound, ReasonSessionNotFound},
		{session.ErrUserNotFound, ReasonUserNotFound},
		{session.ErrForbiddenRole, ReasonForbiddenRole},
		{session.ErrStoryTooLong, ReasonInvalidInput},
		{session.ErrNoActiveStory, ReasonInvalidInput},
		{session.ErrNotRevealed, ReasonInvalidInput},
		{ErrEmptyDisplayName, ReasonInvalidInput},
		{ErrCardNotInDeck, ReasonInvalidInput},
	}
	for _, tt := range tests {
		if got := ReasonForError(tt.err); got != tt.want {
			t.Errorf("ReasonForError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
