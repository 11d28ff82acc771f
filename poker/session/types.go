package session

import (
	"strconv"
	"time"
)

// Role determines which operations a participant may perform. It is fixed
// at join time and never changes.
type Role string

const (
	RoleFacilitator Role = "FACILITATOR"
	RoleVoter       Role = "VOTER"
	RoleObserver    Role = "OBSERVER"
)

// Non-numeric card tokens. They are recorded in the vote roster but excluded
// from min/max/average when a story is archived.
const (
	CardInfinity = "∞"
	CardUnknown  = "?"
)

// User is a session participant.
type User struct {
	UserID      string    `json:"userID"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	HasVoted    bool      `json:"hasVoted"`
	LastSeen    time.Time `json:"lastSeen"`
}

// VoteRecord is one participant's card in an archived story.
type VoteRecord struct {
	UserID      string `json:"userID"`
	DisplayName string `json:"displayName"`
	CardValue   string `json:"cardValue"`
}

// Results summarizes an archived round. Min, Max, and Average cover numeric
// votes only; Votes lists every card that was cast, including "∞" and "?".
type Results struct {
	Min     float64      `json:"min"`
	Max     float64      `json:"max"`
	Average float64      `json:"average"`
	Votes   []VoteRecord `json:"votes"`
}

// Story is one archived round. It is immutable once appended to a session's
// history.
type Story struct {
	StoryText  string    `json:"storyText"`
	Results    Results   `json:"results"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// State is a point-in-time snapshot of one session. Every map and slice is
// an independent copy; mutating a State never touches coordinator state.
type State struct {
	SessionID     string            `json:"sessionID"`
	FacilitatorID string            `json:"facilitatorID"`
	DeckName      string            `json:"deckName"`
	CurrentStory  string            `json:"currentStory"`
	IsRevealed    bool              `json:"isRevealed"`
	Users         map[string]User   `json:"users"`
	Votes         map[string]string `json:"votes"`
	History       []Story           `json:"history"`
	LastActivity  time.Time         `json:"lastActivity"`
}

// record is the internal, mutable form of a session. It is only ever
// touched while its mutex is held (see Store).
type record struct {
	sessionID     string
	facilitatorID string
	deckName      string
	currentStory  string
	isRevealed    bool
	users         map[string]*User
	votes         map[string]string
	history       []Story
	lastActivity  time.Time
}

// snapshot produces a State sharing no mutable backing storage with the
// record. Callers must hold the record's lock.
func (r *record) snapshot() *State {
	users := make(map[string]User, len(r.users))
	for id, u := range r.users {
		users[id] = *u
	}

	votes := make(map[string]string, len(r.votes))
	for id, card := range r.votes {
		votes[id] = card
	}

	history := make([]Story, len(r.history))
	copy(history, r.history)

	return &State{
		SessionID:     r.sessionID,
		FacilitatorID: r.facilitatorID,
		DeckName:      r.deckName,
		CurrentStory:  r.currentStory,
		IsRevealed:    r.isRevealed,
		Users:         users,
		Votes:         votes,
		History:       history,
		LastActivity:  r.lastActivity,
	}
}

// NumericValue parses a card token for aggregation. The second return is
// false for "∞", "?", and anything else that is not a number.
func NumericValue(card string) (float64, bool) {
	if card == CardInfinity || card == CardUnknown {
		return 0, false
	}
	v, err := strconv.ParseFloat(card, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
