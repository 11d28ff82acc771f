package session

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// MaxStoryLength is the hard limit on story text, applied by the store
// itself regardless of upstream validation.
const MaxStoryLength = 255

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbiddenRole   = errors.New("role does not permit this operation")
	ErrStoryTooLong    = errors.New("story text exceeds 255 characters")
	ErrNoActiveStory   = errors.New("no story set for the current round")
	ErrNotRevealed     = errors.New("round has not been revealed")
)

// Store coordinates all planning poker sessions in the process.
//
// The sessions table is guarded by mu; each record carries its own mutex
// held for one read-modify-write at a time. The clock and both ID
// generators are injectable for tests.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*lockedRecord

	now          func() time.Time
	newSessionID func() string
	newUserID    func() string
}

type lockedRecord struct {
	mu sync.Mutex
	record
}

// NewStore creates a session coordinator with the default clock and ID
// generators.
func NewStore() *Store {
	return &Store{
		sessions:     make(map[string]*lockedRecord),
		now:          time.Now,
		newSessionID: generateSessionID,
		newUserID:    generateUserID,
	}
}

// NewStoreWithClock creates a coordinator with an injected wall-clock
// source, used by tests to steer last-seen and archival timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.now = now
	return s
}

// CreateResult is returned by Create: the allocated identifiers plus the
// initial snapshot.
type CreateResult struct {
	SessionID string `json:"sessionID"`
	UserID    string `json:"userID"`
	State     *State `json:"state"`
}

// JoinResult is returned by Join.
type JoinResult struct {
	UserID string `json:"userID"`
	State  *State `json:"state"`
}

// canonicalID maps any casing of a session code onto the stored form.
// Codes are stored uppercase.
func canonicalID(id string) string {
	return strings.ToUpper(id)
}

// get locates a session record without locking it.
func (s *Store) get(sessionID string) (*lockedRecord, bool) {
	s.mu.RLock()
	rec, ok := s.sessions[canonicalID(sessionID)]
	s.mu.RUnlock()
	return rec, ok
}

// Create allocates a new session with the given user as facilitator and
// sole member. The deck name is opaque to the coordinator; the boundary
// layer decides whether to enforce card membership against it.
func (s *Store) Create(facilitatorName, deckName string) *CreateResult {
	now := s.now()
	userID := s.newUserID()

	facilitator := &User{
		UserID:      userID,
		DisplayName: facilitatorName,
		Role:        RoleFacilitator,
		LastSeen:    now,
	}

	s.mu.Lock()
	sessionID := canonicalID(s.newSessionID())
	rec := &lockedRecord{record: record{
		sessionID:     sessionID,
		facilitatorID: userID,
		deckName:      deckName,
		users:         map[string]*User{userID: facilitator},
		votes:         make(map[string]string),
		lastActivity:  now,
	}}
	s.sessions[sessionID] = rec
	s.mu.Unlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return &CreateResult{SessionID: sessionID, UserID: userID, State: rec.snapshot()}
}

// Join adds a new voter to an existing session.
func (s *Store) Join(sessionID, displayName string) (*JoinResult, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	userID := s.newUserID()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.users[userID] = &User{
		UserID:      userID,
		DisplayName: displayName,
		Role:        RoleVoter,
		LastSeen:    now,
	}
	rec.lastActivity = now

	return &JoinResult{UserID: userID, State: rec.snapshot()}, nil
}

// GetState returns a snapshot of the session. When userID resolves to a
// member, that member's last-seen and the session's last-activity are
// updated as a documented side effect: clients poll this operation, so
// reading doubles as the presence heartbeat.
func (s *Store) GetState(sessionID, userID string) (*State, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if userID != "" {
		if user, ok := rec.users[userID]; ok {
			now := s.now()
			user.LastSeen = now
			rec.lastActivity = now
		}
	}

	return rec.snapshot(), nil
}

// Vote records a card for a voter, last write wins. After the write, if
// every current voter has an entry in votes, the round auto-reveals in the
// same critical section.
func (s *Store) Vote(sessionID, userID, cardValue string) (*State, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	user, ok := rec.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.Role != RoleVoter {
		return nil, ErrForbiddenRole
	}

	now := s.now()
	rec.votes[userID] = cardValue
	user.HasVoted = true
	user.LastSeen = now
	rec.lastActivity = now

	// Auto-reveal once every voter has a vote on record. This must happen
	// under the same lock as the write above so that two concurrent last
	// voters cannot both see an incomplete round.
	if rec.allVotersVoted() {
		rec.isRevealed = true
	}

	return rec.snapshot(), nil
}

// allVotersVoted reports whether every VOTER has an entry in votes.
// Vacuously true with zero voters.
func (r *record) allVotersVoted() bool {
	for id, u := range r.users {
		if u.Role != RoleVoter {
			continue
		}
		if _, voted := r.votes[id]; !voted {
			return false
		}
	}
	return true
}

// SetStory replaces the current story text. Facilitator only. The story may
// change mid-round; existing votes are deliberately left alone.
func (s *Store) SetStory(sessionID, userID, storyText string) (*State, error) {
	if utf8.RuneCountInString(storyText) > MaxStoryLength {
		return nil, ErrStoryTooLong
	}

	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := rec.requireFacilitator(userID); err != nil {
		return nil, err
	}

	rec.currentStory = storyText
	rec.lastActivity = s.now()

	return rec.snapshot(), nil
}

// Reveal exposes all current votes. Facilitator only. Revealing an
// already-revealed round is a no-op success.
func (s *Store) Reveal(sessionID, userID string) (*State, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := rec.requireFacilitator(userID); err != nil {
		return nil, err
	}

	rec.isRevealed = true
	rec.lastActivity = s.now()

	return rec.snapshot(), nil
}

// ResetRound clears all votes and hasVoted flags and hides the cards again.
// The current story is kept: reset means "vote again on the same story".
func (s *Store) ResetRound(sessionID, userID string) (*State, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := rec.requireFacilitator(userID); err != nil {
		return nil, err
	}

	rec.clearRound()
	rec.lastActivity = s.now()

	return rec.snapshot(), nil
}

// ArchiveStory closes a revealed round into history and opens a fresh one.
// It requires a non-empty story and a revealed round, computes numeric
// statistics over the votes, appends exactly one Story record, then clears
// the round state and the story text together.
func (s *Store) ArchiveStory(sessionID, userID string) (*State, error) {
	rec, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := rec.requireFacilitator(userID); err != nil {
		return nil, err
	}
	if rec.currentStory == "" {
		return nil, ErrNoActiveStory
	}
	if !rec.isRevealed {
		return nil, ErrNotRevealed
	}

	now := s.now()
	rec.history = append(rec.history, Story{
		StoryText:  rec.currentStory,
		Results:    rec.computeResults(),
		ArchivedAt: now,
	})
	rec.clearRound()
	rec.currentStory = ""
	rec.lastActivity = now

	return rec.snapshot(), nil
}

// requireFacilitator checks that userID is a member with the FACILITATOR
// role. Callers must hold the record's lock.
func (r *record) requireFacilitator(userID string) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if user.Role != RoleFacilitator {
		return ErrForbiddenRole
	}
	return nil
}

// clearRound wipes votes, hasVoted flags, and the revealed flag. The story
// text is untouched; ArchiveStory clears it separately.
func (r *record) clearRound() {
	r.votes = make(map[string]string)
	r.isRevealed = false
	for _, u := range r.users {
		u.HasVoted = false
	}
}

// computeResults builds the archived summary for the current votes. The
// roster lists every vote; min/max/average cover numeric cards only and are
// zero when no numeric votes exist.
func (r *record) computeResults() Results {
	roster := make([]VoteRecord, 0, len(r.votes))
	var numeric []float64
	for userID, card := range r.votes {
		displayName := "Unknown"
		if u, ok := r.users[userID]; ok {
			displayName = u.DisplayName
		}
		roster = append(roster, VoteRecord{
			UserID:      userID,
			DisplayName: displayName,
			CardValue:   card,
		})
		if v, ok := NumericValue(card); ok {
			numeric = append(numeric, v)
		}
	}

	results := Results{Votes: roster}
	if len(numeric) == 0 {
		return results
	}

	results.Min = numeric[0]
	results.Max = numeric[0]
	var sum float64
	for _, v := range numeric {
		if v < results.Min {
			results.Min = v
		}
		if v > results.Max {
			results.Max = v
		}
		sum += v
	}
	results.Average = sum / float64(len(numeric))
	return results
}

// SweepIdleUsers removes every participant whose last-seen is older than
// the inactivity window, along with any vote they had cast, and returns the
// number of users removed. Each session is locked briefly and independently
// so foreground operations are not starved behind a table-wide lock.
//
// The sweep can remove a session's facilitator; the session then persists
// with no facilitator and no promotion rule. It also does not recompute the
// revealed flag, so a round that auto-revealed may retroactively lose the
// vote that completed it.
func (s *Store) SweepIdleUsers(inactivity time.Duration) int {
	s.mu.RLock()
	records := make([]*lockedRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	cutoff := s.now().Add(-inactivity)
	removed := 0

	for _, rec := range records {
		rec.mu.Lock()
		for userID, user := range rec.users {
			if user.LastSeen.Before(cutoff) {
				delete(rec.users, userID)
				delete(rec.votes, userID)
				rec.lastActivity = s.now()
				removed++
			}
		}
		rec.mu.Unlock()
	}

	return removed
}

// List returns snapshots of every session, in no particular order.
func (s *Store) List() []*State {
	s.mu.RLock()
	records := make([]*lockedRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	states := make([]*State, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		states = append(states, rec.snapshot())
		rec.mu.Unlock()
	}
	return states
}

// Count returns the number of sessions in the table.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
