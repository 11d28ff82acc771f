package main

import (
	"os"
	"path/filepath"
	"testing"
)

const wrappedExport = `{
  "state": {
    "sessionID": "POKER1",
    "facilitatorID": "user_1_A",
    "deckName": "fibonacci",
    "currentStory": "",
    "isRevealed": false,
    "users": {
      "user_1_A": {"userID": "user_1_A", "displayName": "Alice", "role": "FACILITATOR", "hasVoted": false, "lastSeen": "2026-08-29T10:00:00Z"}
    },
    "votes": {},
    "history": [
      {
        "storyText": "Fix bug",
        "results": {
          "min": 5, "max": 5, "average": 5,
          "votes": [{"userID": "user_2_B", "displayName": "Bob", "cardValue": "5"}]
        },
        "archivedAt": "2026-08-29T10:05:00Z"
      }
    ],
    "lastActivity": "2026-08-29T10:05:00Z"
  }
}`

func TestLoadState(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrapped export", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.json")
		os.WriteFile(path, []byte(wrappedExport), 0o644)

		state, err := loadState(path)
		if err != nil {
			t.Fatalf("loadState failed: %v", err)
		}
		if state.SessionID != "POKER1" {
			t.Errorf("expected POKER1, got %q", state.SessionID)
		}
		if len(state.History) != 1 {
			t.Errorf("expected 1 archived story, got %d", len(state.History))
		}
	})

	t.Run("bare snapshot", func(t *testing.T) {
		path := filepath.Join(dir, "bare.json")
		os.WriteFile(path, []byte(`{"sessionID":"POKER2","users":{},"votes":{},"history":[]}`), 0o644)

		state, err := loadState(path)
		if err != nil {
			t.Fatalf("loadState failed: %v", err)
		}
		if state.SessionID != "POKER2" {
			t.Errorf("expected POKER2, got %q", state.SessionID)
		}
	})

	t.Run("not a state file", func(t *testing.T) {
		path := filepath.Join(dir, "other.json")
		os.WriteFile(path, []byte(`{"foo":"bar"}`), 0o644)

		if _, err := loadState(path); err == nil {
			t.Error("expected error for non-state JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadState(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
