// Package session implements the planning poker session coordinator.
//
// The session package implements:
//   - The authoritative in-memory model of sessions, participants, and votes
//   - Role-gated lifecycle operations (vote, story, reveal, reset, archive)
//   - Snapshot isolation for everything handed back to callers
//   - Periodic removal of idle participants
//   - Concurrent access control
//
// Core Types:
//
// Store is the session coordinator. It owns every session record, is the
// sole mutator of that state, and returns defensive State snapshots so that
// callers can never reach internal mutable collections. User, Story, and
// Results describe participants and archived rounds.
//
// Session Identifiers:
//
// Sessions use short 6-character alphanumeric codes, canonicalized to
// uppercase; lookups accept any casing. User identifiers combine the
// creation timestamp with randomness. Neither generator checks for
// collisions - the probability is treated as negligible, and both are
// injectable so a stricter generator can be substituted.
//
// Concurrency:
//
// The store is a monitor. A table-level RWMutex guards session lookup and
// creation; each session record carries its own mutex held for the duration
// of one read-modify-write. Operations on different sessions never block
// each other, and no lock is held across anything that can suspend. The
// auto-reveal check runs under the same session lock as the vote write, so
// two concurrent last voters cannot both miss the reveal.
//
// Usage:
//
//	store := session.NewStore()
//
//	created, err := store.Create("Alice", "fibonacci")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	joined, err := store.Join(created.SessionID, "Bob")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, err := store.Vote(created.SessionID, joined.UserID, "5")
//
// Cleanup:
//
// SweepIdleUsers removes participants whose last-seen timestamp is older
// than the inactivity window. Reads performed with a user identifier count
// as activity (polling doubles as the presence heartbeat). Sessions
// themselves are never deleted; a session that loses its facilitator to the
// sweep keeps running but can no longer be advanced by facilitator-gated
// operations.
package session
