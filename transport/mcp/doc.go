// Package mcp exposes the planning poker operations as MCP tools.
//
// The package is a thin client that proxies every tool call to the REST
// API, so MCP-driven participants (assistants joining an estimation
// session) see exactly the same semantics and failure reasons as HTTP
// clients, including the role gating and the read-as-heartbeat behavior of
// session_state.
//
// Tools:
//   - create_session: Start a session, caller becomes facilitator
//   - join_session: Join an existing session as a voter
//   - session_state: Fetch the current snapshot (counts as presence)
//   - cast_vote: Cast or change a card for the current round
//   - set_story: Set the story under estimation (facilitator)
//   - reveal_cards: Expose all votes (facilitator)
//   - reset_round: Clear votes, keep the story (facilitator)
//   - archive_story: Close a revealed round into history (facilitator)
//   - list_sessions: Overview of all sessions
//   - list_decks: Available card decks
package mcp
