// Package api provides the HTTP REST boundary for the planning poker
// server.
//
// The api package implements:
//   - RESTful endpoints for session lifecycle and round operations
//   - Deck catalog listing
//   - Failure-reason mapping onto HTTP status codes
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session (caller becomes facilitator)
//   - GET  /api/sessions - List session overviews
//   - POST /api/sessions/{id}/join - Join as a voter
//   - GET  /api/sessions/{id}/state?user=<userID> - Snapshot; the user
//     parameter doubles as the presence heartbeat
//
// Round Operations:
//   - POST /api/sessions/{id}/vote - Cast or change a card
//   - POST /api/sessions/{id}/story - Set the story under estimation
//   - POST /api/sessions/{id}/reveal - Expose the cards
//   - POST /api/sessions/{id}/reset - Clear votes, keep the story
//   - POST /api/sessions/{id}/archive - Close a revealed round into history
//
// Decks:
//   - GET /api/decks - List available card decks
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Session codes in the path are
// case-insensitive. Mutations return the post-operation snapshot:
//
//	{
//	  "success": true,
//	  "state": { "sessionID": "...", "users": {...}, "votes": {...}, ... }
//	}
//
// Error Handling:
//
// Failures are returned as JSON with a stable reason code and a matching
// status: SESSION_NOT_FOUND and USER_NOT_FOUND map to 404, FORBIDDEN_ROLE
// to 403, INVALID_INPUT to 400.
//
//	{
//	  "error": "session not found",
//	  "reason": "SESSION_NOT_FOUND"
//	}
package api
