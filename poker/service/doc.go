// Package service defines the transport-agnostic operation set for the
// planning poker server.
//
// The service package implements:
//   - The PokerService interface consumed by every transport (REST, MCP)
//   - Boundary validation: display names, deck selection, card membership
//   - Classification of failures into stable reason codes
//   - Session overview listings for operational surfaces
//
// The coordinator in poker/session enforces the invariants with real teeth
// (role gating, story length, archive preconditions); this layer adds the
// checks the coordinator deliberately leaves to its callers, such as
// rejecting a card value outside the session's deck.
//
// Failure Reasons:
//
// Every failed operation carries one of four reasons: SESSION_NOT_FOUND,
// USER_NOT_FOUND, FORBIDDEN_ROLE, or INVALID_INPUT. ReasonForError maps any
// error returned by the service onto its reason so transports can translate
// uniformly.
package service
