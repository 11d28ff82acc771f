// Package config provides card deck management and server settings for the
// planning poker server.
//
// The config package implements:
//   - A deck catalog backed by JSON files with built-in defaults
//   - Deck caching and validation
//   - Environment-driven server settings
//
// Deck Files:
//
// Decks are JSON files in the deck directory:
//
//	{
//	  "name": "fibonacci",
//	  "description": "Modified fibonacci estimation deck",
//	  "values": ["0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "∞", "?"]
//	}
//
// The built-in fibonacci and t-shirt decks are always available, so the
// server runs without a deck directory; files with the same name shadow the
// built-ins.
//
// Settings:
//
// Settings come from the environment (HOST, PORT, DECK_DIR, SWEEP_INTERVAL,
// INACTIVITY_WINDOW) with sane defaults; main applies flag overrides on
// top.
package config
