package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/MichaelHabermas/Planning-Poker/poker/service"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrInvalidDeck  = errors.New("invalid deck")
)

// DefaultDeckName is the deck used when a session is created without one.
const DefaultDeckName = "fibonacci"

// builtinDecks ship with the binary. The fibonacci values match the
// reference card deck, including the non-numeric "∞" and "?" tokens.
var builtinDecks = map[string]*service.Deck{
	"fibonacci": {
		Name:        "fibonacci",
		Description: "Modified fibonacci estimation deck",
		Values:      []string{"0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "∞", "?"},
	},
	"tshirt": {
		Name:        "tshirt",
		Description: "T-shirt sizing deck",
		Values:      []string{"XS", "S", "M", "L", "XL", "XXL", "?"},
	},
}

// Manager handles deck loading and caching. It implements
// service.DeckCatalog.
type Manager struct {
	deckDir string
	decks   map[string]*service.Deck
	mu      sync.RWMutex
}

// NewManager creates a deck manager. The directory is optional: when it is
// empty or missing, only the built-in decks are served.
func NewManager(deckDir string) (*Manager, error) {
	if deckDir != "" {
		if _, err := os.Stat(deckDir); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("deck directory %s: %w", deckDir, err)
		}
	}

	return &Manager{
		deckDir: deckDir,
		decks:   make(map[string]*service.Deck),
	}, nil
}

// GetDeck loads a deck by name, preferring a deck file over a built-in of
// the same name.
func (m *Manager) GetDeck(name string) (*service.Deck, error) {
	m.mu.RLock()
	if deck, exists := m.decks[name]; exists {
		m.mu.RUnlock()
		return deck, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock
	if deck, exists := m.decks[name]; exists {
		return deck, nil
	}

	deck, err := m.loadDeckFile(name)
	if err != nil {
		if !errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		builtin, ok := builtinDecks[name]
		if !ok {
			return nil, ErrDeckNotFound
		}
		deck = builtin
	}

	m.decks[name] = deck
	return deck, nil
}

// loadDeckFile reads and validates one deck file from the deck directory.
func (m *Manager) loadDeckFile(name string) (*service.Deck, error) {
	if m.deckDir == "" {
		return nil, ErrDeckNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.deckDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	var deck service.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to parse deck: %w", err)
	}

	if err := ValidateDeck(&deck); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	return &deck, nil
}

// ValidateDeck checks a deck's structural constraints.
func ValidateDeck(deck *service.Deck) error {
	if deck.Name == "" {
		return errors.New("deck name is required")
	}
	if len(deck.Values) == 0 {
		return errors.New("deck has no card values")
	}
	seen := make(map[string]bool, len(deck.Values))
	for _, v := range deck.Values {
		if v == "" {
			return errors.New("deck contains an empty card value")
		}
		if seen[v] {
			return fmt.Errorf("duplicate card value %q", v)
		}
		seen[v] = true
	}
	return nil
}

// ListDecks returns every available deck: built-ins plus any valid deck
// files, sorted by ID. A deck file shadows a built-in of the same ID.
func (m *Manager) ListDecks() ([]*service.DeckInfo, error) {
	byID := make(map[string]*service.DeckInfo)

	for id, deck := range builtinDecks {
		byID[id] = &service.DeckInfo{
			DeckID:      id,
			Name:        deck.Name,
			Description: deck.Description,
			Values:      deck.Values,
			BuiltIn:     true,
		}
	}

	if m.deckDir != "" {
		entries, err := os.ReadDir(m.deckDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read deck directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ".json")
			deck, err := m.GetDeck(id)
			if err != nil {
				// Skip unreadable or invalid files; the validator CLI
				// reports the details.
				continue
			}
			byID[id] = &service.DeckInfo{
				DeckID:      id,
				Name:        deck.Name,
				Description: deck.Description,
				Values:      deck.Values,
			}
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]*service.DeckInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, byID[id])
	}
	return infos, nil
}

// Default returns the deck used when a session does not name one.
func (m *Manager) Default() *service.Deck {
	if deck, err := m.GetDeck(DefaultDeckName); err == nil {
		return deck
	}
	return builtinDecks[DefaultDeckName]
}
