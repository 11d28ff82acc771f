package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds the server's environment-driven configuration. Flags in
// main override individual fields after parsing.
type Settings struct {
	Host    string `env:"HOST" envDefault:"localhost"`
	Port    int    `env:"PORT" envDefault:"8080"`
	DeckDir string `env:"DECK_DIR" envDefault:"decks"`

	// Idle sweep cadence and the inactivity window after which a silent
	// participant is removed. The reference client polls every 2.5s, so a
	// healthy participant is seen well inside the window.
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"10s"`
	InactivityWindow time.Duration `env:"INACTIVITY_WINDOW" envDefault:"60s"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env settings: %w", err)
	}
	return &s, nil
}

// Addr returns the host:port listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
