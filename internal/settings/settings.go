// Package settings is a small JSON-file-backed store for runtime
// trading preferences exposed over the settings API. It is glue around
// the core, not part of the trending computation.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Settings are the user-tunable trading preferences.
type Settings struct {
	MaxInvestmentPerTrade float64 `json:"maxInvestmentPerTrade"`
	TakeProfitPercentage  float64 `json:"takeProfitPercentage"`
	StopLossPercentage    float64 `json:"stopLossPercentage"`
	EnableAITrading       bool    `json:"enableAITrading"`
	MinimumLiquidity      float64 `json:"minimumLiquidity"`
	SkipSuspiciousTokens  bool    `json:"skipSuspiciousTokens"`
	OnlyVerifiedDEX       bool    `json:"onlyVerifiedDEX"`
}

// DefaultSettings returns the out-of-box preferences.
func DefaultSettings() Settings {
	return Settings{
		MaxInvestmentPerTrade: 1,
		TakeProfitPercentage:  50,
		StopLossPercentage:    20,
		EnableAITrading:       true,
		MinimumLiquidity:      10,
		SkipSuspiciousTokens:  true,
		OnlyVerifiedDEX:       true,
	}
}

// Validate rejects non-positive numeric preferences.
func (s Settings) Validate() error {
	if s.MaxInvestmentPerTrade <= 0 {
		return errors.New("maxInvestmentPerTrade must be greater than 0")
	}
	if s.TakeProfitPercentage <= 0 {
		return errors.New("takeProfitPercentage must be greater than 0")
	}
	if s.StopLossPercentage <= 0 {
		return errors.New("stopLossPercentage must be greater than 0")
	}
	if s.MinimumLiquidity <= 0 {
		return errors.New("minimumLiquidity must be greater than 0")
	}
	return nil
}

// Store persists settings as a JSON file. Reads serve the in-memory
// copy; writes validate, persist, then swap it.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	current Settings
}

// NewStore loads settings from path, writing the defaults there when
// no file exists yet.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:    path,
		logger:  logger,
		current: DefaultSettings(),
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.current); err != nil {
			return nil, fmt.Errorf("parse settings file: %w", err)
		}
		logger.Info("settings loaded", "path", path)
	case os.IsNotExist(err):
		logger.Info("no settings file, writing defaults", "path", path)
		if err := s.persist(s.current); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	return s, nil
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates, persists, and applies new settings.
func (s *Store) Update(next Settings) (Settings, error) {
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(next); err != nil {
		return Settings{}, err
	}
	s.current = next

	s.logger.Info("settings saved", "path", s.path)
	return next, nil
}

func (s *Store) persist(val Settings) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
