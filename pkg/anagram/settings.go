package anagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Absolute bounds for the search length window.
const (
	LengthFloor   = 1
	LengthCeiling = 20

	DefaultMinLength = 2
	DefaultMaxLength = 20
)

// SearchSettings is the persisted length window for lookups and quizzes.
type SearchSettings struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

// DefaultSettings returns the out-of-the-box window.
func DefaultSettings() SearchSettings {
	return SearchSettings{MinLength: DefaultMinLength, MaxLength: DefaultMaxLength}
}

// Clamp forces the window into the absolute bounds and restores
// min <= max. The result is always valid regardless of input.
func (s SearchSettings) Clamp() SearchSettings {
	if s.MinLength < LengthFloor {
		s.MinLength = LengthFloor
	}
	if s.MinLength > LengthCeiling {
		s.MinLength = LengthCeiling
	}
	if s.MaxLength < s.MinLength {
		s.MaxLength = s.MinLength
	}
	if s.MaxLength > LengthCeiling {
		s.MaxLength = LengthCeiling
	}
	return s
}

// SettingsStore persists search settings. Implementations must return
// defaults when nothing has been saved yet.
type SettingsStore interface {
	Load() (SearchSettings, error)
	Save(SearchSettings) error
}

// MemorySettings is a SettingsStore for tests and ephemeral runs.
type MemorySettings struct {
	mu       sync.Mutex
	settings *SearchSettings
}

func (m *MemorySettings) Load() (SearchSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return DefaultSettings(), nil
	}
	return m.settings.Clamp(), nil
}

func (m *MemorySettings) Save(s SearchSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clamped := s.Clamp()
	m.settings = &clamped
	return nil
}

// FileSettings persists settings as a small JSON file.
type FileSettings struct {
	Path string
	mu   sync.Mutex
}

func (f *FileSettings) Load() (SearchSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return SearchSettings{}, fmt.Errorf("settings: read %s: %w", f.Path, err)
	}

	var s SearchSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return SearchSettings{}, fmt.Errorf("settings: parse %s: %w", f.Path, err)
	}
	return s.Clamp(), nil
}

func (f *FileSettings) Save(s SearchSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s.Clamp(), "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("settings: mkdir: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", f.Path, err)
	}
	return nil
}
