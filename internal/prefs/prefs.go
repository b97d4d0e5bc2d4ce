// Package prefs persists Kitchen's user preferences in
// ~/.config/kitchen/prefs.toml. Reads never fail: a missing or unreadable
// file yields defaults.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/kitchen/prefs.toml"
	// DefaultTheme is used until the user picks one.
	DefaultTheme = "Nightfox"
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: DefaultTheme}
}

// Store reads and writes one preferences file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore binds a Store to path, or to the default location when blank.
func NewStore(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return &Store{path: path}
}

// Path returns the unexpanded path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored preferences, falling back to defaults field by field.
func (s *Store) Load() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load(s.path)
}

// SetTheme records the chosen theme.
func (s *Store) SetTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := load(s.path)
	p.Theme = strings.TrimSpace(name)
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	return save(s.path, p)
}

func load(path string) Prefs {
	p := Defaults()
	resolved, err := expandPath(path)
	if err != nil {
		return p
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	var stored Prefs
	if err := toml.Unmarshal(bytes, &stored); err != nil {
		return p
	}
	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		p.Theme = theme
	}
	return p
}

func save(path string, p Prefs) error {
	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
