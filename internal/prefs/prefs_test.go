package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := NewStore("").Load()
	if p.Theme != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "kitchen")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := NewStore("").Load().Theme; got != "Slate" {
		t.Fatalf("Theme = %q, want %q", got, "Slate")
	}
}

func TestSetTheme_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")
	store := NewStore(path)

	if err := store.SetTheme(" Kanagawa "); err != nil {
		t.Fatalf("SetTheme returned error: %v", err)
	}
	if got := NewStore(path).Load().Theme; got != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", got, "Kanagawa")
	}

	if err := store.SetTheme(""); err != nil {
		t.Fatalf("SetTheme returned error: %v", err)
	}
	if got := store.Load().Theme; got != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", got, DefaultTheme)
	}
}

func TestLoad_BadContentFallsBackToDefault(t *testing.T) {
	tests := map[string]string{
		"empty theme":  "theme = \"\"\n",
		"invalid toml": "not valid toml {{{\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if got := NewStore(path).Load().Theme; got != DefaultTheme {
				t.Fatalf("Theme = %q, want %q", got, DefaultTheme)
			}
		})
	}
}

func TestSetTheme_UnwritableDirFails(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := NewStore(filepath.Join(blocker, "prefs.toml")).SetTheme("Slate"); err == nil {
		t.Fatalf("SetTheme returned nil error, want error")
	}
}
