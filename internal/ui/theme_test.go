package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
	names[0] = "mutated"
	if ThemeNames()[0] != "Nightfox" {
		t.Fatalf("ThemeNames() exposes internal order")
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestDifficultyStyle(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	if got := styles.DifficultyStyle(" Easy ").GetForeground(); got != lipgloss.Color(th.DifficultyColors["easy"]) {
		t.Fatalf("DifficultyStyle(Easy) foreground = %v, want %v", got, th.DifficultyColors["easy"])
	}
	if got := styles.DifficultyStyle("impossible").GetForeground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("DifficultyStyle(unknown) foreground = %v, want muted %v", got, th.Muted)
	}
}

func TestEveryThemeColorsEveryDifficulty(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, d := range []string{"easy", "medium", "hard"} {
			if th.DifficultyColors[d] == "" {
				t.Fatalf("theme %s has no color for %s", name, d)
			}
		}
	}
}
