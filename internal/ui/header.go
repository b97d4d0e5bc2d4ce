package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// screenStatus reports when the current screen's data last settled and
// whether any of it is being fetched.
func (m Model) screenStatus() (updated time.Time, fetching bool) {
	if m.hooks == nil {
		return time.Time{}, false
	}
	switch m.screen {
	case ScreenHome:
		recipes := m.hooks.Recipes().Peek()
		tags := m.hooks.Tags().Peek()
		return recipes.UpdatedAt, recipes.IsFetching || tags.IsFetching
	case ScreenTag:
		res := m.hooks.RecipesByTag(m.tag).Peek()
		return res.UpdatedAt, res.IsFetching
	case ScreenDetail:
		res := m.hooks.RecipeByID(m.detailID).Peek()
		return res.UpdatedAt, res.IsFetching
	default:
		return time.Time{}, false
	}
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render(AppTitle, styles.Logo)}
	if m.env != "" {
		parts = append(parts, bg.Render("● "+string(m.env), styles.SuccessText))
	}
	if m.width >= LayoutCompactWidth && m.endpoint != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.endpoint, 40), styles.MutedText))
	}

	if m.screen != ScreenLogs {
		updated, fetching := m.screenStatus()
		if fetching {
			parts = append(parts, bg.Render("⟳ fetching", styles.WarningText))
		}
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Space()+
				bg.Render(humanizeAge(updated, m.now()), styles.Text))
	}
	if m.refresher != nil && m.width >= LayoutCompactWidth {
		parts = append(parts,
			bg.Render("every", styles.FaintText)+bg.Space()+
				bg.Render(m.refresher.NextDelay().String(), styles.Text))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderCommandBar shows the keys that apply to the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.searching:
		commands = []cmd{
			{"enter", "Open tag"},
			{"←/→", "Pick"},
			{"esc", "Cancel"},
		}
	case m.screen == ScreenLogs:
		followLabel := "Pause"
		if !m.logFollow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"L", "Close"},
			{"?", "More"},
		}
	case m.screen == ScreenDetail:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"esc", "Back"},
			{"H", "Home"},
			{"r", "Refresh"},
			{"L", "Logs"},
			{"?", "More"},
		}
	case m.screen == ScreenTag:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"esc", "Back"},
			{"r", "Refresh"},
			{"L", "Logs"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"tab", "Tags/Recipes"},
			{"enter", "Open"},
			{"/", "Find tag"},
			{"r", "Refresh"},
			{"T", "Theme"},
			{"L", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.notice != "" {
		segments = append(segments, bg.Render(m.notice, styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
