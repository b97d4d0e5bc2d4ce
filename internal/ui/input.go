package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Logs):
		if m.screen == ScreenLogs {
			return m.back()
		}
		return m.navigate(ScreenLogs)
	case key.Matches(msg, m.keys.Home):
		m.history = nil
		if m.screen == ScreenHome {
			return m, nil
		}
		return m.switchTo(ScreenHome)
	case key.Matches(msg, m.keys.Back):
		return m.back()
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenTag:
		return m.handleTagKey(msg)
	case ScreenDetail:
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	case ScreenLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusTags {
			m.focus = focusRecipes
		} else {
			m.focus = focusTags
		}
		return m, nil
	case key.Matches(msg, m.keys.TagSearch):
		m.focus = focusTags
		m.searching = true
		m.search.SetValue("")
		m.tagIndex = 0
		return m, m.search.Focus()
	}

	if m.focus == focusTags {
		tags := m.visibleTags()
		switch {
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
			m.tagIndex = clampIndex(m.tagIndex-1, len(tags))
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
			m.tagIndex = clampIndex(m.tagIndex+1, len(tags))
		case key.Matches(msg, m.keys.Top):
			m.tagIndex = 0
		case key.Matches(msg, m.keys.Bottom):
			m.tagIndex = clampIndex(len(tags)-1, len(tags))
		case key.Matches(msg, m.keys.Open):
			if m.tagIndex < len(tags) {
				return m.openTag(tags[m.tagIndex])
			}
		}
		return m, nil
	}

	recipes := m.homeRecipes()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.recipeIndex = clampIndex(m.recipeIndex-1, len(recipes))
	case key.Matches(msg, m.keys.Down):
		m.recipeIndex = clampIndex(m.recipeIndex+1, len(recipes))
	case key.Matches(msg, m.keys.Top):
		m.recipeIndex = 0
	case key.Matches(msg, m.keys.Bottom):
		m.recipeIndex = clampIndex(len(recipes)-1, len(recipes))
	case key.Matches(msg, m.keys.PageDown):
		m.recipeIndex = clampIndex(m.recipeIndex+m.listRows(), len(recipes))
	case key.Matches(msg, m.keys.PageUp):
		m.recipeIndex = clampIndex(m.recipeIndex-m.listRows(), len(recipes))
	case key.Matches(msg, m.keys.Open):
		if m.recipeIndex < len(recipes) {
			return m.openRecipe(recipes[m.recipeIndex].ID)
		}
	}
	return m, nil
}

func (m Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recipes := m.tagRecipes()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.tagRecipeIndex = clampIndex(m.tagRecipeIndex-1, len(recipes))
	case key.Matches(msg, m.keys.Down):
		m.tagRecipeIndex = clampIndex(m.tagRecipeIndex+1, len(recipes))
	case key.Matches(msg, m.keys.Top):
		m.tagRecipeIndex = 0
	case key.Matches(msg, m.keys.Bottom):
		m.tagRecipeIndex = clampIndex(len(recipes)-1, len(recipes))
	case key.Matches(msg, m.keys.Open):
		if m.tagRecipeIndex < len(recipes) {
			return m.openRecipe(recipes[m.tagRecipeIndex].ID)
		}
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ToggleFollow) {
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
			return m, loadLogsCmd(m.logPath)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if m.logViewport.AtBottom() {
		return m, cmd
	}
	// Scrolling away from the bottom pauses following.
	m.logFollow = false
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.tagIndex = 0
		return m, nil
	case "left", "up":
		m.tagIndex = clampIndex(m.tagIndex-1, len(m.visibleTags()))
		return m, nil
	case "right", "down":
		m.tagIndex = clampIndex(m.tagIndex+1, len(m.visibleTags()))
		return m, nil
	case "enter":
		tags := m.visibleTags()
		typed := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		chosen := typed
		if m.tagIndex < len(tags) {
			chosen = tags[m.tagIndex]
		}
		m.tagIndex = 0
		if chosen == "" {
			return m, nil
		}
		return m.openTag(chosen)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.tagIndex = 0
	return m, cmd
}

func (m Model) openTag(tag string) (tea.Model, tea.Cmd) {
	m.tag = tag
	m.tagRecipeIndex = 0
	return m.navigate(ScreenTag)
}

func (m Model) openRecipe(id int) (tea.Model, tea.Cmd) {
	if id <= 0 {
		return m, nil
	}
	m.detailID = id
	return m.navigate(ScreenDetail)
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.refresher != nil && !m.refresher.Trigger() {
		m.notice = "refresh throttled"
		return m, nil
	}
	m.notice = "refreshing"
	if m.refresher == nil && m.hooks != nil {
		m.hooks.Cache().InvalidateAll()
	}
	cmds := []tea.Cmd{m.fetchScreen()}
	if m.screen == ScreenLogs {
		cmds = append(cmds, loadLogsCmd(m.logPath))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.notice = "theme " + m.theme.Name
	if m.prefs != nil {
		if err := m.prefs.SetTheme(m.theme.Name); err != nil {
			m.logger.Warn("save theme failed", "theme", m.theme.Name, "error", err)
			m.notice = "theme not saved"
		}
	}
	if m.screen == ScreenDetail {
		m.syncDetail(false)
	}
	m.syncLogs()
}

// clampIndex keeps i inside [0, n).
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
