package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

type panelState int

const (
	panelReady panelState = iota
	panelLoading
	panelFailed
)

// envelopeState classifies a hook result for rendering. The message is the
// error to show when the panel failed. A cache error wins over older data.
func envelopeState[T any](res query.Result[api.Envelope[T]]) (panelState, string) {
	switch {
	case res.Err != nil:
		return panelFailed, "Error: " + res.Err.Error()
	case res.Data == nil:
		return panelLoading, ""
	case res.Data.Failed():
		return panelFailed, res.Data.Error
	default:
		return panelReady, ""
	}
}

// statusBody renders the body of a panel that is loading or failed.
func (m Model) statusBody(state panelState, message string) string {
	styles := m.theme.Styles()
	switch state {
	case panelLoading:
		return styles.WarningText.Render("Loading...")
	case panelFailed:
		return styles.DangerText.Render(message)
	default:
		return ""
	}
}

// renderBox draws a rounded panel with a title line. Body lines beyond the
// panel height are clipped.
func (m Model) renderBox(title, body string, width, height int, focused, failed bool) string {
	styles := m.theme.Styles()
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	if failed {
		border = m.theme.Danger
	}

	inner := max(height-2, 1)
	lines := []string{styles.AccentText.Bold(true).Render(title)}
	if body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	if len(lines) > inner {
		lines = lines[:inner]
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(width-2, 1)).
		Height(inner).
		Render(strings.Join(lines, "\n"))
}

// renderRecipeRows renders a windowed recipe list with the selected row
// highlighted. Each row is a card line: name, meal type, cook time and, on
// wide terminals, difficulty.
func (m Model) renderRecipeRows(recipes []api.Recipe, selected, rows, width int, focused bool) string {
	styles := m.theme.Styles()
	if len(recipes) == 0 {
		return styles.MutedText.Render("No recipes found.")
	}
	rows = max(rows, 1)
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	end := min(start+rows, len(recipes))

	inner := max(width-4, 20)
	wide := m.width >= LayoutWideWidth
	mealW, cookW, diffW := 18, 8, 0
	if m.width < LayoutCompactWidth {
		mealW = 12
	}
	if wide {
		diffW = 8
	}
	nameW := max(inner-2-mealW-cookW-diffW-6, 8)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := recipes[i]
		name := padRight(truncate(r.Name, nameW), nameW)
		meal := padRight(truncate(r.MealType.String(), mealW), mealW)
		cook := padRight(formatMinutes(r.CookTimeMinutes), cookW)
		diff := ""
		if wide {
			diff = padRight(truncate(r.Difficulty, diffW), diffW)
		}

		if i == selected {
			row := "▸ " + name + "  " + meal + "  " + cook
			if wide {
				row += "  " + diff
			}
			style := styles.AccentText.Bold(true)
			if focused {
				style = styles.Selected
			}
			lines = append(lines, style.Render(padRight(row, inner)))
			continue
		}

		row := "  " + styles.Text.Render(name) + "  " +
			styles.MutedText.Render(meal) + "  " +
			styles.InfoText.Render(cook)
		if wide {
			row += "  " + styles.DifficultyStyle(r.Difficulty).Render(diff)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
