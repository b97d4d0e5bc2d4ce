package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitchen-nadal/kitchen/internal/logtail"
)

// syncLogs re-renders the log viewport from the last read.
func (m *Model) syncLogs() {
	if m.logViewport.Width == 0 {
		return
	}
	m.logViewport.SetContent(m.logContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) logContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render("Error: " + m.logErr.Error())
	}
	if len(m.logLines) == 0 {
		return styles.MutedText.Render("No log lines yet.")
	}
	out := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		out[i] = m.formatLogLine(logtail.ParseLine(line))
	}
	return strings.Join(out, "\n")
}

// formatLogLine colours one parsed slog line: time, level, message, attrs.
func (m Model) formatLogLine(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Level == logtail.LevelUnknown && e.Time.IsZero() {
		return styles.Text.Render(e.Raw)
	}

	parts := make([]string, 0, 3+len(e.Attrs))
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Format("15:04:05")))
	}
	parts = append(parts, m.levelStyle(e.Level).Render(padRight(e.Level.String(), 5)))
	parts = append(parts, styles.Text.Render(e.Message))
	for _, a := range e.Attrs {
		parts = append(parts, styles.InfoText.Render(a.Key)+styles.FaintText.Render("=")+styles.MutedText.Render(a.Value))
	}
	return strings.Join(parts, " ")
}

func (m Model) levelStyle(level logtail.Level) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case logtail.LevelDebug:
		return styles.FaintText
	case logtail.LevelInfo:
		return styles.SuccessText
	case logtail.LevelWarn:
		return styles.WarningText.Bold(true)
	case logtail.LevelError:
		return styles.DangerText
	default:
		return styles.MutedText
	}
}

func (m Model) renderLogs() string {
	title := "Logs " + truncateMiddle(m.logPath, max(m.width-30, 10))
	if !m.logFollow {
		title += "  (paused)"
	}
	return m.renderBox(title, m.logViewport.View(), m.width, m.contentHeight(), true, m.logErr != nil)
}
