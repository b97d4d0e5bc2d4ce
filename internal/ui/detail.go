package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitchen-nadal/kitchen/internal/api"
)

// syncDetail refreshes the detail viewport from the cache.
func (m *Model) syncDetail(reset bool) {
	if m.detailViewport.Width == 0 {
		return
	}
	m.detailViewport.SetContent(m.detailContent(m.detailViewport.Width))
	if reset {
		m.detailViewport.GotoTop()
	}
}

func (m Model) detailContent(width int) string {
	if m.hooks == nil {
		return ""
	}
	res := m.hooks.RecipeByID(m.detailID).Peek()
	state, message := envelopeState(res)
	if state != panelReady {
		return m.statusBody(state, message)
	}
	return m.renderRecipe(res.Data.Data, width)
}

// renderRecipe lays out every field of a recipe: facts first, then the
// bulleted ingredients and numbered instructions.
func (m Model) renderRecipe(r api.Recipe, width int) string {
	styles := m.theme.Styles()
	wrap := lipgloss.NewStyle().Width(max(width, 20))
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 22)) }

	var b strings.Builder
	b.WriteString(styles.Logo.Render(r.Name))
	b.WriteString("\n\n")

	rating := "-"
	if r.Rating != nil {
		rating = fmt.Sprintf("%.1f", *r.Rating)
		if r.ReviewCount != nil {
			rating += fmt.Sprintf(" (%d reviews)", *r.ReviewCount)
		}
	}
	prep := "-"
	if r.PrepTimeMinutes != nil {
		prep = formatMinutes(*r.PrepTimeMinutes)
	}

	facts := []struct {
		name  string
		value string
		style lipgloss.Style
	}{
		{"Prep time", prep, styles.Text},
		{"Cook time", formatMinutes(r.CookTimeMinutes), styles.Text},
		{"Cuisine", orDash(r.Cuisine), styles.Text},
		{"Meal type", orDash(r.MealType.String()), styles.Text},
		{"Difficulty", orDash(r.Difficulty), styles.DifficultyStyle(r.Difficulty)},
		{"Servings", optionalInt(r.Servings, ""), styles.Text},
		{"Calories per serving", optionalInt(r.CaloriesPerServing, "kcal"), styles.Text},
		{"Rating", rating, styles.WarningText},
	}
	for _, f := range facts {
		b.WriteString(label(f.name))
		b.WriteString(f.style.Render(f.value))
		b.WriteString("\n")
	}
	if len(r.Tags) > 0 {
		b.WriteString(label("Tags"))
		b.WriteString(styles.AccentText.Render(strings.Join(r.Tags, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Ingredients"))
	b.WriteString("\n")
	if len(r.Ingredients) == 0 {
		b.WriteString(styles.FaintText.Render("none listed"))
		b.WriteString("\n")
	}
	for _, ing := range r.Ingredients {
		b.WriteString(wrap.Render("• " + ing))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Instructions"))
	b.WriteString("\n")
	if len(r.Instructions) == 0 {
		b.WriteString(styles.FaintText.Render("none listed"))
		b.WriteString("\n")
	}
	for i, step := range r.Instructions {
		b.WriteString(wrap.Render(fmt.Sprintf("%d. %s", i+1, step)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDetail() string {
	title := "Recipe"
	failed := false
	if m.hooks != nil {
		res := m.hooks.RecipeByID(m.detailID).Peek()
		state, _ := envelopeState(res)
		failed = state == panelFailed
		if state == panelReady && res.Data.Data.Name != "" {
			title = res.Data.Data.Name
		}
	}
	if pct := m.detailViewport.ScrollPercent(); m.detailViewport.TotalLineCount() > m.detailViewport.Height {
		title += fmt.Sprintf("  %d%%", int(pct*100))
	}
	return m.renderBox(title, m.detailViewport.View(), m.width, m.contentHeight(), true, failed)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
