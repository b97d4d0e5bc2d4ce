package ui

import (
	"fmt"
	"strings"

	"github.com/kitchen-nadal/kitchen/internal/api"
)

// tagPanelHeight is the tag box: two borders, a title and the strip.
const tagPanelHeight = 4

// homeRecipes returns the recipes listed on the home screen.
func (m Model) homeRecipes() []api.Recipe {
	if m.hooks == nil {
		return nil
	}
	res := m.hooks.Recipes().Peek()
	if res.Data == nil {
		return nil
	}
	return res.Data.Data.Recipes
}

// visibleTags returns the tags in the strip, filtered while searching.
func (m Model) visibleTags() []string {
	if m.hooks == nil {
		return nil
	}
	res := m.hooks.Tags().Peek()
	if res.Data == nil {
		return nil
	}
	tags := res.Data.Data
	needle := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if !m.searching || needle == "" {
		return tags
	}
	filtered := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			filtered = append(filtered, tag)
		}
	}
	return filtered
}

// listRows is how many recipe rows fit on the home screen.
func (m Model) listRows() int {
	return max(m.contentHeight()-tagPanelHeight-3, 1)
}

func (m Model) renderHome() string {
	tagsBox := m.renderTagStrip()
	recipesHeight := m.contentHeight() - tagPanelHeight

	res := m.hooks.Recipes().Peek()
	state, message := envelopeState(res)
	body := m.statusBody(state, message)
	if state == panelReady {
		body = m.renderRecipeRows(res.Data.Data.Recipes, m.recipeIndex, m.listRows(), m.width, m.focus == focusRecipes)
	}
	recipesBox := m.renderBox("Popular Recipes", body, m.width, recipesHeight, m.focus == focusRecipes, state == panelFailed)
	return tagsBox + "\n" + recipesBox
}

// renderTagStrip renders the single-line tag panel, scrolled so the
// selected tag stays visible.
func (m Model) renderTagStrip() string {
	styles := m.theme.Styles()
	focused := m.focus == focusTags
	title := "Popular Tags"
	if m.searching {
		title = "Popular Tags " + m.search.View()
	}

	res := m.hooks.Tags().Peek()
	state, message := envelopeState(res)
	if state != panelReady {
		return m.renderTagBox(title, m.statusBody(state, message), focused, state == panelFailed)
	}

	tags := m.visibleTags()
	if len(tags) == 0 {
		empty := "No tags."
		if m.searching {
			empty = "No tag matches."
		}
		return m.renderTagBox(title, styles.MutedText.Render(empty), focused, false)
	}

	avail := max(m.width-6, 10)
	start, end := tagWindow(tags, m.tagIndex, avail)
	parts := make([]string, 0, end-start+2)
	if start > 0 {
		parts = append(parts, styles.FaintText.Render("‹"))
	}
	for i := start; i < end; i++ {
		label := " " + tags[i] + " "
		switch {
		case i == m.tagIndex && focused:
			parts = append(parts, styles.Selected.Render(label))
		case i == m.tagIndex:
			parts = append(parts, styles.AccentText.Render(label))
		default:
			parts = append(parts, styles.Text.Render(label))
		}
	}
	if end < len(tags) {
		parts = append(parts, styles.FaintText.Render(fmt.Sprintf("› +%d", len(tags)-end)))
	}
	return m.renderTagBox(title, strings.Join(parts, " "), focused, false)
}

func (m Model) renderTagBox(title, body string, focused, failed bool) string {
	return m.renderBox(title, body, m.width, tagPanelHeight, focused, failed)
}

// tagWindow returns the [start, end) slice of tags that fits in avail cells
// and contains selected.
func tagWindow(tags []string, selected, avail int) (int, int) {
	if len(tags) == 0 {
		return 0, 0
	}
	selected = clampIndex(selected, len(tags))
	cell := func(i int) int { return len([]rune(tags[i])) + 3 }

	start := selected
	used := cell(selected)
	for start > 0 && used+cell(start-1) <= avail/2 {
		start--
		used += cell(start)
	}
	end := selected + 1
	for end < len(tags) && used+cell(end) <= avail {
		used += cell(end)
		end++
	}
	for start > 0 && used+cell(start-1) <= avail {
		start--
		used += cell(start)
	}
	return start, end
}

// tagRecipes returns the recipes listed on the tag screen.
func (m Model) tagRecipes() []api.Recipe {
	if m.hooks == nil {
		return nil
	}
	res := m.hooks.RecipesByTag(m.tag).Peek()
	if res.Data == nil {
		return nil
	}
	return res.Data.Data.Recipes
}

func (m Model) renderTagScreen() string {
	res := m.hooks.RecipesByTag(m.tag).Peek()
	state, message := envelopeState(res)
	body := m.statusBody(state, message)
	height := m.contentHeight()
	if state == panelReady {
		body = m.renderRecipeRows(res.Data.Data.Recipes, m.tagRecipeIndex, height-3, m.width, true)
	}
	title := fmt.Sprintf("Recipes tagged %q", m.tag)
	return m.renderBox(title, body, m.width, height, true, state == panelFailed)
}
