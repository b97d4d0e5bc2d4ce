package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/prefs"
	"github.com/kitchen-nadal/kitchen/internal/queries"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

type stubFetcher struct {
	mu          sync.Mutex
	recipesErr  string
	panics      bool
	tagCalls    []string
	detailCalls []int
}

var sampleRecipes = []api.Recipe{
	{ID: 1, Name: "Classic Margherita Pizza", CookTimeMinutes: 15, Difficulty: "Easy", MealType: api.StringList{"Dinner"}},
	{ID: 2, Name: "Vegetarian Stir-Fry", CookTimeMinutes: 20, Difficulty: "Medium", MealType: api.StringList{"Lunch"}},
}

func (f *stubFetcher) FetchRecipes(context.Context) api.Envelope[api.RecipeCollection] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("decoder exploded")
	}
	if f.recipesErr != "" {
		return api.Envelope[api.RecipeCollection]{Data: api.RecipeCollection{Recipes: []api.Recipe{}}, Error: f.recipesErr}
	}
	return api.Envelope[api.RecipeCollection]{Data: api.RecipeCollection{Limit: 2, Recipes: sampleRecipes}}
}

func (f *stubFetcher) FetchRecipeByID(_ context.Context, id int) api.Envelope[api.Recipe] {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	f.mu.Unlock()
	prep, servings, kcal, reviews := 10, 4, 300, 98
	rating := 4.6
	return api.Envelope[api.Recipe]{Data: api.Recipe{
		ID:                 id,
		Name:               "Vegetarian Stir-Fry",
		CookTimeMinutes:    20,
		PrepTimeMinutes:    &prep,
		Servings:           &servings,
		CaloriesPerServing: &kcal,
		Rating:             &rating,
		ReviewCount:        &reviews,
		Cuisine:            "Asian",
		Difficulty:         "Medium",
		MealType:           api.StringList{"Lunch"},
		Ingredients:        []string{"Tofu, cubed", "Soy sauce"},
		Instructions:       []string{"Press the tofu.", "Stir-fry everything."},
	}}
}

func (f *stubFetcher) FetchRecipeByTag(_ context.Context, tag string) api.Envelope[api.RecipeCollection] {
	f.mu.Lock()
	f.tagCalls = append(f.tagCalls, tag)
	f.mu.Unlock()
	return api.Envelope[api.RecipeCollection]{Data: api.RecipeCollection{Recipes: []api.Recipe{{ID: 9, Name: "Pad Thai", CookTimeMinutes: 25}}}}
}

func (f *stubFetcher) FetchTags(context.Context) api.Envelope[[]api.Tag] {
	return api.Envelope[[]api.Tag]{Data: []api.Tag{"Pizza", "Italian", "Asian"}}
}

type stubRefresher struct {
	allow bool
	calls int
}

func (r *stubRefresher) Trigger() bool {
	r.calls++
	return r.allow
}

func (r *stubRefresher) NextDelay() time.Duration { return time.Minute }

func newTestModel(t *testing.T, f *stubFetcher, opts Options) (Model, *queries.Hooks) {
	t.Helper()
	hooks := queries.New(query.New(query.Options{}), f)
	opts.Hooks = hooks
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewStore(filepath.Join(t.TempDir(), "prefs.toml"))
	}
	m := New(opts)
	t.Cleanup(m.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), hooks
}

// runCmd executes cmd, expanding batches, and feeds every message back.
// Only use it for commands that do not block (fetches and log reads).
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmd(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestView_BeforeResizeIsLoading(t *testing.T) {
	m := New(Options{Hooks: queries.New(query.New(query.Options{}), &stubFetcher{})})
	defer m.Close()
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestView_HomeShowsLoadingThenData(t *testing.T) {
	m, hooks := newTestModel(t, &stubFetcher{}, Options{Env: api.Production, Endpoint: "https://dummyjson.com/recipes"})

	view := m.View()
	for _, want := range []string{AppTitle, "Popular Tags", "Popular Recipes", "Loading...", "prod"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}

	m = runCmd(t, m, m.fetchScreen())
	if !hooks.Recipes().Peek().UpdatedAt.After(time.Time{}) {
		t.Fatalf("recipes were not fetched")
	}

	view = m.View()
	for _, want := range []string{"Classic Margherita Pizza", "Vegetarian Stir-Fry", "Dinner", "15 min", "Pizza", "Italian"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Loading...") {
		t.Fatalf("View() still loading after fetch:\n%s", view)
	}
}

func TestView_HomeShowsEnvelopeError(t *testing.T) {
	f := &stubFetcher{recipesErr: "API Error: 500 Internal Server Error"}
	m, _ := newTestModel(t, f, Options{})
	m = runCmd(t, m, m.fetchScreen())

	view := m.View()
	if !strings.Contains(view, "API Error: 500 Internal Server Error") {
		t.Fatalf("View() missing envelope error:\n%s", view)
	}
	if strings.Contains(view, "No recipes found.") {
		t.Fatalf("View() rendered placeholder data as empty list:\n%s", view)
	}
}

func TestView_HomeShowsCacheErrorOverOlderData(t *testing.T) {
	f := &stubFetcher{}
	m, hooks := newTestModel(t, f, Options{})
	m = runCmd(t, m, m.fetchScreen())
	if !strings.Contains(m.View(), "Classic Margherita Pizza") {
		t.Fatalf("recipes not rendered after first fetch")
	}

	f.mu.Lock()
	f.panics = true
	f.mu.Unlock()
	hooks.Recipes().Invalidate()
	m = runCmd(t, m, m.fetchScreen())

	res := hooks.Recipes().Peek()
	if res.Data == nil || res.Err == nil {
		t.Fatalf("Peek() = data %v err %v, want older data and an error", res.Data != nil, res.Err)
	}
	view := m.View()
	if !strings.Contains(view, "Error: query function panicked: decoder exploded") {
		t.Fatalf("View() missing cache error:\n%s", view)
	}
	if strings.Contains(view, "Classic Margherita Pizza") {
		t.Fatalf("View() still renders older data as ready:\n%s", view)
	}
}

func TestNavigation_OpenRecipeAndBack(t *testing.T) {
	f := &stubFetcher{}
	m, _ := newTestModel(t, f, Options{})
	m = runCmd(t, m, m.fetchScreen())

	m, _ = press(t, m, runes("j"))
	if m.recipeIndex != 1 {
		t.Fatalf("recipeIndex = %d, want 1", m.recipeIndex)
	}
	m, cmd := press(t, m, enter)
	if m.screen != ScreenDetail || m.detailID != 2 {
		t.Fatalf("screen = %v id = %d, want detail 2", m.screen, m.detailID)
	}
	m = runCmd(t, m, cmd)
	if len(f.detailCalls) != 1 || f.detailCalls[0] != 2 {
		t.Fatalf("detail calls = %v, want [2]", f.detailCalls)
	}

	view := m.View()
	for _, want := range []string{"Prep time", "10 min", "Asian", "Medium", "300 kcal", "4.6 (98 reviews)", "• Tofu, cubed", "1. Press the tofu.", "2. Stir-fry everything."} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail View() missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, esc)
	if m.screen != ScreenHome {
		t.Fatalf("screen after esc = %v, want home", m.screen)
	}
	if m.recipeIndex != 1 {
		t.Fatalf("recipeIndex after back = %d, want selection kept", m.recipeIndex)
	}
}

func TestNavigation_TagStripOpensTagScreen(t *testing.T) {
	f := &stubFetcher{}
	m, _ := newTestModel(t, f, Options{})
	m = runCmd(t, m, m.fetchScreen())

	m, _ = press(t, m, tab, runes("l"))
	if m.focus != focusTags || m.tagIndex != 1 {
		t.Fatalf("focus = %v tagIndex = %d, want tags/1", m.focus, m.tagIndex)
	}
	m, cmd := press(t, m, enter)
	if m.screen != ScreenTag || m.tag != "Italian" {
		t.Fatalf("screen = %v tag = %q, want tag Italian", m.screen, m.tag)
	}
	m = runCmd(t, m, cmd)
	if len(f.tagCalls) != 1 || f.tagCalls[0] != "Italian" {
		t.Fatalf("tag calls = %v, want [Italian]", f.tagCalls)
	}

	view := m.View()
	if !strings.Contains(view, `Recipes tagged "Italian"`) || !strings.Contains(view, "Pad Thai") {
		t.Fatalf("tag View() unexpected:\n%s", view)
	}

	m, cmd = press(t, m, enter)
	if m.screen != ScreenDetail || m.detailID != 9 {
		t.Fatalf("screen = %v id = %d, want detail 9", m.screen, m.detailID)
	}
	runCmd(t, m, cmd)

	m, _ = press(t, m, esc, esc)
	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home after two backs", m.screen)
	}
}

func TestSearch_FiltersTagsAndOpens(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, Options{})
	m = runCmd(t, m, m.fetchScreen())

	m, _ = press(t, m, runes("/"))
	if !m.searching {
		t.Fatalf("searching = false after /")
	}
	m, _ = press(t, m, runes("i"), runes("t"), runes("a"))
	got := m.visibleTags()
	if len(got) != 1 || got[0] != "Italian" {
		t.Fatalf("visibleTags() = %v, want [Italian]", got)
	}

	m, _ = press(t, m, enter)
	if m.searching || m.screen != ScreenTag || m.tag != "Italian" {
		t.Fatalf("searching = %v screen = %v tag = %q, want tag Italian", m.searching, m.screen, m.tag)
	}
}

func TestSearch_EscCancels(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, Options{})
	m = runCmd(t, m, m.fetchScreen())

	m, _ = press(t, m, runes("/"), runes("x"), esc)
	if m.searching || m.screen != ScreenHome {
		t.Fatalf("searching = %v screen = %v, want home without search", m.searching, m.screen)
	}
	if len(m.visibleTags()) != 3 {
		t.Fatalf("visibleTags() = %v, want all tags", m.visibleTags())
	}
}

func TestOpenRecipe_IgnoresUnknownID(t *testing.T) {
	f := &stubFetcher{}
	m, _ := newTestModel(t, f, Options{})

	next, cmd := m.openRecipe(0)
	if next.(Model).screen != ScreenHome || cmd != nil {
		t.Fatalf("openRecipe(0) navigated")
	}
	if len(f.detailCalls) != 0 {
		t.Fatalf("detail calls = %v, want none", f.detailCalls)
	}
}

func TestThemeCycleIsPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	store := prefs.NewStore(path)
	m, _ := newTestModel(t, &stubFetcher{}, Options{Prefs: store})

	if m.theme.Name != prefs.DefaultTheme {
		t.Fatalf("theme = %q, want %q", m.theme.Name, prefs.DefaultTheme)
	}
	m, _ = press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.NewStore(path).Load().Theme; got != "Kanagawa" {
		t.Fatalf("stored theme = %q, want Kanagawa", got)
	}
}

func TestRefresh_ThrottledShowsNotice(t *testing.T) {
	r := &stubRefresher{allow: false}
	m, _ := newTestModel(t, &stubFetcher{}, Options{Refresher: r})

	m, cmd := press(t, m, runes("r"))
	if r.calls != 1 {
		t.Fatalf("Trigger calls = %d, want 1", r.calls)
	}
	if cmd != nil || m.notice != "refresh throttled" {
		t.Fatalf("notice = %q cmd = %v, want throttled and no command", m.notice, cmd)
	}

	r.allow = true
	m, cmd = press(t, m, runes("r"))
	if cmd == nil || m.notice != "refreshing" {
		t.Fatalf("notice = %q, want refreshing with a fetch command", m.notice)
	}
	if !strings.Contains(m.View(), "refreshing") {
		t.Fatalf("command bar does not show the notice")
	}
}

func TestLogsView_ShowsParsedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchen.log")
	content := `time=2026-10-19T09:12:44.120+02:00 level=WARN msg="api request failed" key="[\"tags\"]" error="Network Error: No response received from server"
time=2026-10-19T09:12:45.000+02:00 level=INFO msg="kitchen starting" env=prod
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, _ := newTestModel(t, &stubFetcher{}, Options{LogPath: path})
	m, cmd := press(t, m, runes("L"))
	if m.screen != ScreenLogs {
		t.Fatalf("screen = %v, want logs", m.screen)
	}
	m = runCmd(t, m, cmd)

	view := m.View()
	for _, want := range []string{"api request failed", "WARN", "kitchen starting", "env=prod"} {
		if !strings.Contains(view, want) {
			t.Fatalf("logs View() missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.logFollow {
		t.Fatalf("logFollow = true after Space, want paused")
	}

	m, _ = press(t, m, runes("L"))
	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home after closing logs", m.screen)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, Options{})

	m, _ = press(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("help still shown after a key")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, Options{})
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestTagWindow(t *testing.T) {
	tags := []string{"Pizza", "Italian", "Vegetarian", "Stir-fry", "Asian", "Cookies", "Dessert"}

	start, end := tagWindow(tags, 0, 1000)
	if start != 0 || end != len(tags) {
		t.Fatalf("tagWindow wide = [%d,%d), want all", start, end)
	}

	start, end = tagWindow(tags, 5, 24)
	if start > 5 || end <= 5 {
		t.Fatalf("tagWindow = [%d,%d), want it to contain 5", start, end)
	}

	if s, e := tagWindow(nil, 3, 10); s != 0 || e != 0 {
		t.Fatalf("tagWindow(nil) = [%d,%d), want empty", s, e)
	}
}

func TestClampIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{-1, 3, 0},
		{0, 0, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, c := range cases {
		if got := clampIndex(c.i, c.n); got != c.want {
			t.Fatalf("clampIndex(%d, %d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}
