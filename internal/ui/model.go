package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/logging"
	"github.com/kitchen-nadal/kitchen/internal/prefs"
	"github.com/kitchen-nadal/kitchen/internal/queries"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

// AppTitle is shown in the header.
const AppTitle = "Kitchen Nadal"

// Screen is the page currently shown.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenTag
	ScreenDetail
	ScreenLogs
)

func (s Screen) String() string {
	switch s {
	case ScreenTag:
		return "tag"
	case ScreenDetail:
		return "detail"
	case ScreenLogs:
		return "logs"
	default:
		return "home"
	}
}

type homeFocus int

const (
	focusTags homeFocus = iota
	focusRecipes
)

// Refresher requests an immediate refetch of the observed queries.
type Refresher interface {
	Trigger() bool
	NextDelay() time.Duration
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Hooks     *queries.Hooks
	Refresher Refresher
	Prefs     *prefs.Store
	LogPath   string
	Env       api.Environment
	Endpoint  string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	hooks     *queries.Hooks
	refresher Refresher
	prefs     *prefs.Store
	logger    *slog.Logger
	logPath   string
	env       api.Environment
	endpoint  string
	now       func() time.Time

	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	screen  Screen
	history []Screen

	// Home
	focus       homeFocus
	tagIndex    int
	recipeIndex int

	// Tag screen
	tag            string
	tagRecipeIndex int

	// Detail screen
	detailID       int
	detailViewport viewport.Model

	// Tag search
	searching bool
	search    textinput.Model

	// Logs
	logViewport viewport.Model
	logLines    []string
	logErr      error
	logFollow   bool

	showHelp bool
	notice   string

	watch    <-chan query.Snapshot
	unwatch  func()
	releases []func()
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	themeName := prefs.DefaultTheme
	if opts.Prefs != nil {
		themeName = opts.Prefs.Load().Theme
	}

	ti := textinput.New()
	ti.Placeholder = "tag name..."
	ti.Prompt = "/"
	ti.CharLimit = 40

	m := Model{
		ctx:       ctx,
		hooks:     opts.Hooks,
		refresher: opts.Refresher,
		prefs:     opts.Prefs,
		logger:    logger,
		logPath:   opts.LogPath,
		env:       opts.Env,
		endpoint:  opts.Endpoint,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		screen:    ScreenHome,
		focus:     focusRecipes,
		search:    ti,
		logFollow: true,
		unwatch:   func() {},
	}
	if opts.Hooks != nil && opts.Hooks.Cache() != nil {
		m.watch, m.unwatch = opts.Hooks.Cache().Watch()
	}
	m.releases = m.observe()
	return m
}

// Close releases cache observers and the change feed.
func (m Model) Close() {
	for _, release := range m.releases {
		release()
	}
	m.unwatch()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchScreen(),
		waitForChange(m.watch),
		tickCmd(UITick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		m.syncDetail(false)
		m.syncLogs()
		return m, nil

	case cacheMsg:
		if m.screen == ScreenDetail && msg.Key == queries.RecipeByIDKey(m.detailID).String() {
			m.syncDetail(false)
		}
		return m, waitForChange(m.watch)

	case fetchedMsg:
		if msg.err != nil {
			m.logger.Warn("query function failed", "key", msg.key, "error", msg.err)
		}
		if m.screen == ScreenDetail {
			m.syncDetail(false)
		}
		return m, nil

	case logsMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.syncLogs()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.screen == ScreenLogs && m.logFollow {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		cmds = append(cmds, tickCmd(UITick))
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + m.renderContent()
}

func (m Model) renderContent() string {
	switch m.screen {
	case ScreenTag:
		return m.renderTagScreen()
	case ScreenDetail:
		return m.renderDetail()
	case ScreenLogs:
		return m.renderLogs()
	default:
		return m.renderHome()
	}
}

// contentHeight is the space below header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// navigate pushes the current screen and switches to next.
func (m Model) navigate(next Screen) (Model, tea.Cmd) {
	m.history = append(m.history, m.screen)
	return m.switchTo(next)
}

// back pops one screen, staying on home when the stack is empty.
func (m Model) back() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		if m.screen == ScreenHome {
			return m, nil
		}
		return m.switchTo(ScreenHome)
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.switchTo(prev)
}

func (m Model) switchTo(next Screen) (Model, tea.Cmd) {
	for _, release := range m.releases {
		release()
	}
	m.screen = next
	m.notice = ""
	m.releases = m.observe()

	var cmds []tea.Cmd
	switch next {
	case ScreenDetail:
		m.syncDetail(true)
	case ScreenLogs:
		cmds = append(cmds, loadLogsCmd(m.logPath))
	}
	cmds = append(cmds, m.fetchScreen())
	return m, tea.Batch(cmds...)
}

// observe marks the current screen's queries as in use so the refresher
// keeps them current.
func (m Model) observe() []func() {
	if m.hooks == nil {
		return nil
	}
	switch m.screen {
	case ScreenHome:
		return []func(){m.hooks.Tags().Observe(), m.hooks.Recipes().Observe()}
	case ScreenTag:
		return []func(){m.hooks.RecipesByTag(m.tag).Observe()}
	case ScreenDetail:
		return []func(){m.hooks.RecipeByID(m.detailID).Observe()}
	default:
		return nil
	}
}

// fetchScreen loads whatever the current screen shows.
func (m Model) fetchScreen() tea.Cmd {
	if m.hooks == nil {
		return nil
	}
	switch m.screen {
	case ScreenHome:
		return tea.Batch(fetchCmd(m.ctx, m.hooks.Tags()), fetchCmd(m.ctx, m.hooks.Recipes()))
	case ScreenTag:
		return fetchCmd(m.ctx, m.hooks.RecipesByTag(m.tag))
	case ScreenDetail:
		return fetchCmd(m.ctx, m.hooks.RecipeByID(m.detailID))
	default:
		return nil
	}
}

func (m *Model) resizeViewports() {
	w := max(m.width-4, 10)
	h := max(m.contentHeight()-3, 1)
	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(w, h)
	}
	m.detailViewport.Width = w
	m.detailViewport.Height = h
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(w, h)
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Hooks == nil {
		return fmt.Errorf("ui requires query hooks")
	}
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	final, err := tea.NewProgram(m, programOpts...).Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
