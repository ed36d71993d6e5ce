package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/refresh"
	"github.com/kostyay/hogwatch/internal/users"
)

// footerHeight is the number of rows below the grid.
const footerHeight = 1

// Options configure a Model.
type Options struct {
	Graph  *model.Graph
	Engine *refresh.Engine
	Users  users.Resolver

	// State is the initial view state. Defaults to model.DefaultViewState.
	State *model.ViewState

	MaxProgWidth int

	// Clock is sampled once per refresh. Defaults to time.Now.
	Clock func() time.Time

	// OnQuit runs once when the program decides to exit.
	OnQuit func()

	Caption string
}

// Model is the Bubble Tea model for the bandwidth monitor.
type Model struct {
	// Data
	graph    *model.Graph
	engine   *refresh.Engine
	renderer *Renderer

	// View state carried between refreshes
	state   model.ViewState
	pending []string // keys waiting for the next refresh
	last    refresh.Result

	// Screen
	grid *Grid
	help help.Model

	// Configuration
	clock   func() time.Time
	period  time.Duration
	onQuit  func()
	caption string

	// UI State
	quitting bool

	// Dimensions
	width  int
	height int
	ready  bool // true after the grid is sized on the first WindowSizeMsg
}

// NewModel creates a Model. Graph and Engine are required.
func NewModel(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.OnQuit == nil {
		opts.OnQuit = func() {}
	}
	state := model.DefaultViewState()
	if opts.State != nil {
		state = *opts.State
	}
	h := help.New()
	h.Styles.ShortKey = FooterKeyStyle()
	h.Styles.ShortDesc = FooterDescStyle()
	h.Styles.ShortSeparator = FooterDescStyle()

	return Model{
		graph:    opts.Graph,
		engine:   opts.Engine,
		renderer: NewRenderer(opts.Users, opts.MaxProgWidth),
		state:    state,
		help:     h,
		clock:    opts.Clock,
		period:   opts.Engine.Config().Period,
		onQuit:   opts.OnQuit,
		caption:  opts.Caption,
	}
}

// State returns the current view state.
func (m Model) State() model.ViewState {
	return m.state
}

// LastResult returns the outcome of the most recent refresh.
func (m Model) LastResult() refresh.Result {
	return m.last
}

// Grid returns the screen buffer, or nil before the first resize.
func (m Model) Grid() *Grid {
	return m.grid
}

var _ tea.Model = Model{}
