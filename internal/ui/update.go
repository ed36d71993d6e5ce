package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kostyay/hogwatch/internal/metrics"
	"github.com/kostyay/hogwatch/internal/refresh"
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		gridHeight := msg.Height - footerHeight
		if gridHeight < 1 {
			gridHeight = 1
		}
		if !m.ready {
			m.grid = NewGrid(msg.Width, gridHeight)
			m.ready = true
		} else {
			m.grid.Resize(msg.Width, gridHeight)
		}
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if matchKey(msg.String(), KeyInterrupt) {
			return m.quit(), tea.Quit
		}
		m.pending = append(m.pending, msg.String())
		return m, nil

	case TickMsg:
		m = m.refresh()
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// refresh runs one cycle: at most one queued key, then evict, aggregate,
// rank and draw.
func (m Model) refresh() Model {
	quit := false
	if len(m.pending) > 0 {
		input := m.pending[0]
		m.pending = m.pending[1:]
		HandleKey(&m.state, input, func() { quit = true })
	}

	now := m.clock()
	start := time.Now()
	m.graph.Lock()
	m.last = m.engine.Aggregate(m.graph, now, m.state.Mode)
	m.graph.Unlock()
	metrics.RecordTick(len(m.last.Lines), m.last.EvictedProcesses, m.last.EvictedConns, time.Since(start))

	ranked := refresh.Rank(m.last.Lines, m.state.Sort)
	if m.ready {
		m.renderer.Draw(m.grid, ranked, &m.state)
	}

	if quit {
		m = m.quit()
	}
	return m
}

func (m Model) quit() Model {
	if !m.quitting {
		m.quitting = true
		m.onQuit()
	}
	return m
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
