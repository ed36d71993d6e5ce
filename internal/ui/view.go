package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Wait for the grid to be sized
	if !m.ready {
		return LoadingStyle().Render("Initializing...")
	}

	var b strings.Builder
	b.WriteString(m.grid.Render())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderFooter renders the caption followed by the key help.
func (m Model) renderFooter() string {
	caption := FooterCaptionStyle().Render(m.caption)
	keys := m.help.View(keyMap{})

	gap := m.width - lipgloss.Width(caption) - lipgloss.Width(keys)
	if gap < 2 {
		gap = 2
	}
	return caption + strings.Repeat(" ", gap) + keys
}
