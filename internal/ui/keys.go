package ui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/kostyay/hogwatch/internal/model"
)

// Keybindings handled once per refresh.
var (
	KeyQuit     = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	KeySortSent = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by sent"))
	KeySortRecv = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sort by received"))
	KeyMode     = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "switch units"))
)

// KeyInterrupt quits immediately instead of waiting for the next refresh.
var KeyInterrupt = key.NewBinding(key.WithKeys("ctrl+c"))

// keyMap feeds the footer help.
type keyMap struct{}

func (keyMap) ShortHelp() []key.Binding {
	return []key.Binding{KeyQuit, KeySortSent, KeySortRecv, KeyMode}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// HandleKey applies one key press to state. quit is called for the quit key.
// It reports whether the key was recognized.
func HandleKey(state *model.ViewState, input string, quit func()) bool {
	switch {
	case matchKey(input, KeyQuit):
		if quit != nil {
			quit()
		}
	case matchKey(input, KeySortSent):
		state.Sort = model.SortBySent
	case matchKey(input, KeySortRecv):
		state.Sort = model.SortByRecv
	case matchKey(input, KeyMode):
		state.Mode = state.Mode.Next()
	default:
		return false
	}
	return true
}

// matchKey checks if the input matches any enabled binding.
func matchKey(input string, bindings ...key.Binding) bool {
	for _, b := range bindings {
		if b.Enabled() && slices.Contains(b.Keys(), input) {
			return true
		}
	}
	return false
}
