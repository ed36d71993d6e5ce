package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kostyay/hogwatch/internal/config"
)

// Theme-aware style getters

// CellStyle returns the style for process rows.
func CellStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Table.FgColor))
}

// HeaderRowStyle returns the style for the column header row.
func HeaderRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Table.HeaderFgColor)).
		Background(lipgloss.Color(config.CurrentTheme.Styles.Table.HeaderBgColor)).
		Bold(true)
}

// TotalRowStyle returns the style for the TOTAL row.
func TotalRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Table.TotalFgColor)).
		Background(lipgloss.Color(config.CurrentTheme.Styles.Table.TotalBgColor))
}

// WarnStyle returns the style for warning/attention text (amber).
func WarnStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Status.WarnFgColor))
}

// LoadingStyle returns the style for loading indicators.
func LoadingStyle() lipgloss.Style {
	return WarnStyle().Italic(true)
}

// FooterCaptionStyle returns the style for the program caption.
func FooterCaptionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Footer.CaptionFgColor)).
		Bold(true)
}

// FooterKeyStyle returns the style for keyboard shortcut keys in footer.
func FooterKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Footer.KeyFgColor))
}

// FooterDescStyle returns the style for key descriptions in footer.
func FooterDescStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(config.CurrentTheme.Styles.Footer.DescFgColor))
}

func styleFor(attr Attr) lipgloss.Style {
	switch attr {
	case AttrHeader:
		return HeaderRowStyle()
	case AttrTotal:
		return TotalRowStyle()
	case AttrWarn:
		return WarnStyle()
	default:
		return CellStyle()
	}
}
