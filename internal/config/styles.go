package config

import (
	"embed"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed skins/industrial.yaml skins/classic.yaml
var defaultSkin embed.FS

// Color represents a hex or ANSI color string.
type Color string

// TableStyle defines colors for the traffic table.
type TableStyle struct {
	FgColor       Color `yaml:"fgColor"`
	HeaderFgColor Color `yaml:"headerFgColor"` // Column header row
	HeaderBgColor Color `yaml:"headerBgColor"`
	TotalFgColor  Color `yaml:"totalFgColor"` // TOTAL row
	TotalBgColor  Color `yaml:"totalBgColor"`
}

// FooterStyle defines colors for the footer line.
type FooterStyle struct {
	CaptionFgColor Color `yaml:"captionFgColor"`
	KeyFgColor     Color `yaml:"keyFgColor"`
	DescFgColor    Color `yaml:"descFgColor"`
}

// StatusStyle defines colors for notices.
type StatusStyle struct {
	WarnFgColor Color `yaml:"warnFgColor"` // "terminal too narrow"
}

// Styles holds all the theme colors.
type Styles struct {
	Table  TableStyle  `yaml:"table"`
	Footer FooterStyle `yaml:"footer"`
	Status StatusStyle `yaml:"status"`
}

// Theme is the top-level theme configuration.
type Theme struct {
	Name   string `yaml:"name"`
	Styles Styles `yaml:"styles"`
}

// DefaultTheme returns the built-in Industrial theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "industrial",
		Styles: Styles{
			Table: TableStyle{
				FgColor:       "#e6edf3",
				HeaderFgColor: "#0d1117",
				HeaderBgColor: "#3fb950",
				TotalFgColor:  "#0d1117",
				TotalBgColor:  "#39c5cf",
			},
			Footer: FooterStyle{
				CaptionFgColor: "#58a6ff",
				KeyFgColor:     "#58a6ff",
				DescFgColor:    "#7d8590",
			},
			Status: StatusStyle{
				WarnFgColor: "#d29922",
			},
		},
	}
}

// LoadTheme loads a theme from the user's config directory or returns the default.
func LoadTheme() (*Theme, error) {
	configDir, err := os.UserConfigDir()
	if err == nil {
		if theme, err := LoadThemeFrom(filepath.Join(configDir, "hogwatch", "skin.yaml")); err == nil {
			return theme, nil
		}
	}
	return EmbeddedTheme("industrial"), nil
}

// LoadThemeFrom reads a skin file.
func LoadThemeFrom(path string) (*Theme, error) {
	// #nosec G304 - path is the user's own skin file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// EmbeddedTheme returns one of the bundled skins, or DefaultTheme when name
// is not bundled.
func EmbeddedTheme(name string) *Theme {
	data, err := defaultSkin.ReadFile("skins/" + name + ".yaml")
	if err != nil {
		return DefaultTheme()
	}

	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return DefaultTheme()
	}

	return &theme
}

// CurrentTheme holds the loaded theme (singleton).
var CurrentTheme *Theme

// InitTheme initializes the global theme.
func InitTheme() error {
	theme, err := LoadTheme()
	if err != nil {
		return err
	}
	CurrentTheme = theme
	return nil
}

func init() {
	// Initialize with default theme on package load
	CurrentTheme = DefaultTheme()
}
