package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/refresh"
)

// MinProgNameWidth is the narrowest program column budget the table layout
// can work with.
const MinProgNameWidth = 60

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid settings")

// Settings holds user-configurable options.
type Settings struct {
	Period         time.Duration `yaml:"period"`         // Refresh period, also the rate denominator
	ConnTimeout    time.Duration `yaml:"connTimeout"`    // Drop connections idle this long
	ProcessTimeout time.Duration `yaml:"processTimeout"` // Drop processes idle this long
	ProgNameWidth  int           `yaml:"progNameWidth"`  // Cap on the columns used by the table
	ViewMode       string        `yaml:"viewMode"`       // kbps, total-kb, total-b, total-mb
	SortBy         string        `yaml:"sortBy"`         // sent or recv
	Device         string        `yaml:"device"`         // Capture device; empty picks the first active one
	MetricsAddr    string        `yaml:"metricsAddr"`    // Prometheus listen address; empty disables
}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		Period:         refresh.DefaultPeriod,
		ConnTimeout:    refresh.DefaultConnTimeout,
		ProcessTimeout: refresh.DefaultProcessTimeout,
		ProgNameWidth:  512,
		ViewMode:       model.ModeKBps.String(),
		SortBy:         model.SortByRecv.String(),
	}
}

// Validate checks the settings for values the refresh cycle cannot use.
func (s *Settings) Validate() error {
	if s.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %v", ErrInvalid, s.Period)
	}
	if s.ConnTimeout <= 0 {
		return fmt.Errorf("%w: connTimeout must be positive, got %v", ErrInvalid, s.ConnTimeout)
	}
	if s.ProcessTimeout <= 0 {
		return fmt.Errorf("%w: processTimeout must be positive, got %v", ErrInvalid, s.ProcessTimeout)
	}
	if s.ProgNameWidth < MinProgNameWidth {
		return fmt.Errorf("%w: progNameWidth must be at least %d, got %d", ErrInvalid, MinProgNameWidth, s.ProgNameWidth)
	}
	if _, err := model.ParseViewMode(s.ViewMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := model.ParseSortKey(s.SortBy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// RefreshConfig returns the timing constants for the refresh engine.
func (s *Settings) RefreshConfig() refresh.Config {
	return refresh.Config{
		Period:         s.Period,
		ConnTimeout:    s.ConnTimeout,
		ProcessTimeout: s.ProcessTimeout,
	}
}

// ViewState returns the initial view state. Settings must be valid.
func (s *Settings) ViewState() model.ViewState {
	state := model.DefaultViewState()
	if m, err := model.ParseViewMode(s.ViewMode); err == nil {
		state.Mode = m
	}
	if k, err := model.ParseSortKey(s.SortBy); err == nil {
		state.Sort = k
	}
	return state
}

// settingsPath returns the path to the settings file.
func settingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hogwatch", "settings.yaml"), nil
}

// LoadSettings loads settings from disk, returning defaults if not found.
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return DefaultSettings(), nil
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads settings from path. Keys missing from the file keep
// their default values; a missing file yields the defaults.
func LoadSettingsFrom(path string) (*Settings, error) {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}

	return settings, nil
}

// SaveSettings writes settings to the user's config directory.
func SaveSettings(s *Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	return SaveSettingsTo(path, s)
}

// SaveSettingsTo writes settings to path, creating parent directories.
func SaveSettingsTo(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
