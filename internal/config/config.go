package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/paths"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

// SortNone disables sorting of the unfiltered list.
const SortNone = "none"

// ErrSort is returned for an unknown sort setting.
var ErrSort = errors.New("invalid sort")

// Theme overrides colors of the default theme. Empty fields keep the
// default.
type Theme struct {
	Primary     string `yaml:"primary"`
	Accent      string `yaml:"accent"`
	Error       string `yaml:"error"`
	Text        string `yaml:"text"`
	Muted       string `yaml:"muted"`
	Placeholder string `yaml:"placeholder"`
	Disabled    string `yaml:"disabled"`
	Background  string `yaml:"background"`
	Surface     string `yaml:"surface"`
	Border      string `yaml:"border"`
}

// Config represents the picker configuration.
type Config struct {
	// Requires is a semver constraint the running binary must satisfy.
	Requires string `yaml:"requires"`

	Theme Theme `yaml:"theme"`

	Placeholder       string `yaml:"placeholder"`
	SearchPlaceholder string `yaml:"search_placeholder"`
	EmptyText         string `yaml:"empty_text"`
	HelperText        string `yaml:"helper_text"`
	ErrorColor        string `yaml:"error_color"`

	// Sort is asc, desc or none.
	Sort        string `yaml:"sort"`
	Search      bool   `yaml:"search"`
	Floating    bool   `yaml:"floating"`
	DisableTick bool   `yaml:"disable_tick"`
	Width       int    `yaml:"width"`
	MaxRows     int    `yaml:"max_rows"`
	Spinner     string `yaml:"spinner"`

	AnimationIn  string `yaml:"animation_in"`
	AnimationOut string `yaml:"animation_out"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// LogOff as log_file turns logging off.
const LogOff = "off"

// LoggingDisabled reports whether log_file is set to LogOff.
func (c Config) LoggingDisabled() bool {
	return strings.EqualFold(strings.TrimSpace(c.LogFile), LogOff)
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Placeholder:       "Select item",
		SearchPlaceholder: "Search",
		EmptyText:         "No options available",
		Sort:              string(option.Asc),
		Width:             40,
		MaxRows:           8,
		Spinner:           "dots",
		AnimationIn:       "fadeIn",
		AnimationOut:      "fadeOut",
		LogLevel:          "info",
		LogFile:           paths.LogFile(),
	}
}

// Load reads configuration from the given path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = paths.LogFile()
	}
	if _, _, err := cfg.SortOrder(); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SortOrder returns whether sorting is enabled and in which order.
func (c Config) SortOrder() (bool, option.SortOrder, error) {
	if strings.EqualFold(strings.TrimSpace(c.Sort), SortNone) {
		return false, option.Asc, nil
	}
	order, err := option.ParseSortOrder(c.Sort)
	if err != nil {
		return false, option.Asc, fmt.Errorf("%w: %q", ErrSort, c.Sort)
	}
	return true, order, nil
}

// StyleTheme returns the default theme with the configured colors applied.
func (c Config) StyleTheme() *styles.Theme {
	t := c.Theme
	return styles.DefaultTheme().Override(styles.Theme{
		Primary:     lipgloss.Color(t.Primary),
		Accent:      lipgloss.Color(t.Accent),
		Error:       lipgloss.Color(t.Error),
		Text:        lipgloss.Color(t.Text),
		Muted:       lipgloss.Color(t.Muted),
		Placeholder: lipgloss.Color(t.Placeholder),
		Disabled:    lipgloss.Color(t.Disabled),
		Background:  lipgloss.Color(t.Background),
		Surface:     lipgloss.Color(t.Surface),
		Border:      lipgloss.Color(t.Border),
	})
}

// VersionError is returned when the binary does not satisfy the config's
// requires constraint.
type VersionError struct {
	Found    string
	Required string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("config requires pickr %s, running %s", e.Required, e.Found)
}

// CheckVersion validates version against the requires constraint. Empty
// constraints and development builds always pass.
func (c Config) CheckVersion(version string) error {
	if strings.TrimSpace(c.Requires) == "" || strings.Contains(version, "devel") {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
	}
	found, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	if !constraint.Check(found) {
		return &VersionError{Found: version, Required: c.Requires}
	}
	return nil
}
