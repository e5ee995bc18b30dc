// Package config defines core configuration types for genqa.
// These types are pure data structures; discovery, env overrides, and
// merging live in internal/configloader.
package config

import "fmt"

// OutputFormat specifies the report output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// MetricsConfig holds report locations for the metrics command. Empty
// paths fall back to auto-detection under the project root.
type MetricsConfig struct {
	Pit    string `yaml:"pit"`
	Jacoco string `yaml:"jacoco"`
	CSV    string `yaml:"csv"`
}

// Config is the root configuration structure for genqa.
type Config struct {
	// Format specifies the report output format ("text" or "json").
	Format OutputFormat `yaml:"format"`

	// Jobs is the number of parallel document workers (0 = auto).
	Jobs int `yaml:"jobs"`

	// RecordsName is the record file name looked up inside attempt
	// folders.
	RecordsName string `yaml:"records_name"`

	// Attempt is the attempt number probed during run discovery.
	Attempt int `yaml:"attempt"`

	// TestsDir is the generated-test folder name inside run backups.
	TestsDir string `yaml:"tests_dir"`

	// ShowSummary appends an aggregate summary line to text reports.
	// A nil value means "not set", so a later layer saying false can
	// still override an earlier layer saying true.
	ShowSummary *bool `yaml:"show_summary,omitempty"`

	// Metrics holds report locations for the metrics command.
	Metrics MetricsConfig `yaml:"metrics"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:      FormatText,
		Jobs:        0,
		RecordsName: "records.json",
		Attempt:     4,
		TestsDir:    "chatunitest-tests",
		ShowSummary: Bool(true),
	}
}

// Bool returns a pointer to v, for populating optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

// SummaryEnabled reports the effective show_summary value. An unset
// field keeps the default of showing the summary.
func (c *Config) SummaryEnabled() bool {
	return c.ShowSummary == nil || *c.ShowSummary
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Format != "" && !c.Format.IsValid() {
		return fmt.Errorf("invalid format: %q (expected text or json)", c.Format)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.Attempt < 0 {
		return fmt.Errorf("attempt must be >= 0, got %d", c.Attempt)
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.ShowSummary != nil {
		clone.ShowSummary = Bool(*c.ShowSummary)
	}
	return &clone
}
