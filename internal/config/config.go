package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWorkers is the default number of files hashed concurrently.
const DefaultWorkers = 8

// Config represents dupescan configuration options
type Config struct {
	// Workers is the number of files hashed concurrently
	Workers int `yaml:"workers"`

	// IgnoreSymlinks skips symlinked files and directories
	IgnoreSymlinks bool `yaml:"ignore_symlinks"`

	// LogLevel sets the console logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables a per-run log file in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// ReportPath is where the YAML duplicate report is written (empty = no report)
	ReportPath string `yaml:"report_path"`

	// Strict turns unreadable sub-directories into a failed run
	Strict bool `yaml:"strict"`

	// Summary prints the summary table after the scan
	Summary bool `yaml:"summary"`

	// NoColor disables colored output
	NoColor bool `yaml:"no_color"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Workers:        DefaultWorkers,
		IgnoreSymlinks: false,
		LogLevel:       "warn",
		LogDir:         "",
		ReportPath:     "",
		Strict:         false,
		Summary:        false,
		NoColor:        false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
// Keys present in the file override defaults; absent keys keep them.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields tell "absent" apart from an explicit zero value.
	type yamlConfig struct {
		Workers        *int    `yaml:"workers"`
		IgnoreSymlinks *bool   `yaml:"ignore_symlinks"`
		LogLevel       *string `yaml:"log_level"`
		LogDir         *string `yaml:"log_dir"`
		ReportPath     *string `yaml:"report_path"`
		Strict         *bool   `yaml:"strict"`
		Summary        *bool   `yaml:"summary"`
		NoColor        *bool   `yaml:"no_color"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.apply(Overrides{
		Workers:        yamlCfg.Workers,
		IgnoreSymlinks: yamlCfg.IgnoreSymlinks,
		LogLevel:       yamlCfg.LogLevel,
		LogDir:         yamlCfg.LogDir,
		ReportPath:     yamlCfg.ReportPath,
		Strict:         yamlCfg.Strict,
		Summary:        yamlCfg.Summary,
		NoColor:        yamlCfg.NoColor,
	})

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .dupescan/config.yaml in the specified directory.
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".dupescan", "config.yaml"))
}

// Overrides holds optional values layered on top of a Config.
// A nil field leaves the corresponding setting unchanged.
type Overrides struct {
	Workers        *int
	IgnoreSymlinks *bool
	LogLevel       *string
	LogDir         *string
	ReportPath     *string
	Strict         *bool
	Summary        *bool
	NoColor        *bool
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, so CLI flags take
// precedence over config file settings.
func (c *Config) MergeWithFlags(flags Overrides) {
	c.apply(flags)
}

func (c *Config) apply(o Overrides) {
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.IgnoreSymlinks != nil {
		c.IgnoreSymlinks = *o.IgnoreSymlinks
	}
	if o.LogLevel != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*o.LogLevel))
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.ReportPath != nil {
		c.ReportPath = *o.ReportPath
	}
	if o.Strict != nil {
		c.Strict = *o.Strict
	}
	if o.Summary != nil {
		c.Summary = *o.Summary
	}
	if o.NoColor != nil {
		c.NoColor = *o.NoColor
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.ReportPath != "" {
		if info, err := os.Stat(c.ReportPath); err == nil && info.IsDir() {
			return fmt.Errorf("report_path %q is a directory", c.ReportPath)
		}
	}

	return nil
}
