package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonview/internal/errors"
)

// Layouts
const (
	LayoutDocument = "document"
	LayoutBooking  = "booking"
)

// Output formats
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Defaults
const (
	DefaultTimeout = 10 * time.Second
	DefaultAddr    = ":8080"
)

// Config represents the complete configuration for jsonview
type Config struct {
	Source SourceConfig `yaml:"source"`
	Layout string       `yaml:"layout"`
	Output OutputConfig `yaml:"output"`
	Labels LabelsConfig `yaml:"labels"`
	Serve  ServeConfig  `yaml:"serve"`
	Dev    DevConfig    `yaml:"dev"`
}

// SourceConfig says where the document is loaded from
type SourceConfig struct {
	URL     string            `yaml:"url"`
	File    string            `yaml:"file"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// OutputConfig controls how the page is presented
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
	Raw    bool   `yaml:"raw"`
}

// LabelsConfig controls how mapping keys are displayed
type LabelsConfig struct {
	Humanize bool `yaml:"humanize"`
}

// ServeConfig configures the HTTP page server
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Timeout: DefaultTimeout,
			Headers: make(map[string]string),
		},
		Layout: LayoutDocument,
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
			Raw:    false,
		},
		Labels: LabelsConfig{
			Humanize: false,
		},
		Serve: ServeConfig{
			Addr: DefaultAddr,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}
	if cfg.Source.Headers == nil {
		cfg.Source.Headers = make(map[string]string)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonview.yml", ".jsonview.yaml", "jsonview.yml", "jsonview.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the configuration for values the program cannot act on
func (c *Config) Validate() error {
	switch {
	case c.Source.URL == "" && c.Source.File == "":
		return errors.NewConfigError("no source configured", errors.ErrNoSource)
	case c.Source.URL != "" && c.Source.File != "":
		return errors.NewConfigError("source.url and source.file are mutually exclusive", nil)
	}
	if c.Source.Timeout < 0 {
		return errors.NewConfigError(fmt.Sprintf("timeout must not be negative, got %s", c.Source.Timeout), nil)
	}
	switch c.Layout {
	case LayoutDocument, LayoutBooking:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown layout '%s'", c.Layout), errors.ErrUnknownLayout)
	}
	switch c.Output.Format {
	case FormatText, FormatHTML, FormatJSON:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown output format '%s'", c.Output.Format), errors.ErrUnknownFormat)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown color mode '%s'", c.Output.Color), nil)
	}
	return nil
}

// DisplayLabel returns the text shown for a mapping key
func (c *Config) DisplayLabel(key string) string {
	if c.Labels.Humanize {
		return strcase.ToDelimited(key, ' ')
	}
	return key
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not given.
type Overrides struct {
	URL      string
	File     string
	Timeout  time.Duration
	Layout   string
	Format   string
	Color    string
	Addr     string
	Raw      bool
	Humanize bool
	Debug    bool
}

// MergeConfigs applies CLI overrides on top of a base config.
// Non-empty values from override take precedence over base values; boolean
// flags can only switch an option on.
func MergeConfigs(base *Config, override Overrides) *Config {
	merged := *base
	merged.Source.Headers = make(map[string]string, len(base.Source.Headers))
	for k, v := range base.Source.Headers {
		merged.Source.Headers[k] = v
	}

	// A source given on the command line replaces the configured one.
	if override.URL != "" {
		merged.Source.URL = override.URL
		merged.Source.File = ""
	}
	if override.File != "" {
		merged.Source.File = override.File
		merged.Source.URL = ""
	}
	if override.Timeout > 0 {
		merged.Source.Timeout = override.Timeout
	}
	if override.Layout != "" {
		merged.Layout = override.Layout
	}
	if override.Format != "" {
		merged.Output.Format = override.Format
	}
	if override.Color != "" {
		merged.Output.Color = override.Color
	}
	if override.Addr != "" {
		merged.Serve.Addr = override.Addr
	}
	merged.Output.Raw = merged.Output.Raw || override.Raw
	merged.Labels.Humanize = merged.Labels.Humanize || override.Humanize
	merged.Dev.Debug = merged.Dev.Debug || override.Debug

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence. With an empty
// configPath the nearest config file found by FindConfigFile is used, if any.
func LoadConfigWithCLI(configPath string, override Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg = MergeConfigs(cfg, override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
