// ABOUTME: Configuration loading and parsing for coven-throttle
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default windows, matching the action log defaults.
const (
	DefaultRequestThrottle = 10 * time.Second
	DefaultFreshnessCutoff = 300 * time.Second
)

// Config represents the complete coven-throttle configuration
type Config struct {
	Throttle ThrottleConfig `yaml:"throttle" toml:"throttle"`
	Audit    AuditConfig    `yaml:"audit" toml:"audit"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// ThrottleConfig holds the recency windows and tracking filters
type ThrottleConfig struct {
	RequestThrottle time.Duration `yaml:"-" toml:"-"`
	FreshnessCutoff time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	RequestThrottleRaw string `yaml:"request_throttle" toml:"request_throttle"`
	FreshnessCutoffRaw string `yaml:"freshness_cutoff" toml:"freshness_cutoff"`

	// IgnoredPrefixes are type prefixes the tracking hook never logs
	IgnoredPrefixes []string `yaml:"ignored_prefixes" toml:"ignored_prefixes"`
}

// AuditConfig holds the decision store configuration
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Throttle: ThrottleConfig{
			RequestThrottle: DefaultRequestThrottle,
			FreshnessCutoff: DefaultFreshnessCutoff,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Throttle.RequestThrottle <= 0 {
		return fmt.Errorf("throttle.request_throttle must be positive")
	}
	if c.Throttle.FreshnessCutoff <= 0 {
		return fmt.Errorf("throttle.freshness_cutoff must be positive")
	}

	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("audit.path is required when audit is enabled")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Throttle.RequestThrottleRaw != "" {
		cfg.Throttle.RequestThrottle, err = time.ParseDuration(cfg.Throttle.RequestThrottleRaw)
		if err != nil {
			return fmt.Errorf("parsing request_throttle %q: %w", cfg.Throttle.RequestThrottleRaw, err)
		}
	}

	if cfg.Throttle.FreshnessCutoffRaw != "" {
		cfg.Throttle.FreshnessCutoff, err = time.ParseDuration(cfg.Throttle.FreshnessCutoffRaw)
		if err != nil {
			return fmt.Errorf("parsing freshness_cutoff %q: %w", cfg.Throttle.FreshnessCutoffRaw, err)
		}
	}

	return nil
}
