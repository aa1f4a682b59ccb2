// Package config loads the CLI configuration file.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Hub       HubConfig       `yaml:"hub"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// HubConfig contains hub connection settings
type HubConfig struct {
	Host    string   `yaml:"host"`    // Hub address; empty triggers mDNS discovery
	Secret  string   `yaml:"secret"`  // Hub API secret
	Units   string   `yaml:"units"`   // "metric" or "imperial"
	Timeout Duration `yaml:"timeout"` // HTTP timeout for hub requests
}

// DiscoveryConfig contains mDNS browse settings
type DiscoveryConfig struct {
	MinSearchTime Duration `yaml:"min_search_time"` // Keep listening at least this long with no answers
	MaxSearchTime Duration `yaml:"max_search_time"` // Hard cap on the browse
}

// OutputConfig contains snapshot dump settings
type OutputConfig struct {
	Directory string `yaml:"directory"` // Defaults to ~/wiser_data
	Anonymize bool   `yaml:"anonymize"` // Scrub identifying fields from dumps
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
}

// GetLevel returns the configured log level string
func (l LogConfig) GetLevel() string {
	return l.Level
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads the config file, expands environment variables, and applies
// defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Hub.Host == "" {
		cfg.Hub.Host = os.Getenv("WISER_HOST")
	}
	if cfg.Hub.Secret == "" {
		cfg.Hub.Secret = os.Getenv("WISER_SECRET")
	}
	if cfg.Hub.Units == "" {
		cfg.Hub.Units = "metric"
	}
	if cfg.Hub.Timeout == 0 {
		cfg.Hub.Timeout = Duration(15 * time.Second)
	}
	if cfg.Discovery.MinSearchTime == 0 {
		cfg.Discovery.MinSearchTime = Duration(2 * time.Second)
	}
	if cfg.Discovery.MaxSearchTime == 0 {
		cfg.Discovery.MaxSearchTime = Duration(10 * time.Second)
	}
	if cfg.Output.Directory == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Output.Directory = filepath.Join(home, "wiser_data")
		} else {
			cfg.Output.Directory = "wiser_data"
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
