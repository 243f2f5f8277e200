// Package config loads the simval command configuration from YAML files and environment
// variables.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config contains every simval command setting.
type Config struct {
	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`

	// Sales configures the sales recipe used by the command.
	Sales SalesConfig `yaml:"sales"`

	// Validation configures the validation harness.
	Validation ValidationConfig `yaml:"validation"`

	// Metrics configures the exported step durations.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format"`
}

// SalesConfig configures the sales recipe.
type SalesConfig struct {
	// Minimum is the floor applied to simulated units.
	Minimum float64 `yaml:"minimum"`
	// Seed makes every simulated table identical when set.
	Seed *int `yaml:"seed,omitempty"`
}

// ValidationConfig configures the validation harness.
type ValidationConfig struct {
	Runs  int   `yaml:"runs"`
	Sizes []int `yaml:"sizes"`
	// Parallel spreads runs over Workers goroutines.
	Parallel bool `yaml:"parallel"`
	// Workers defaults to the number of usable CPUs when 0.
	Workers int `yaml:"workers"`
	// ContinueOnError keeps running when a run fails.
	ContinueOnError bool `yaml:"continue_on_error"`
	// ModelBias is the relative bias of the reference model.
	ModelBias float64 `yaml:"model_bias"`
}

// MetricsConfig configures the Prometheus measure.
type MetricsConfig struct {
	// Namespace prefixes every exported metric.
	Namespace string `yaml:"namespace"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sales: SalesConfig{
			Minimum: 100,
		},
		Validation: ValidationConfig{
			Runs:  10,
			Sizes: []int{100},
		},
		Metrics: MetricsConfig{
			Namespace: "simval",
		},
	}
}

// Load returns the defaults overridden by the file at path, when path is not empty, and by the
// environment.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	err := applyEnvOverrides(config)
	if err != nil {
		return nil, err
	}

	return config, config.Validate()
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return errors.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"": true, "text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return errors.Errorf("invalid log format: %s (valid: text, json)", c.Logging.Format)
	}

	if c.Validation.Runs <= 0 {
		return errors.Errorf("runs must be greater than 0, got %d", c.Validation.Runs)
	}

	if len(c.Validation.Sizes) == 0 {
		return errors.New("at least one size is required")
	}

	for i, size := range c.Validation.Sizes {
		if size <= 0 {
			return errors.Errorf("sizes[%d] must be greater than 0, got %d", i, size)
		}
	}

	if c.Validation.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Validation.Workers)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("SIMVAL_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("SIMVAL_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}

	if v := os.Getenv("SIMVAL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "parsing SIMVAL_WORKERS")
		}
		config.Validation.Workers = n
	}

	if v := os.Getenv("SIMVAL_PARALLEL"); v != "" {
		config.Validation.Parallel = v == "true" || v == "1"
	}

	return nil
}
