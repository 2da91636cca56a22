// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Audio AudioConfig `yaml:"audio"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig represents backend API client configuration.
type APIConfig struct {
	BaseURL    string `yaml:"base_url" default:"http://localhost:8080" validate:"required,url"`
	TimeoutMS  int    `yaml:"timeout_ms" default:"30000" validate:"gte=100,lte=120000"`
	MaxRetries int    `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// AudioConfig represents playback source configuration.
// Settings is source-type specific and decoded by the source factory.
type AudioConfig struct {
	Type     string         `yaml:"type" default:"stream" validate:"required"`
	Autoplay *bool          `yaml:"autoplay"` // nil means enabled
	Settings map[string]any `yaml:"settings"`
}

// AutoplayEnabled reports whether a freshly loaded track should start playing
// as soon as its source reports ready.
func (c AudioConfig) AutoplayEnabled() bool {
	return c.Autoplay == nil || *c.Autoplay
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stdout"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for running
// without a config file.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("TUNEBOX_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TUNEBOX_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutMS = n
		}
	}
	if v := os.Getenv("TUNEBOX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
