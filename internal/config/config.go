// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/custdesk/internal/logging"
)

// Config holds all custdesk configuration.
type Config struct {
	Store Store `yaml:"store"`
	Log   Log   `yaml:"log"`
}

// Store holds the backing file settings shared by both screens.
type Store struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// Log holds operator log settings.
type Log struct {
	Level string `yaml:"level"` // trace | debug | info | warn | error
	File  string `yaml:"file"`  // empty disables the log
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: Store{
			Path:        "customer_data.db",
			BusyTimeout: 5 * time.Second,
		},
		Log: Log{
			Level: "info",
			File:  ".custdesk/custdesk.log",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.New("config: store.path cannot be empty")
	}
	if c.Store.BusyTimeout <= 0 {
		return fmt.Errorf("config: store.busy_timeout must be positive, got %v", c.Store.BusyTimeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level must be one of %v, got %q", logging.Levels, c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CUSTDESK_DB, CUSTDESK_BUSY_TIMEOUT, CUSTDESK_LOG_LEVEL, CUSTDESK_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CUSTDESK_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CUSTDESK_BUSY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid CUSTDESK_BUSY_TIMEOUT %q: %w", v, err)
		}
		c.Store.BusyTimeout = d
	}
	if v := os.Getenv("CUSTDESK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("CUSTDESK_LOG_FILE"); ok {
		// Set-but-empty disables the log file.
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Store *rawStore `yaml:"store"`
	Log   *rawLog   `yaml:"log"`
}

type rawStore struct {
	Path        *string        `yaml:"path"`
	BusyTimeout *time.Duration `yaml:"busy_timeout"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Store != nil {
		if layer.Store.Path != nil {
			c.Store.Path = *layer.Store.Path
		}
		if layer.Store.BusyTimeout != nil {
			c.Store.BusyTimeout = *layer.Store.BusyTimeout
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
