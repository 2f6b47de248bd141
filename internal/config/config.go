// Package config loads the optional qnorm configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendCommand = "command"
	BackendRemote  = "remote"
)

const (
	defaultBackendKind = BackendCommand
	defaultTimeout     = 60 * time.Second
	defaultShots       = 1024
)

var defaultCommand = []string{"moara"}

// BackendConfig selects and configures the execution boundary.
type BackendConfig struct {
	// Kind is "command" (local simulator binary) or "remote" (websocket).
	Kind string `yaml:"kind"`
	// Command is the simulator binary and its leading arguments.
	Command []string `yaml:"command"`
	// URL is the websocket endpoint for the remote backend.
	URL string `yaml:"url"`
	// Timeout bounds one boundary call. Zero after defaults means none.
	Timeout time.Duration `yaml:"timeout"`
}

// WithDefaults returns a copy of the BackendConfig with any missing fields
// set to their default values.
func (c BackendConfig) WithDefaults() BackendConfig {
	cpy := c
	if cpy.Kind == "" {
		cpy.Kind = defaultBackendKind
	}
	if cpy.Kind == BackendCommand && len(cpy.Command) == 0 {
		cpy.Command = append([]string(nil), defaultCommand...)
	}
	if cpy.Timeout == 0 {
		cpy.Timeout = defaultTimeout
	}
	return cpy
}

// StoreConfig locates the run log. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Config is the top-level configuration file.
type Config struct {
	Backend      BackendConfig `yaml:"backend"`
	Shots        int           `yaml:"shots"`
	LittleEndian bool          `yaml:"little_endian"`
	Store        StoreConfig   `yaml:"store"`
}

// WithDefaults returns a copy of the Config with any missing fields set to
// their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	cpy.Backend = cpy.Backend.WithDefaults()
	if cpy.Shots == 0 {
		cpy.Shots = defaultShots
	}
	return cpy
}

// Validate checks field values after defaults are applied.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend.Kind {
	case BackendCommand:
		if len(c.Backend.Command) == 0 {
			errs = append(errs, errors.New("backend.command is required for the command backend"))
		}
	case BackendRemote:
		if c.Backend.URL == "" {
			errs = append(errs, errors.New("backend.url is required for the remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.kind must be %q or %q, got %q", BackendCommand, BackendRemote, c.Backend.Kind))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend.timeout must not be negative"))
	}
	if c.Shots < 0 {
		errs = append(errs, fmt.Errorf("shots must be positive, got %d", c.Shots))
	}
	return errors.Join(errs...)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{}.WithDefaults()
}

// Load reads a YAML configuration file, applies defaults and validates it.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}
