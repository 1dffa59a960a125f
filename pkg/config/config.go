// Package config loads and validates bridge configuration.
//
// Configuration can come from a YAML file, from command line flags, or
// from a mix of both. Validation happens once at startup; an invalid
// configuration is fatal, the bridge never starts with a bad poll
// interval or a missing device address.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrMissingDevice   = errors.New("device address is required")
	ErrInvalidInterval = errors.New("poll interval must be positive")
	ErrInvalidPort     = errors.New("listen port out of range")
)

// Default configuration values.
const (
	DefaultCommunity    = "public"
	DefaultPollInterval = 5 * time.Second
	DefaultListenPort   = 7654
	DefaultLogLevel     = "info"
)

// Config holds the complete bridge configuration.
type Config struct {
	// DeviceAddress is the host or host:port of the monitored device.
	DeviceAddress string `yaml:"deviceAddress"`
	// Community is the read community string.
	Community string `yaml:"community"`
	// PollIntervalMS is the poll period in milliseconds.
	PollIntervalMS int `yaml:"pollIntervalMs"`
	// ListenPort is the TCP port the tree is served on. Zero disables
	// the network listener.
	ListenPort int `yaml:"listenPort"`
	// LogLevel selects the slog level: debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
	// EventLogPath, when set, appends CBOR events to the given file.
	EventLogPath string `yaml:"eventLogPath"`
	// Advertise enables mDNS advertisement of the tree service.
	Advertise bool `yaml:"advertise"`
}

// Default returns a configuration with all defaults applied and no
// device address set.
func Default() *Config {
	return &Config{
		Community:      DefaultCommunity,
		PollIntervalMS: int(DefaultPollInterval / time.Millisecond),
		ListenPort:     DefaultListenPort,
		LogLevel:       DefaultLogLevel,
	}
}

// Parse parses a configuration from YAML bytes on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Load loads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// PollInterval returns the poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Validate checks the configuration for startup. Any error returned
// here is fatal.
func (c *Config) Validate() error {
	if c.DeviceAddress == "" {
		return ErrMissingDevice
	}
	if c.PollIntervalMS <= 0 {
		return ErrInvalidInterval
	}
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.ListenPort)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
