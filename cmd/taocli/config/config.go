// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the on-disk configuration of the CLI.
type ClientConfig struct {
	// Endpoint is the node's websocket RPC URL.
	Endpoint string `yaml:"endpoint"`

	// Netuid is the default subnet when a command does not pass --netuid.
	Netuid uint16 `yaml:"netuid"`

	// Coldkey is the default SS58 account whose positions are queried.
	Coldkey string `yaml:"coldkey"`

	// LogFile receives the structured log; empty logs to stderr.
	LogFile string `yaml:"logFile"`
}

func (c *ClientConfig) validate() error {
	if c.Endpoint == "" {
		return errors.New("config: endpoint is required")
	}
	return nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*ClientConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
