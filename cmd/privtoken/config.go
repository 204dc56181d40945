// config.go - Configuration for the private token CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the CLI configuration.
type Config struct {
	// State
	StateFile string `json:"state_file"`

	// Collaborator selection
	Backend   string `json:"backend"`    // memory | contract
	Prover    string `json:"prover"`     // dev | service
	ProverURL string `json:"prover_url"` // proving service base URL

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StateFile: "private_state.json",
		Backend:   "memory",
		Prover:    "dev",
		ProverURL: "http://localhost:8090",
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from a JSON file, falling back to defaults
// when the file does not exist.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}
	file, err := os.Open(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.StateFile == "" {
		return fmt.Errorf("state_file must not be empty")
	}
	switch c.Backend {
	case "memory", "contract":
	default:
		return fmt.Errorf("backend must be memory or contract, got %q", c.Backend)
	}
	switch c.Prover {
	case "dev", "service":
	default:
		return fmt.Errorf("prover must be dev or service, got %q", c.Prover)
	}
	if c.Prover == "service" && c.ProverURL == "" {
		return fmt.Errorf("prover_url must be set when prover is service")
	}
	return nil
}
