package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend":"contract","prover":"service","prover_url":"http://prover:9000"}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "contract", cfg.Backend)
	assert.Equal(t, "service", cfg.Prover)
	assert.Equal(t, "http://prover:9000", cfg.ProverURL)
	// Unset fields keep their defaults.
	assert.Equal(t, "private_state.json", cfg.StateFile)
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Prover = "service"
	cfg.ProverURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.StateFile = ""
	assert.Error(t, cfg.Validate())
}
