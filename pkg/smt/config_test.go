package smt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	config, err := DecodeConfig(map[string]any{
		"solverPath":    "/opt/z3/bin/z3",
		"timeLimitPath": "timelimit",
		"timeBudget":    "30s",
		"grace":         "2s",
	})

	require.NoError(t, err)
	assert.Equal(t, Config{
		SolverPath:    "/opt/z3/bin/z3",
		SolverArgs:    []string{"-smt2", "-in"},
		TimeLimitPath: "timelimit",
		TimeBudget:    30 * time.Second,
		Grace:         2 * time.Second,
	}, config)
}

func TestDecodeConfigInvalid(t *testing.T) {
	scenarios := []map[string]any{
		{"solverPath": ""},
		{"timeBudget": "0s"},
		{"grace": "-1s"},
		{"timeBudget": "soon"},
		{"solverArgs": 42},
	}

	for _, scenario := range scenarios {
		_, err := DecodeConfig(scenario)
		assert.Error(t, err, "%v", scenario)
	}
}

func TestLoadConfig(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), "config.json")
	content := `{"solverPath": "cvc5", "solverArgs": ["--lang=smt2", "--incremental"], "timeBudget": "1m"}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0666))

	//** Act
	config, err := LoadConfig(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "cvc5", config.SolverPath)
	assert.Equal(t, []string{"--lang=smt2", "--incremental"}, config.SolverArgs)
	assert.Equal(t, time.Minute, config.TimeBudget)
	assert.Equal(t, time.Second, config.Grace)
}

func TestDecodeConfigNumbersAreSeconds(t *testing.T) {
	// Numbers decoded from json arrive as float64
	config, err := DecodeConfig(map[string]any{"timeBudget": float64(5), "grace": 1, "solverPath": "z3"})

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, config.TimeBudget)
	assert.Equal(t, time.Second, config.Grace)

	config, err = DecodeConfig(map[string]any{"timeBudget": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, config.TimeBudget)

	_, err = DecodeConfig(map[string]any{"grace": -1})
	assert.Error(t, err)
}

func TestLoadConfigNumericDurations(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"timeBudget": 5, "grace": 1}`), 0666))

	config, err := LoadConfig(file)

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, config.TimeBudget)
	assert.Equal(t, time.Second, config.Grace)
}

func TestDecodeConfigReplacesArguments(t *testing.T) {
	config, err := DecodeConfig(map[string]any{"solverArgs": []any{"-in"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"-in"}, config.SolverArgs)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
