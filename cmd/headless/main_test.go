package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minotaur/internal/config"
)

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Run.Ticks = 5
	cfg.Run.OutputDir = dir
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	summary, err := run(testConfig(t, dir), log.New(io.Discard), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Ticks)

	data, err := os.ReadFile(filepath.Join(dir, "ticks.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 6, "header plus one row per tick")
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "snapshot.png"))
}

func TestRunReturnsErrorsInsteadOfExiting(t *testing.T) {
	dir := t.TempDir()
	// A directory where config.yaml should go makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config.yaml"), 0755))

	_, err := run(testConfig(t, dir), log.New(io.Discard), 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "write config")
	assert.FileExists(t, filepath.Join(dir, "ticks.csv"))
}
