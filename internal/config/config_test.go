package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minotaur/internal/core"
	"minotaur/internal/maze"
	"minotaur/internal/sim"
)

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "rings", cfg.Layout)
	assert.Equal(t, maze.DefaultConfig(), cfg.Maze)
	assert.Equal(t, sim.DefaultConfig(), cfg.SimConfig())
	assert.Equal(t, "info", cfg.Run.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "maze:\n  seed: 7\n  params:\n    replenish_rate: 0.2\nloop:\n  repair_limit: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Maze.Seed)
	assert.InDelta(t, 0.2, cfg.Maze.Params.ReplenishRate, 1e-9)
	assert.Equal(t, 8, cfg.Loop.RepairLimit)
	// Untouched keys keep their defaults.
	assert.Equal(t, 125, cfg.Maze.Width)
	assert.Equal(t, 2000, cfg.Loop.RuleIntervalMS)
	assert.Len(t, cfg.Maze.Params.Rings, 2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maze: [unclosed"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Layout = "bigring"
	cfg.Maze = cfg.Maze.WithBigRings()
	cfg.Run.Ticks = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestBigringLayoutAddsThirdRing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: bigring\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Maze.Params.Rings, 3)
	assert.Equal(t, maze.East, cfg.Maze.Params.Rings[2].Notch)
	assert.Equal(t, maze.BigWidth, cfg.Maze.Width)
	assert.Equal(t, maze.BigHeight, cfg.Maze.Height)
	require.NoError(t, cfg.Validate())

	l, err := sim.New(cfg.SimConfig())
	require.NoError(t, err)
	lm := l.Landmarks()
	third := cfg.Maze.Params.Rings[2]
	walls := 0
	for x := 0; x < lm.Center.X; x++ {
		c := core.Coord{X: x, Y: lm.Center.Y}
		d := core.Distance(c, lm.Center)
		if d <= third.Inner*cfg.Maze.Params.MeadowRadius || d > third.Outer*cfg.Maze.Params.MeadowRadius {
			continue
		}
		s, err := l.CellState(x, lm.Center.Y)
		require.NoError(t, err)
		assert.Equal(t, core.StructuralWall, s, "third ring cell (%d,%d)", x, lm.Center.Y)
		walls++
	}
	assert.Positive(t, walls, "the third ring band must lie on the grid")
}

func TestBigringLayoutFromEnv(t *testing.T) {
	t.Setenv(EnvLayout, "bigring")
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())
	assert.Len(t, cfg.Maze.Params.Rings, 3)
	assert.Equal(t, maze.BigWidth, cfg.Maze.Width)
	assert.Equal(t, maze.BigHeight, cfg.Maze.Height)
	require.NoError(t, cfg.Validate())
}

func TestBigringKeepsLargerGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	body := "layout: bigring\nmaze:\n  width: 300\n  height: 260\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Maze.Width)
	assert.Equal(t, 260, cfg.Maze.Height)
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	body := "MINOTAUR_REPAIR_LIMIT=9\nMINOTAUR_SEED=5\nMINOTAUR_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(body), 0644))
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvRuleInterval, "500")
	t.Setenv(EnvReplenish, "0.3")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(envFile, filepath.Join(t.TempDir(), "absent.env")))

	assert.Equal(t, int64(42), cfg.Maze.Seed, "process env wins over the file")
	assert.Equal(t, 9, cfg.Loop.RepairLimit)
	assert.Equal(t, "debug", cfg.Run.LogLevel)
	assert.InDelta(t, 0.3, cfg.Maze.Params.ReplenishRate, 1e-9)
	assert.Equal(t, 500*time.Millisecond, cfg.SimConfig().RuleInterval)
	_, set := os.LookupEnv(EnvRepairLimit)
	assert.False(t, set, "file values must not leak into the process env")
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv(EnvWidth, "wide")
	cfg, err := Load("")
	require.NoError(t, err)
	err = cfg.ApplyEnv()
	assert.ErrorContains(t, err, EnvWidth)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Layout = "spiral"
	assert.Error(t, cfg.Validate())
	cfg.Layout = "rings"

	cfg.Run.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
	cfg.Run.LogLevel = "warn"

	cfg.Loop.RuleIntervalMS = 0
	assert.Error(t, cfg.Validate())
	cfg.Loop.RuleIntervalMS = 100
	assert.NoError(t, cfg.Validate())
	assert.NotNil(t, cfg.Logger("test"))
}
