// Package config loads minotaur settings from YAML, layered over embedded
// defaults and finally over environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"minotaur/internal/maze"
	"minotaur/internal/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the file representation of a run.
type Config struct {
	// Layout selects the registered sim: "rings" or "bigring".
	Layout string      `yaml:"layout"`
	Maze   maze.Config `yaml:"maze"`
	Loop   LoopConfig  `yaml:"loop"`
	Run    RunConfig   `yaml:"run"`
}

// LoopConfig holds the tick pipeline bounds.
type LoopConfig struct {
	RuleIntervalMS int `yaml:"rule_interval_ms"`
	RepairLimit    int `yaml:"repair_limit"`
}

// RunConfig drives the headless tools.
type RunConfig struct {
	Ticks     int    `yaml:"ticks"`
	TickMS    int    `yaml:"tick_ms"`
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
}

// Load reads the embedded defaults and overlays the YAML file at path. An
// empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	cfg.applyLayout()
	return cfg, nil
}

// bigring needs the third ring and a grid it fits on; a file that picks the
// layout but keeps the default rings or size gets both.
func (c *Config) applyLayout() {
	if c.Layout == "bigring" {
		c.Maze = c.Maze.WithBigRings()
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Env variable names read by ApplyEnv.
const (
	EnvLayout       = "MINOTAUR_LAYOUT"
	EnvSeed         = "MINOTAUR_SEED"
	EnvWidth        = "MINOTAUR_WIDTH"
	EnvHeight       = "MINOTAUR_HEIGHT"
	EnvReplenish    = "MINOTAUR_REPLENISH_RATE"
	EnvRuleInterval = "MINOTAUR_RULE_INTERVAL_MS"
	EnvRepairLimit  = "MINOTAUR_REPAIR_LIMIT"
	EnvTicks        = "MINOTAUR_TICKS"
	EnvOutputDir    = "MINOTAUR_OUTPUT_DIR"
	EnvLogLevel     = "MINOTAUR_LOG_LEVEL"
)

// ApplyEnv overrides fields from the process environment, falling back to
// the given dotenv files. Missing files are skipped; the process environment
// wins over file values.
func (c *Config) ApplyEnv(envFiles ...string) error {
	fileVals := map[string]string{}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		vals, err := godotenv.Read(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range vals {
			fileVals[k] = v
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	if v, ok := lookup(EnvLayout); ok {
		c.Layout = v
	}
	if v, ok := lookup(EnvOutputDir); ok {
		c.Run.OutputDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Run.LogLevel = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &c.Maze.Width},
		{EnvHeight, &c.Maze.Height},
		{EnvRuleInterval, &c.Loop.RuleIntervalMS},
		{EnvRepairLimit, &c.Loop.RepairLimit},
		{EnvTicks, &c.Run.Ticks},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Maze.Seed = n
	}
	if v, ok := lookup(EnvReplenish); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvReplenish, err)
		}
		c.Maze.Params.ReplenishRate = f
	}
	c.applyLayout()
	return nil
}

// SimConfig converts the file form into the loop's configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Maze:         c.Maze,
		RuleInterval: time.Duration(c.Loop.RuleIntervalMS) * time.Millisecond,
		RepairLimit:  c.Loop.RepairLimit,
	}
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	if c.Layout != "rings" && c.Layout != "bigring" {
		return fmt.Errorf("unknown layout %q", c.Layout)
	}
	if c.Run.Ticks < 0 || c.Run.TickMS < 0 {
		return fmt.Errorf("run ticks %d and tick_ms %d must not be negative", c.Run.Ticks, c.Run.TickMS)
	}
	if _, err := log.ParseLevel(c.Run.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return c.SimConfig().Validate()
}

// Logger builds a logger at the configured level writing to stderr.
func (c *Config) Logger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(c.Run.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
