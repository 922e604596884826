package app

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Config holds the viewer's command line settings.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	ShowPath bool
	Set      KV
}

// NewConfig returns the viewer defaults: the two-ring maze at eight pixels
// per cell, 60 ticks per second.
func NewConfig() *Config {
	return &Config{Sim: "rings", Scale: 8, TPS: 60, Seed: 1337, HUDWidth: 240, Set: KV{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "maze layout to run (rings, bigring)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for maze generation")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "control panel width in pixels, 0 to hide")
	fs.BoolVar(&c.ShowPath, "path", c.ShowPath, "outline the planned route")
	fs.Var(c.Set, "set", "layout override key=value (repeatable)")
}

// Params returns the factory map: -set pairs plus the seed.
func (c *Config) Params() map[string]string {
	out := make(map[string]string, len(c.Set)+1)
	for k, v := range c.Set {
		out[k] = v
	}
	if _, ok := out["seed"]; !ok {
		out["seed"] = fmt.Sprint(c.Seed)
	}
	return out
}

// TickElapsed is the synthetic time fed to the sim per frame.
func (c *Config) TickElapsed() time.Duration {
	if c.TPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TPS)
}

// KV collects repeated key=value flags.
type KV map[string]string

func (kv KV) String() string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + kv[k]
	}
	return strings.Join(parts, ",")
}

// Set parses one key=value pair.
func (kv KV) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	kv[key] = strings.TrimSpace(value)
	return nil
}
