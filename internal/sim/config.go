package sim

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"minotaur/internal/maze"
)

// ErrRepairExhausted reports that the automaton could not reopen a route
// within the repair limit and the fallback had to cut one.
var ErrRepairExhausted = errors.New("repair limit exhausted")

// Config bundles the maze layout with the loop's timing and repair bounds.
type Config struct {
	Maze maze.Config

	// RuleInterval is the synthetic time between automaton generations.
	RuleInterval time.Duration

	// RepairLimit caps the extra generations run per tick while the goal is
	// unreachable.
	RepairLimit int
}

// DefaultConfig returns a two-ring maze evolving every two seconds.
func DefaultConfig() Config {
	return Config{
		Maze:         maze.DefaultConfig(),
		RuleInterval: 2 * time.Second,
		RepairLimit:  64,
	}
}

// Validate checks the maze layout and the loop bounds.
func (c Config) Validate() error {
	if err := c.Maze.Validate(); err != nil {
		return err
	}
	if c.RuleInterval <= 0 {
		return fmt.Errorf("rule interval %v must be positive", c.RuleInterval)
	}
	if c.RepairLimit < 0 {
		return fmt.Errorf("repair limit %d must not be negative", c.RepairLimit)
	}
	return nil
}

// FromMap layers rule_interval_ms and repair_limit over maze.FromMap.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Maze = maze.FromMap(cfg)
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rule_interval_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.RuleInterval = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["repair_limit"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.RepairLimit = parsed
		}
	}
	return c
}
