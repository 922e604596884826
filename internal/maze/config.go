package maze

import (
	"fmt"
	"strconv"

	"minotaur/internal/core"
)

// Side names the half of the maze a ring's notch opens towards.
type Side string

const (
	// West places the notch left of the center column.
	West Side = "west"
	// East places the notch right of the center column.
	East Side = "east"
)

// Ring is a band of structural wall around the center. Radii are multiples of
// Params.MeadowRadius; the band covers Inner < dist <= Outer.
type Ring struct {
	Inner         float64 `yaml:"inner"`
	Outer         float64 `yaml:"outer"`
	Notch         Side    `yaml:"notch"`
	NotchHalfSpan int     `yaml:"notch_half_span"`
}

// Params holds the tunable radii and probabilities of the labyrinth.
type Params struct {
	MeadowRadius     float64 `yaml:"meadow_radius"`
	GoalMeadowRadius float64 `yaml:"goal_meadow_radius"`
	GoalGuardRadius  float64 `yaml:"goal_guard_radius"`
	FillWallChance   float64 `yaml:"fill_wall_chance"`
	ReplenishRate    float64 `yaml:"replenish_rate"`
	Rings            []Ring  `yaml:"rings"`
}

// Config controls the labyrinth dimensions and landmarks.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	// GoalInset is the goal's distance from the east edge on the middle row.
	GoalInset int `yaml:"goal_inset"`

	Params Params `yaml:"params"`
}

// DefaultRings returns the two-ring skeleton: a west-notched inner ring and an
// east-notched outer ring.
func DefaultRings() []Ring {
	return []Ring{
		{Inner: 7, Outer: 7.8, Notch: West, NotchHalfSpan: 4},
		{Inner: 17, Outer: 17.8, Notch: East, NotchHalfSpan: 7},
	}
}

// BigWidth and BigHeight are the smallest grid the BigRings layout is drawn on.
const (
	BigWidth  = 250
	BigHeight = 225
)

// BigRings extends DefaultRings with a third ring for grids of 200 cells or more.
func BigRings() []Ring {
	return append(DefaultRings(), Ring{Inner: 30, Outer: 31, Notch: East, NotchHalfSpan: 8})
}

// WithBigRings switches c to the three-ring layout, growing the grid to
// BigWidth x BigHeight when the rings would not fit.
func (c Config) WithBigRings() Config {
	if len(c.Params.Rings) < 3 {
		c.Params.Rings = BigRings()
	}
	if c.RingsFit() {
		return c
	}
	c.Width = max(c.Width, BigWidth)
	c.Height = max(c.Height, BigHeight)
	return c
}

// DefaultConfig returns the standard configuration: a 1000x900 window at eight
// pixels per cell.
func DefaultConfig() Config {
	return Config{
		Width:     125,
		Height:    112,
		Seed:      1337,
		GoalInset: 5,
		Params: Params{
			MeadowRadius:     3,
			GoalMeadowRadius: 3,
			GoalGuardRadius:  3,
			FillWallChance:   0.5,
			ReplenishRate:    0.411,
			Rings:            DefaultRings(),
		},
	}
}

// Landmarks derives start, goal and center from the grid size. The agent
// starts on the center cell.
func (c Config) Landmarks() core.Landmarks {
	center := core.Coord{X: c.Width / 2, Y: c.Height / 2}
	return core.Landmarks{
		Start:  center,
		Goal:   core.Coord{X: c.Width - c.GoalInset, Y: c.Height / 2},
		Center: center,
	}
}

// Reach is the distance from the center to the nearest grid edge.
func (c Config) Reach() float64 {
	center := c.Landmarks().Center
	return float64(min(center.X, center.Y, c.Width-1-center.X, c.Height-1-center.Y))
}

// RingsFit reports whether every ring band lies inside the grid.
func (c Config) RingsFit() bool {
	reach := c.Reach()
	for _, r := range c.Params.Rings {
		if r.Outer*c.Params.MeadowRadius > reach {
			return false
		}
	}
	return true
}

// Validate reports configuration values the generator cannot honour.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("maze size %dx%d must be positive", c.Width, c.Height)
	}
	if c.GoalInset < 1 || c.GoalInset > c.Width {
		return fmt.Errorf("goal inset %d outside [1,%d]", c.GoalInset, c.Width)
	}
	p := c.Params
	if p.MeadowRadius <= 0 {
		return fmt.Errorf("meadow radius %v must be positive", p.MeadowRadius)
	}
	if p.FillWallChance < 0 || p.FillWallChance > 1 {
		return fmt.Errorf("fill wall chance %v outside [0,1]", p.FillWallChance)
	}
	if p.ReplenishRate < 0 || p.ReplenishRate > 1 {
		return fmt.Errorf("replenish rate %v outside [0,1]", p.ReplenishRate)
	}
	for i, r := range p.Rings {
		if r.Outer <= r.Inner {
			return fmt.Errorf("ring %d: outer %v must exceed inner %v", i, r.Outer, r.Inner)
		}
		if r.Notch != West && r.Notch != East {
			return fmt.Errorf("ring %d: unknown notch side %q", i, r.Notch)
		}
		if edge, reach := r.Outer*p.MeadowRadius, c.Reach(); edge > reach {
			return fmt.Errorf("ring %d: radius %v does not fit a %dx%d grid (reach %v)", i, edge, c.Width, c.Height, reach)
		}
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["goal_inset"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.GoalInset = parsed
		}
	}
	if v, ok := cfg["meadow_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MeadowRadius = parsed
		}
	}
	if v, ok := cfg["goal_meadow_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.GoalMeadowRadius = parsed
		}
	}
	if v, ok := cfg["goal_guard_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.GoalGuardRadius = parsed
		}
	}
	if v, ok := cfg["fill_wall_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.FillWallChance = parsed
		}
	}
	if v, ok := cfg["replenish_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.ReplenishRate = parsed
		}
	}
	if v, ok := cfg["rings"]; ok {
		switch v {
		case "none":
			c.Params.Rings = nil
		case "big":
			c.Params.Rings = BigRings()
		}
	}
	return c
}
