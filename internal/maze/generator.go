package maze

import (
	"math"

	"minotaur/internal/core"
)

// Generate builds a fresh labyrinth for cfg using rng for the random fill.
func Generate(cfg Config, rng *core.RNG) (*core.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := core.NewGrid(cfg.Width, cfg.Height, cfg.Landmarks())
	if err != nil {
		return nil, err
	}
	Stamp(g, cfg.Params, rng)
	return g, nil
}

// Stamp overwrites every cell of g with the zoned layout: meadows around the
// center and goal, notched structural rings, an open margin outside the last
// ring and a coin-flip fill everywhere else. Start and goal are always Open.
func Stamp(g *core.Grid, p Params, rng *core.RNG) {
	lm := g.Landmarks()
	cells := g.Cells()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := core.Coord{X: x, Y: y}
			cells[g.Index(x, y)] = zoneFor(c, lm, p, rng)
		}
	}
}

func zoneFor(c core.Coord, lm core.Landmarks, p Params, rng *core.RNG) core.CellState {
	if c == lm.Start || c == lm.Goal {
		return core.Open
	}
	dist := core.Distance(c, lm.Center)
	if dist <= p.MeadowRadius {
		return core.Meadow
	}
	if core.Distance(c, lm.Goal) < p.GoalMeadowRadius {
		return core.Meadow
	}
	for _, r := range p.Rings {
		if dist > r.Inner*p.MeadowRadius && dist <= r.Outer*p.MeadowRadius {
			if inNotch(c, lm.Center, r) {
				return core.Open
			}
			return core.StructuralWall
		}
	}
	if dist > outerEdge(p) {
		return core.Open
	}
	if rng.Chance(p.FillWallChance) {
		return core.Wall
	}
	return core.Open
}

// inNotch reports whether c falls in the ring's rectangular gap.
func inNotch(c, center core.Coord, r Ring) bool {
	if c.Y < center.Y-r.NotchHalfSpan || c.Y >= center.Y+r.NotchHalfSpan {
		return false
	}
	switch r.Notch {
	case West:
		return c.X < center.X
	case East:
		return c.X > center.X
	}
	return false
}

// outerEdge is the radius past which the margin stays open. Without rings
// the whole grid is filled.
func outerEdge(p Params) float64 {
	edge := 0.0
	for _, r := range p.Rings {
		if o := r.Outer * p.MeadowRadius; o > edge {
			edge = o
		}
	}
	if edge == 0 {
		return math.Inf(1)
	}
	return edge
}
