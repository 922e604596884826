package agent

import (
	"minotaur/internal/core"
	"minotaur/internal/planner"
)

// Controller moves the agent one cell per tick.
type Controller struct {
	rng *core.RNG

	// Wandered counts steps taken without a usable path.
	Wandered int
}

// NewController returns a Controller drawing random moves from rng.
func NewController(rng *core.RNG) *Controller {
	return &Controller{rng: rng}
}

// Step follows path when it has a next waypoint and otherwise wanders to a
// random in-bounds traversable neighbour, checked in up, down, left, right
// order. With nowhere to go the agent stays put.
func (c *Controller) Step(pos core.Coord, path core.Path, g *core.Grid) core.Coord {
	if len(path) >= 2 {
		return path[1]
	}
	var legal [len(planner.Directions)]core.Coord
	n := 0
	for _, d := range planner.Directions {
		next := pos.Add(d)
		if g.Traversable(next) {
			legal[n] = next
			n++
		}
	}
	if n == 0 {
		return pos
	}
	c.Wandered++
	return legal[c.rng.IntN(n)]
}
