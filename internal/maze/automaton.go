package maze

import (
	"minotaur/internal/core"
)

// Engine evolves a labyrinth one generation at a time. Plain walls follow a
// B3-style rule: a cell becomes Wall with exactly three Wall neighbours and
// Open otherwise, while eroding walls are replenished with a fixed
// probability. Structural rings, the center meadow, the start cell and the
// goal surroundings never change.
//
// Each step reads the current cells and writes a separate buffer that is
// copied back once every cell has been decided. The engine is not safe for
// concurrent use.
type Engine struct {
	params Params
	rng    *core.RNG

	next  []core.CellState
	walls []uint8

	generation int
}

// NewEngine returns an Engine using p for its radii and replenish rate.
func NewEngine(p Params, rng *core.RNG) *Engine {
	return &Engine{params: p, rng: rng}
}

// Params returns the parameters the engine evaluates with.
func (e *Engine) Params() Params { return e.params }

// SetReplenishRate adjusts the wall replenish probability, clamped to [0,1].
func (e *Engine) SetReplenishRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	e.params.ReplenishRate = rate
}

// Generation counts the steps applied since construction or Reset.
func (e *Engine) Generation() int { return e.generation }

// Reset zeroes the generation counter.
func (e *Engine) Reset() { e.generation = 0 }

// Step advances g by one generation in place. Cells listed in keep retain
// their state for this step, which lets the caller pin the agent's cell.
func (e *Engine) Step(g *core.Grid, keep ...core.Coord) {
	cur := g.Cells()
	total := len(cur)
	if total == 0 {
		return
	}
	if len(e.next) != total {
		e.next = make([]core.CellState, total)
		e.walls = make([]uint8, total)
	}
	e.countWallNeighbors(g)

	lm := g.Landmarks()
	p := e.params
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			idx := g.Index(x, y)
			c := core.Coord{X: x, Y: y}
			prev := cur[idx]
			if c == lm.Start || core.Distance(c, lm.Goal) <= p.GoalGuardRadius || pinned(c, keep) {
				e.next[idx] = prev
				continue
			}

			var next core.CellState
			switch {
			case prev == core.StructuralWall:
				next = core.StructuralWall
			case core.Distance(c, lm.Center) <= p.MeadowRadius:
				next = prev
			case e.walls[idx] == 3:
				next = core.Wall
			default:
				next = core.Open
			}
			if next == core.Open && prev == core.Wall && e.rng.Chance(p.ReplenishRate) {
				next = core.Wall
			}
			e.next[idx] = next
		}
	}

	copy(cur, e.next)
	e.generation++
}

// countWallNeighbors fills e.walls with the number of plain Wall cells in each
// cell's Moore neighbourhood. Edges do not wrap.
func (e *Engine) countWallNeighbors(g *core.Grid) {
	for i := range e.walls {
		e.walls[i] = 0
	}
	cur := g.Cells()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if cur[g.Index(x, y)] != core.Wall {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= g.H {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= g.W {
						continue
					}
					if dx == 0 && dy == 0 {
						continue
					}
					e.walls[g.Index(nx, ny)]++
				}
			}
		}
	}
}

func pinned(c core.Coord, keep []core.Coord) bool {
	for _, k := range keep {
		if k == c {
			return true
		}
	}
	return false
}
