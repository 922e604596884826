package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned when a coordinate falls outside the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// CellState enumerates the terrain held by a single maze cell.
type CellState uint8

const (
	// Open is plain traversable floor.
	Open CellState = iota
	// Wall is a pillar that evolves under the automaton rule.
	Wall
	// StructuralWall belongs to a generated ring and is never created or
	// removed by the automaton.
	StructuralWall
	// Meadow is protected traversable ground around the landmarks.
	Meadow
)

// Traversable reports whether an agent may stand on the state.
func (s CellState) Traversable() bool { return s == Open || s == Meadow }

func (s CellState) String() string {
	switch s {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case StructuralWall:
		return "structural"
	case Meadow:
		return "meadow"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

// Landmarks are the fixed reference cells of a maze.
type Landmarks struct {
	Start  Coord
	Goal   Coord
	Center Coord
}

// Grid stores the maze cells in row-major order together with its landmarks.
// The landmarks are fixed at construction time.
type Grid struct {
	W, H int
	data []CellState
	lm   Landmarks
}

// NewGrid allocates an all-Open grid. Every landmark must lie inside it.
func NewGrid(w, h int, lm Landmarks) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid size %dx%d must be positive", w, h)
	}
	g := &Grid{W: w, H: h, data: make([]CellState, w*h), lm: lm}
	for name, c := range map[string]Coord{"start": lm.Start, "goal": lm.Goal, "center": lm.Center} {
		if !g.InBounds(c.X, c.Y) {
			return nil, fmt.Errorf("%s %v: %w", name, c, ErrOutOfBounds)
		}
	}
	return g, nil
}

// Landmarks returns the start, goal and center cells.
func (g *Grid) Landmarks() Landmarks { return g.lm }

// Start returns the agent's spawn cell.
func (g *Grid) Start() Coord { return g.lm.Start }

// Goal returns the target cell.
func (g *Grid) Goal() Coord { return g.lm.Goal }

// Center returns the cell the rings are drawn around.
func (g *Grid) Center() Coord { return g.lm.Center }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []CellState { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coord is the inverse of Index.
func (g *Grid) Coord(idx int) Coord { return Coord{X: idx % g.W, Y: idx / g.W} }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Get returns the state at (x, y).
func (g *Grid) Get(x, y int) (CellState, error) {
	if !g.InBounds(x, y) {
		return Open, g.boundsErr(x, y)
	}
	return g.data[g.Index(x, y)], nil
}

// Set writes the state at (x, y). Zone invariants are the caller's concern.
func (g *Grid) Set(x, y int, s CellState) error {
	if !g.InBounds(x, y) {
		return g.boundsErr(x, y)
	}
	g.data[g.Index(x, y)] = s
	return nil
}

// At is Get for a Coord.
func (g *Grid) At(c Coord) (CellState, error) { return g.Get(c.X, c.Y) }

// Traversable reports whether c is inside the grid and walkable.
func (g *Grid) Traversable(c Coord) bool {
	if !g.InBounds(c.X, c.Y) {
		return false
	}
	return g.data[g.Index(c.X, c.Y)].Traversable()
}

// Fill sets every cell to s.
func (g *Grid) Fill(s CellState) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Clone returns an independent copy sharing no cell storage.
func (g *Grid) Clone() *Grid {
	cp := &Grid{W: g.W, H: g.H, data: make([]CellState, len(g.data)), lm: g.lm}
	copy(cp.data, g.data)
	return cp
}

// CopyFrom overwrites the cells with those of src, which must match in size.
func (g *Grid) CopyFrom(src *Grid) error {
	if src.W != g.W || src.H != g.H {
		return fmt.Errorf("copy %dx%d into %dx%d: size mismatch", src.W, src.H, g.W, g.H)
	}
	copy(g.data, src.data)
	return nil
}

// Count returns how many cells hold s.
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, v := range g.data {
		if v == s {
			n++
		}
	}
	return n
}

// WallDensity is the fraction of cells holding a plain Wall.
func (g *Grid) WallDensity() float64 {
	if len(g.data) == 0 {
		return 0
	}
	return float64(g.Count(Wall)) / float64(len(g.data))
}

func (g *Grid) boundsErr(x, y int) error {
	return fmt.Errorf("(%d,%d) outside %dx%d: %w", x, y, g.W, g.H, ErrOutOfBounds)
}

// Distance is the Euclidean distance between two cells.
func Distance(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
