package core

import (
	"fmt"
	"sort"
	"time"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Coord addresses a single grid cell.
type Coord struct {
	X int
	Y int
}

// Add returns the coordinate offset by d.
func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Path is an ordered run of 4-connected cells from an origin to a goal.
type Path []Coord

// Len reports the number of waypoints, origin included.
func (p Path) Len() int { return len(p) }

// Steps reports the number of moves needed to walk the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Sim is the read side of a running maze simulation as seen by a presenter.
type Sim interface {
	Name() string
	Size() Size
	Landmarks() Landmarks
	// Reset regenerates the maze from seed. Zero is an ordinary seed.
	Reset(seed int64) error
	OnTick(elapsed time.Duration) error
	CellState(x, y int) (CellState, error)
	AgentPosition() Coord
	CurrentPath() (Path, bool)
}

// Factory constructs a Sim using an optional flag-style configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames lists the registered factories in lexical order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
