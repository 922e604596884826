// Package planner finds routes across a labyrinth grid.
//
// FindPath runs A* over 4-connected unit-cost moves with a Euclidean
// heuristic. Euclidean distance never exceeds the Manhattan distance a
// 4-connected walk needs, so the heuristic is admissible and returned paths
// are shortest. Exploration order among equal f-scores follows insertion
// order, which keeps results reproducible but is not meant to mirror any other
// implementation.
package planner

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"minotaur/internal/core"
)

// ErrNoPath is returned when the goal cannot be reached from the origin.
var ErrNoPath = errors.New("no path to goal")

// Directions lists the 4-connected moves in the order they are expanded:
// up, down, left, right.
var Directions = [4]core.Coord{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// Option configures a Planner.
type Option func(*Planner)

// WithPassable replaces the default traversability test. The repair fallback
// uses it to search through plain walls.
func WithPassable(fn func(core.CellState) bool) Option {
	return func(p *Planner) {
		if fn != nil {
			p.passable = fn
		}
	}
}

// Planner computes shortest paths. Search buffers are reused between calls,
// so a Planner must not be shared between goroutines.
type Planner struct {
	passable func(core.CellState) bool

	open     *nodeHeap
	closed   mapset.Set[int]
	cameFrom []int
	gScore   []int
	seq      uint64

	// Expanded counts nodes popped by the most recent search.
	Expanded int
}

// New creates a Planner. By default Open and Meadow cells are passable.
func New(opts ...Option) *Planner {
	p := &Planner{
		passable: core.CellState.Traversable,
		open:     &nodeHeap{},
		closed:   mapset.New[int](),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type node struct {
	idx int
	g   int
	f   float64
	seq uint64
}

type nodeHeap []node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindPath returns the shortest route from origin to goal, both included.
// The origin itself is not tested for passability; the goal is. The grid is
// only read.
func (p *Planner) FindPath(g *core.Grid, origin, goal core.Coord) (core.Path, error) {
	if !g.InBounds(origin.X, origin.Y) {
		return nil, fmt.Errorf("origin %v: %w", origin, core.ErrOutOfBounds)
	}
	if !g.InBounds(goal.X, goal.Y) {
		return nil, fmt.Errorf("goal %v: %w", goal, core.ErrOutOfBounds)
	}
	if origin == goal {
		return core.Path{origin}, nil
	}
	cells := g.Cells()
	if !p.passable(cells[g.Index(goal.X, goal.Y)]) {
		return nil, ErrNoPath
	}

	p.reset(len(cells))
	startIdx := g.Index(origin.X, origin.Y)
	goalIdx := g.Index(goal.X, goal.Y)
	p.gScore[startIdx] = 0
	p.push(startIdx, 0, heuristic(origin, goal))

	for p.open.Len() > 0 {
		cur := heap.Pop(p.open).(node)
		if p.closed.Has(cur.idx) {
			continue
		}
		// A stale entry left behind by a later improvement.
		if cur.g > p.gScore[cur.idx] {
			continue
		}
		p.Expanded++
		if cur.idx == goalIdx {
			return p.reconstruct(g, startIdx, goalIdx), nil
		}
		p.closed.Put(cur.idx)

		c := g.Coord(cur.idx)
		for _, d := range Directions {
			n := c.Add(d)
			if !g.InBounds(n.X, n.Y) {
				continue
			}
			nIdx := g.Index(n.X, n.Y)
			if p.closed.Has(nIdx) || !p.passable(cells[nIdx]) {
				continue
			}
			tentative := cur.g + 1
			if known := p.gScore[nIdx]; known >= 0 && tentative >= known {
				continue
			}
			p.cameFrom[nIdx] = cur.idx
			p.gScore[nIdx] = tentative
			p.push(nIdx, tentative, float64(tentative)+heuristic(n, goal))
		}
	}
	return nil, ErrNoPath
}

func (p *Planner) reset(total int) {
	*p.open = (*p.open)[:0]
	p.closed = mapset.New[int]()
	if len(p.gScore) != total {
		p.gScore = make([]int, total)
		p.cameFrom = make([]int, total)
	}
	for i := range p.gScore {
		p.gScore[i] = -1
		p.cameFrom[i] = -1
	}
	p.seq = 0
	p.Expanded = 0
}

func (p *Planner) push(idx, g int, f float64) {
	heap.Push(p.open, node{idx: idx, g: g, f: f, seq: p.seq})
	p.seq++
}

func (p *Planner) reconstruct(g *core.Grid, startIdx, goalIdx int) core.Path {
	steps := p.gScore[goalIdx]
	path := make(core.Path, steps+1)
	cur := goalIdx
	for i := steps; i >= 0; i-- {
		path[i] = g.Coord(cur)
		if cur == startIdx {
			break
		}
		cur = p.cameFrom[cur]
	}
	return path
}

func heuristic(a, b core.Coord) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
