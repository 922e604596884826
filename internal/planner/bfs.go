package planner

import (
	"github.com/zyedidia/generic/mapset"

	"minotaur/internal/core"
)

// Distance returns the number of 4-connected moves on the shortest walk from
// origin to goal over traversable cells, found by breadth-first search. The
// origin is not tested for traversability.
func Distance(g *core.Grid, origin, goal core.Coord) (int, bool) {
	if !g.InBounds(origin.X, origin.Y) || !g.InBounds(goal.X, goal.Y) {
		return 0, false
	}
	if origin == goal {
		return 0, true
	}
	dist := make([]int, g.W*g.H)
	for i := range dist {
		dist[i] = -1
	}
	start := g.Index(origin.X, origin.Y)
	dist[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		c := g.Coord(idx)
		for _, d := range Directions {
			n := c.Add(d)
			if !g.Traversable(n) {
				continue
			}
			nIdx := g.Index(n.X, n.Y)
			if dist[nIdx] >= 0 {
				continue
			}
			dist[nIdx] = dist[idx] + 1
			if n == goal {
				return dist[nIdx], true
			}
			queue = append(queue, nIdx)
		}
	}
	return 0, false
}

// Reachable floods outward from origin and returns every traversable cell
// connected to it, origin included.
func Reachable(g *core.Grid, origin core.Coord) mapset.Set[core.Coord] {
	seen := mapset.New[core.Coord]()
	if !g.InBounds(origin.X, origin.Y) {
		return seen
	}
	seen.Put(origin)
	queue := []core.Coord{origin}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			n := c.Add(d)
			if !g.Traversable(n) || seen.Has(n) {
				continue
			}
			seen.Put(n)
			queue = append(queue, n)
		}
	}
	return seen
}

// Valid reports whether path is a contiguous 4-connected walk over traversable
// cells. The first waypoint is exempt from the traversability test.
func Valid(g *core.Grid, path core.Path) bool {
	for i, c := range path {
		if !g.InBounds(c.X, c.Y) {
			return false
		}
		if i == 0 {
			continue
		}
		if !g.Traversable(c) {
			return false
		}
		prev := path[i-1]
		if abs(c.X-prev.X)+abs(c.Y-prev.Y) != 1 {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
