package maze

import (
	"image/color"

	"minotaur/internal/core"
)

// Overlay values share the display buffer with cell states; they sit above
// the last CellState so a single palette covers both.
const (
	DisplayPath  uint8 = 4
	DisplayStart uint8 = 5
	DisplayGoal  uint8 = 6
	DisplayAgent uint8 = 7
)

var mazePalette = []color.RGBA{
	core.Open:           {R: 92, G: 84, B: 72, A: 255},
	core.Wall:           {R: 153, G: 76, B: 0, A: 255},
	core.StructuralWall: {R: 0, G: 0, B: 0, A: 255},
	core.Meadow:         {R: 0, G: 102, B: 0, A: 255},
	DisplayPath:         {R: 0, G: 0, B: 255, A: 255},
	DisplayStart:        {R: 0, G: 255, B: 0, A: 255},
	DisplayGoal:         {R: 255, G: 215, B: 0, A: 255},
	DisplayAgent:        {R: 255, G: 0, B: 0, A: 255},
}

// Palette exposes the colors used to paint a display buffer.
func Palette() []color.RGBA {
	return mazePalette
}

// EncodeDisplay writes one byte per cell into dst: the cell state, then the
// path cells after the first two, the start, the goal and finally the agent
// on top. dst must hold W*H bytes.
func EncodeDisplay(dst []uint8, g *core.Grid, path core.Path, agent core.Coord, showPath bool) {
	cells := g.Cells()
	if len(dst) < len(cells) {
		return
	}
	for i, s := range cells {
		dst[i] = uint8(s)
	}
	if showPath && len(path) > 2 {
		for _, c := range path[2:] {
			if g.InBounds(c.X, c.Y) {
				dst[g.Index(c.X, c.Y)] = DisplayPath
			}
		}
	}
	lm := g.Landmarks()
	dst[g.Index(lm.Start.X, lm.Start.Y)] = DisplayStart
	dst[g.Index(lm.Goal.X, lm.Goal.Y)] = DisplayGoal
	if g.InBounds(agent.X, agent.Y) {
		dst[g.Index(agent.X, agent.Y)] = DisplayAgent
	}
}
