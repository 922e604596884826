//go:build ebiten

package ui

import (
	"image/color"

	"minotaur/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay outlines the planned route on top of the maze.
type Overlay struct {
	sim      core.Sim
	scale    int
	showPath bool
	pixel    *ebiten.Image
}

var pathColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

// NewOverlay constructs an overlay for sim drawn at scale pixels per cell.
func NewOverlay(sim core.Sim, scale int, showPath bool) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showPath: showPath}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// ShowPath reports whether the route outline is visible.
func (o *Overlay) ShowPath() bool { return o.showPath }

// Update toggles the route outline on P.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		o.showPath = !o.showPath
	}
}

// Draw outlines every route cell after the first two.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showPath {
		return
	}
	path, ok := o.sim.CurrentPath()
	if !ok {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	for _, c := range PathOutline(path) {
		o.drawCellOutline(screen, c, float64(scale))
	}
}

func (o *Overlay) drawCellOutline(screen *ebiten.Image, c core.Coord, scale float64) {
	x := float64(c.X) * scale
	y := float64(c.Y) * scale
	o.drawRect(screen, x, y, scale, 1)
	o.drawRect(screen, x, y+scale-1, scale, 1)
	o.drawRect(screen, x, y, 1, scale)
	o.drawRect(screen, x+scale-1, y, 1, scale)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(pathColor)
	screen.DrawImage(o.pixel, op)
}
