//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"minotaur/internal/core"
)

// GridPainter uploads painted frames into a single image and scales it onto
// the screen.
type GridPainter struct {
	fb  *FrameBuffer
	img *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{fb: NewFrameBuffer(w, h), img: ebiten.NewImage(w, h)}
}

// Blit paints the maze with its landmarks and agent and draws it at scale.
func (gp *GridPainter) Blit(dst *ebiten.Image, g *core.Grid, agent core.Coord, scale int) {
	pix := gp.fb.Paint(g, nil, agent, false)
	if pix == nil {
		return
	}
	gp.img.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.fb.Size() }
