package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"minotaur/internal/core"
	"minotaur/internal/maze"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Values past
// the end of the palette use its last color.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FrameBuffer turns a maze and its overlays into one RGBA pixel per cell.
type FrameBuffer struct {
	w, h    int
	display []uint8
	rgba    []byte
	palette []color.RGBA
}

// NewFrameBuffer allocates buffers for a w*h grid using the maze palette.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		w:       w,
		h:       h,
		display: make([]uint8, w*h),
		rgba:    make([]byte, 4*w*h),
		palette: maze.Palette(),
	}
}

// Size returns the grid dimensions the buffer was built for.
func (fb *FrameBuffer) Size() (int, int) { return fb.w, fb.h }

// Paint encodes g with the agent, landmarks and optionally the route cells
// and returns the RGBA bytes. The slice is reused by the next call.
func (fb *FrameBuffer) Paint(g *core.Grid, path core.Path, agent core.Coord, showPath bool) []byte {
	if g.W != fb.w || g.H != fb.h {
		return nil
	}
	maze.EncodeDisplay(fb.display, g, path, agent, showPath)
	fillPaletteRGBA(fb.rgba, fb.display, fb.palette)
	return fb.rgba
}

// Image copies the last painted frame into an image scaled by scale.
func (fb *FrameBuffer) Image(scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, fb.w*scale, fb.h*scale))
	for y := 0; y < fb.h*scale; y++ {
		for x := 0; x < fb.w*scale; x++ {
			src := ((y/scale)*fb.w + x/scale) * 4
			dst := img.PixOffset(x, y)
			copy(img.Pix[dst:dst+4], fb.rgba[src:src+4])
		}
	}
	return img
}

// WritePNG encodes the last painted frame.
func (fb *FrameBuffer) WritePNG(w io.Writer, scale int) error {
	return png.Encode(w, fb.Image(scale))
}
