package render

import (
	"image/color"

	"sparse-life/internal/core"
)

// Cell values written by Rasterize.
const (
	CellEmpty   uint8 = 0
	CellAlive   uint8 = 1
	CellTracked uint8 = 2
)

// DefaultPalette maps the Rasterize cell values to colours.
var DefaultPalette = []color.RGBA{
	CellEmpty:   {R: 0, G: 0, B: 0, A: 255},
	CellAlive:   {R: 255, G: 255, B: 255, A: 255},
	CellTracked: {R: 40, G: 60, B: 90, A: 255},
}

// Rasterize writes the cells visible through view into dst in row-major
// order. Tracked coordinates are drawn first so live cells win. dst must hold
// view.W()*view.H() values; it is cleared before drawing.
func Rasterize(dst []uint8, view core.Rect, alive, tracked []core.Coord) {
	w, h := view.W(), view.H()
	if w <= 0 || h <= 0 || len(dst) < w*h {
		return
	}
	clear(dst[:w*h])
	for _, pos := range tracked {
		if view.Contains(pos) {
			dst[(pos.Y-view.Min.Y)*w+pos.X-view.Min.X] = CellTracked
		}
	}
	for _, pos := range alive {
		if view.Contains(pos) {
			dst[(pos.Y-view.Min.Y)*w+pos.X-view.Min.X] = CellAlive
		}
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
