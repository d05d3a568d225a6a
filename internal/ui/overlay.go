//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sparse-life/internal/core"
)

type boundsProvider interface {
	Bounds() core.Rect
}

// Overlay draws optional debugging visuals on top of the board view.
type Overlay struct {
	src         boundsProvider
	scale       int
	showBounds  bool
	showTracked bool
	pixel       *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(src boundsProvider, scale int) *Overlay {
	o := &Overlay{src: src, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBounds = !o.showBounds
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showTracked = !o.showTracked
	}
}

// ShowTracked reports whether dead tracked cells should be shaded.
func (o *Overlay) ShowTracked() bool { return o.showTracked }

// Draw outlines the board rectangle when enabled.
func (o *Overlay) Draw(screen *ebiten.Image, view core.Rect) {
	if !o.showBounds {
		return
	}
	x0, y0, x1, y1, ok := boundsOutline(o.src.Bounds(), view, o.scale)
	if !ok {
		return
	}
	c := color.RGBA{R: 220, G: 80, B: 60, A: 255}
	o.rect(screen, x0, y0, x1-x0, 1, c)
	o.rect(screen, x0, y1-1, x1-x0, 1, c)
	o.rect(screen, x0, y0, 1, y1-y0, c)
	o.rect(screen, x1-1, y0, 1, y1-y0, c)
}

func (o *Overlay) rect(dst *ebiten.Image, x, y, w, h int, c color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(o.pixel, op)
}
