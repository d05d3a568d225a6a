package app

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"sparse-life/internal/core"
)

// Camera maps a fixed-size viewport of cells onto the lattice. X and Y are
// the world coordinates of the viewport's top-left cell.
type Camera struct {
	X, Y float64
	W, H int

	tweenX *gween.Tween
	tweenY *gween.Tween
}

// NewCamera returns a camera of w*h cells centred on center.
func NewCamera(w, h int, center core.Coord) *Camera {
	c := &Camera{W: max(w, 1), H: max(h, 1)}
	c.X = float64(center.X - c.W/2)
	c.Y = float64(center.Y - c.H/2)
	return c
}

// Pan moves the camera by whole cells and cancels any recentering in flight.
func (c *Camera) Pan(dx, dy int) {
	c.tweenX, c.tweenY = nil, nil
	c.X += float64(dx)
	c.Y += float64(dy)
}

// CenterOn eases the camera toward center over duration seconds.
func (c *Camera) CenterOn(center core.Coord, duration float32) {
	toX := float32(center.X - c.W/2)
	toY := float32(center.Y - c.H/2)
	if duration <= 0 {
		c.X, c.Y = float64(toX), float64(toY)
		c.tweenX, c.tweenY = nil, nil
		return
	}
	c.tweenX = gween.New(float32(c.X), toX, duration, ease.OutCubic)
	c.tweenY = gween.New(float32(c.Y), toY, duration, ease.OutCubic)
}

// Moving reports whether a recentering is in progress.
func (c *Camera) Moving() bool { return c.tweenX != nil || c.tweenY != nil }

// Update advances any recentering by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.tweenX != nil {
		v, done := c.tweenX.Update(dt)
		c.X = float64(v)
		if done {
			c.tweenX = nil
		}
	}
	if c.tweenY != nil {
		v, done := c.tweenY.Update(dt)
		c.Y = float64(v)
		if done {
			c.tweenY = nil
		}
	}
}

// View returns the lattice rectangle currently visible.
func (c *Camera) View() core.Rect {
	origin := core.Coord{X: int(math.Round(c.X)), Y: int(math.Round(c.Y))}
	return core.RectFrom(origin, core.Coord{X: c.W, Y: c.H})
}

// ScreenToWorld converts a pixel position to the lattice coordinate under it.
func (c *Camera) ScreenToWorld(px, py, scale int) core.Coord {
	if scale <= 0 {
		scale = 1
	}
	view := c.View()
	return core.Coord{X: view.Min.X + floorDiv(px, scale), Y: view.Min.Y + floorDiv(py, scale)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
