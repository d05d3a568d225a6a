package ui

import (
	"strconv"

	"sparse-life/internal/core"
)

// intValue reads an integer parameter from a snapshot.
func intValue(s core.ParameterSnapshot, key string) (int, bool) {
	p, ok := s.Lookup(key)
	if !ok || p.Type != core.ParamTypeInt {
		return 0, false
	}
	v, err := strconv.Atoi(p.Value)
	if err != nil {
		return 0, false
	}
	return v, true
}

// boundsOutline returns the pixel rectangle of bounds drawn through a view
// at the given scale, clipped to the view. ok is false when nothing of the
// bounds is visible.
func boundsOutline(bounds, view core.Rect, scale int) (x0, y0, x1, y1 int, ok bool) {
	lo := core.Coord{X: max(bounds.Min.X, view.Min.X), Y: max(bounds.Min.Y, view.Min.Y)}
	hi := core.Coord{X: min(bounds.Max.X, view.Max.X), Y: min(bounds.Max.Y, view.Max.Y)}
	if lo.X >= hi.X || lo.Y >= hi.Y {
		return 0, 0, 0, 0, false
	}
	x0 = (lo.X - view.Min.X) * scale
	y0 = (lo.Y - view.Min.Y) * scale
	x1 = (hi.X - view.Min.X) * scale
	y1 = (hi.Y - view.Min.Y) * scale
	return x0, y0, x1, y1, true
}
