package core

// Coord addresses one cell on the unbounded lattice. Y grows downward.
type Coord struct {
	X int
	Y int
}

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord { return Coord{X: c.X + o.X, Y: c.Y + o.Y} }

// Less orders coordinates row-major so snapshots are deterministic.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Compare is Less in the three-way form expected by slices.SortFunc.
func (c Coord) Compare(o Coord) int {
	switch {
	case c == o:
		return 0
	case c.Less(o):
		return -1
	default:
		return 1
	}
}

// moore lists the offsets of the eight-connected neighbourhood.
var moore = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors returns the eight Moore neighbours of c.
func (c Coord) Neighbors() [8]Coord {
	var out [8]Coord
	for i, d := range moore {
		out[i] = c.Add(d)
	}
	return out
}

// Rect is a half-open rectangle [Min, Max).
type Rect struct {
	Min Coord
	Max Coord
}

// RectFrom builds a rectangle from an origin and an extent.
func RectFrom(origin, extent Coord) Rect {
	return Rect{Min: origin, Max: origin.Add(extent)}
}

// W returns the rectangle width.
func (r Rect) W() int { return r.Max.X - r.Min.X }

// H returns the rectangle height.
func (r Rect) H() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.W() <= 0 || r.H() <= 0 }

// Contains reports whether c lies inside r.
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.Min.X && c.X < r.Max.X && c.Y >= r.Min.Y && c.Y < r.Max.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.Min.X >= r.Min.X && o.Min.Y >= r.Min.Y && o.Max.X <= r.Max.X && o.Max.Y <= r.Max.Y
}

// Center returns the integer centre of the rectangle.
func (r Rect) Center() Coord {
	return Coord{X: r.Min.X + r.W()/2, Y: r.Min.Y + r.H()/2}
}
