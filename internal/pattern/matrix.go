// Package pattern loads seed patterns into rectangular boolean matrices and
// encodes live-cell sets back into run-length form.
package pattern

import (
	"errors"
	"fmt"

	"sparse-life/internal/core"
)

// ErrRagged is returned when matrix rows differ in length.
var ErrRagged = errors.New("pattern: rows have differing lengths")

// Matrix is a rectangular grid of cells. Row 0 is the top row.
type Matrix struct {
	Rows  int
	Cols  int
	Cells [][]bool
}

// NewMatrix wraps rows after checking they are all the same length.
func NewMatrix(rows [][]bool) (Matrix, error) {
	m := Matrix{Rows: len(rows), Cells: rows}
	if len(rows) > 0 {
		m.Cols = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != m.Cols {
			return Matrix{}, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrRagged, i, len(row), m.Cols)
		}
	}
	return m, nil
}

// padded builds a Matrix from possibly ragged rows by filling short rows with
// dead cells up to the widest row.
func padded(rows [][]bool) Matrix {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		if len(row) < width {
			rows[i] = append(row, make([]bool, width-len(row))...)
		}
	}
	return Matrix{Rows: len(rows), Cols: width, Cells: rows}
}

// Alive returns the number of live cells.
func (m Matrix) Alive() int {
	n := 0
	for _, row := range m.Cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Placement returns the lattice coordinates of the live cells when the
// matrix is centred on center.
func (m Matrix) Placement(center core.Coord) []core.Coord {
	topLeft := core.Coord{X: center.X - m.Cols/2, Y: center.Y - m.Rows/2}
	out := make([]core.Coord, 0, m.Alive())
	for y, row := range m.Cells {
		for x, v := range row {
			if v {
				out = append(out, topLeft.Add(core.Coord{X: x, Y: y}))
			}
		}
	}
	return out
}

// FromCoords builds the smallest matrix covering coords, plus the coordinate
// of its top-left cell.
func FromCoords(coords []core.Coord) (Matrix, core.Coord) {
	if len(coords) == 0 {
		return Matrix{}, core.Coord{}
	}
	lo, hi := coords[0], coords[0]
	for _, c := range coords[1:] {
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	rows := make([][]bool, hi.Y-lo.Y+1)
	for i := range rows {
		rows[i] = make([]bool, hi.X-lo.X+1)
	}
	for _, c := range coords {
		rows[c.Y-lo.Y][c.X-lo.X] = true
	}
	return Matrix{Rows: len(rows), Cols: len(rows[0]), Cells: rows}, lo
}
