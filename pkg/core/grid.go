package core

import (
	"errors"
	"fmt"
	"math"
)

// MaxCells bounds the number of cells a single grid may hold. Requests past it
// are rejected with ErrInvalidSize instead of failing inside the allocator.
const MaxCells = 1 << 30

var (
	// ErrDimensionMismatch reports raw cell data whose length disagrees with
	// width*height.
	ErrDimensionMismatch = errors.New("grid dimension mismatch")
	// ErrInvalidSize reports non-positive or oversized grid dimensions.
	ErrInvalidSize = errors.New("invalid grid size")
)

// Grid stores a toroidal 2D grid of byte-sized cell values in row-major order.
// Reads wrap around both axes; writes must stay in range.
type Grid struct {
	w, h int
	data []uint8
}

// NewGrid allocates a w*h grid with every cell set to 0.
func NewGrid(w, h int) (*Grid, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	return &Grid{w: w, h: h, data: make([]uint8, w*h)}, nil
}

// GridFromRaw wraps a copy of cells as a w*h grid.
func GridFromRaw(w, h int, cells []uint8) (*Grid, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if len(cells) != w*h {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrDimensionMismatch, len(cells), w, h)
	}
	data := make([]uint8, len(cells))
	copy(data, cells)
	return &Grid{w: w, h: h, data: data}, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if w > math.MaxInt/h || w*h > MaxCells {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidSize, w, h, MaxCells)
	}
	return nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.w, H: g.h} }

// Index returns the linear slice index for in-range coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.w + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.w + g.w) % g.w
	y = (y%g.h + g.h) % g.h
	return x, y
}

// Get returns the cell at (x, y) after wrapping, so any integer pair is valid.
func (g *Grid) Get(x, y int) uint8 {
	x, y = g.Wrap(x, y)
	return g.data[y*g.w+x]
}

// Set stores v at (x, y). Coordinates outside the grid panic rather than
// landing on another cell.
func (g *Grid) Set(x, y int, v uint8) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("core: Set(%d, %d) outside %dx%d grid", x, y, g.w, g.h))
	}
	g.data[y*g.w+x] = v
}

// Raw exposes the row-major cell buffer, one byte per cell. Callers must not
// modify it.
func (g *Grid) Raw() []uint8 { return g.data }

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	data := make([]uint8, len(g.data))
	copy(data, g.data)
	return &Grid{w: g.w, h: g.h, data: data}
}

// Equal reports whether both grids share dimensions and cell values.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.w != o.w || g.h != o.h {
		return false
	}
	for i, v := range g.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// Population counts the cells holding a non-zero value.
func (g *Grid) Population() int {
	n := 0
	for _, v := range g.data {
		if v != 0 {
			n++
		}
	}
	return n
}
