package render

import (
	"errors"
	"fmt"
	"image/color"

	"inkverify/pkg/core"
)

var (
	// Ink is the colour of live cells.
	Ink = color.RGBA{A: 0xff}
	// Paper is the colour of empty cells.
	Paper = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ErrSizeMismatch reports a pixel buffer or surface that does not fit the grid.
var ErrSizeMismatch = errors.New("render: size mismatch")

// RGBA converts a grid into packed RGBA bytes, four per cell, Ink on Paper.
func RGBA(g *core.Grid) []byte {
	buf := make([]byte, 4*g.Size().Cells())
	// Cannot fail: buf is sized from g.
	_ = PaintRGBA(buf, g)
	return buf
}

// PaintRGBA is RGBA into a caller-owned buffer of exactly four bytes per cell.
func PaintRGBA(buf []byte, g *core.Grid) error {
	if len(buf) != 4*g.Size().Cells() {
		return fmt.Errorf("%w: %d bytes for a %dx%d grid", ErrSizeMismatch, len(buf), g.Width(), g.Height())
	}
	ink := [4]byte{Ink.R, Ink.G, Ink.B, Ink.A}
	paper := [4]byte{Paper.R, Paper.G, Paper.B, Paper.A}
	for i, c := range g.Raw() {
		px := &paper
		if c != 0 {
			px = &ink
		}
		copy(buf[4*i:4*i+4], px[:])
	}
	return nil
}
