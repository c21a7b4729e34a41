package core

import (
	"errors"
	"slices"
	"testing"
)

func patterned(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", w, h, err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, uint8((x*7+y*3)%5))
		}
	}
	return g
}

func TestNewGridZeroed(t *testing.T) {
	g, err := NewGrid(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Raw()) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(g.Raw()))
	}
	for i, v := range g.Raw() {
		if v != 0 {
			t.Fatalf("cell %d = %d, expected 0", i, v)
		}
	}
}

func TestNewGridRejectsBadSizes(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {MaxCells, 2}} {
		if _, err := NewGrid(dims[0], dims[1]); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("NewGrid(%d, %d) err = %v, expected ErrInvalidSize", dims[0], dims[1], err)
		}
	}
}

func TestToroidalWraparound(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 2}, {5, 5}, {7, 4}} {
		w, h := dims[0], dims[1]
		g := patterned(t, w, h)
		if g.Get(-1, 0) != g.Get(w-1, 0) {
			t.Fatalf("%dx%d: Get(-1,0) != Get(W-1,0)", w, h)
		}
		if g.Get(w, 0) != g.Get(0, 0) {
			t.Fatalf("%dx%d: Get(W,0) != Get(0,0)", w, h)
		}
		if g.Get(0, -1) != g.Get(0, h-1) {
			t.Fatalf("%dx%d: Get(0,-1) != Get(0,H-1)", w, h)
		}
		if g.Get(-3*w+1, 5*h+1) != g.Get(1%w, 1%h) {
			t.Fatalf("%dx%d: far coordinates did not wrap euclidean", w, h)
		}
	}
}

func TestSetOutOfRangePanics(t *testing.T) {
	g := patterned(t, 3, 3)
	before := slices.Clone(g.Raw())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range Set")
		}
		if !slices.Equal(before, g.Raw()) {
			t.Fatal("out-of-range Set modified the grid")
		}
	}()
	g.Set(3, 0, 1)
}

func TestRawRoundTrip(t *testing.T) {
	g := patterned(t, 6, 4)
	raw := g.Raw()
	if len(raw) != 24 {
		t.Fatalf("raw length %d, expected 24", len(raw))
	}
	back, err := GridFromRaw(6, 4, raw)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(g) {
		t.Fatal("grid rebuilt from raw bytes differs from original")
	}
	// The copy must not alias the source buffer.
	back.Set(0, 0, 9)
	if g.Get(0, 0) == 9 {
		t.Fatal("GridFromRaw aliased the caller's slice")
	}
}

func TestGridFromRawMismatch(t *testing.T) {
	_, err := GridFromRaw(3, 3, make([]uint8, 8))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRowMajorLayout(t *testing.T) {
	g, _ := NewGrid(3, 2)
	g.Set(2, 0, 1)
	g.Set(0, 1, 1)
	if !slices.Equal(g.Raw(), []uint8{0, 0, 1, 1, 0, 0}) {
		t.Fatalf("unexpected layout %v", g.Raw())
	}
	if g.Population() != 2 {
		t.Fatalf("population %d, expected 2", g.Population())
	}
	if i := g.Index(0, 1); g.Raw()[i] != 1 || i != 3 {
		t.Fatalf("Index(0, 1) = %d", i)
	}
}

func TestCloneIndependent(t *testing.T) {
	g := patterned(t, 4, 4)
	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone differs")
	}
	c.Set(0, 0, 1-c.Get(0, 0))
	if c.Equal(g) {
		t.Fatal("clone shares storage with its source")
	}
}
