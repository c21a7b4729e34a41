package life

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"inkverify/pkg/core"
)

// bandsPerWorker splits a step finer than the worker count so a slow band
// does not leave other workers idle.
const bandsPerWorker = 4

// neighborhood lists the Moore offsets in the order they are summed.
var neighborhood = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors counts the live cells around (x, y), wrapping at the borders.
func Neighbors(g *core.Grid, x, y int) int {
	n := 0
	for _, d := range neighborhood {
		if g.Get(x+d[0], y+d[1]) == 1 {
			n++
		}
	}
	return n
}

// Rule returns the next value of a cell holding state with n live neighbors.
func Rule(state uint8, n int) uint8 {
	switch {
	case state == 1 && (n == 2 || n == 3):
		return 1
	case state == 0 && n == 3:
		return 1
	default:
		return 0
	}
}

// Step returns the next generation of cur in a freshly allocated grid. cur is
// left untouched.
func Step(cur *core.Grid) *core.Grid {
	nxt, err := core.NewGrid(cur.Width(), cur.Height())
	if err != nil {
		// cur already passed the same size check.
		panic(err)
	}
	StepInto(nxt, cur)
	return nxt
}

// StepInto writes the next generation of src into dst. Both grids must share
// dimensions and must not be the same grid.
func StepInto(dst, src *core.Grid) {
	mustPair(dst, src)
	stepRows(dst, src, 0, src.Height())
}

// StepParallel is StepInto with rows split into bands. At most workers bands
// are evaluated at once. Output is identical to StepInto. If ctx ends before
// every band has run, dst is incomplete and the context error is returned.
func StepParallel(ctx context.Context, dst, src *core.Grid, workers int) error {
	mustPair(dst, src)
	h := src.Height()
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepRows(dst, src, 0, h)
		return nil
	}
	bands := min(bandsPerWorker*workers, h)
	band := (h + bands - 1) / bands
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stepRows(dst, src, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func stepRows(dst, src *core.Grid, y0, y1 int) {
	w := src.Width()
	cells := src.Raw()
	out := dst.Raw()
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			idx := src.Index(x, y)
			out[idx] = Rule(cells[idx], Neighbors(src, x, y))
		}
	}
}

func mustPair(dst, src *core.Grid) {
	if dst == src {
		panic("life: step source and destination are the same grid")
	}
	if dst.Size() != src.Size() {
		panic(fmt.Sprintf("life: step from %dx%d into %dx%d", src.Width(), src.Height(), dst.Width(), dst.Height()))
	}
}

// Life implements Conway's Game of Life with toroidal wrapping as a core.Sim.
type Life struct {
	cur *core.Grid
	nxt *core.Grid
}

var _ core.Sim = (*Life)(nil)

// New returns a Life simulation with the provided dimensions.
func New(w, h int) (*Life, error) {
	cur, err := core.NewGrid(w, h)
	if err != nil {
		return nil, err
	}
	return &Life{cur: cur, nxt: cur.Clone()}, nil
}

// FromGrid returns a Life simulation starting from a copy of g.
func FromGrid(g *core.Grid) *Life {
	return &Life{cur: g.Clone(), nxt: g.Clone()}
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid dimensions.
func (l *Life) Size() core.Size { return l.cur.Size() }

// Grid exposes the current generation.
func (l *Life) Grid() *core.Grid { return l.cur }

// Reset randomizes the board from the xorshift stream for seed.
func (l *Life) Reset(seed uint32) {
	core.FillBinary(core.NewRNG(seed), l.cur.Raw())
}

// Step advances the simulation by one generation.
func (l *Life) Step() {
	StepInto(l.nxt, l.cur)
	l.cur, l.nxt = l.nxt, l.cur
}
