package life

import (
	"context"
	"fmt"

	"inkverify/pkg/core"
)

// Observer is called after each completed generation. step counts from 1 and
// g must be treated as read-only; it is reused for a later generation.
type Observer func(step int, g *core.Grid)

// RunOptions tunes Run without changing its result.
type RunOptions struct {
	// Workers is the number of goroutines evaluating a single step. Values
	// below 2 evaluate sequentially.
	Workers int
	// Observer, when set, sees every generation.
	Observer Observer
}

// Simulate applies Step to initial steps times and returns the last
// generation. With steps == 0 it returns initial itself. initial is never
// modified.
func Simulate(initial *core.Grid, steps int) *core.Grid {
	g, err := Run(context.Background(), initial, steps, RunOptions{})
	if err != nil {
		panic(err)
	}
	return g
}

// Run is Simulate with cancellation between generations, optional parallel
// evaluation and an observer. Two buffers are swapped between generations, so
// at most two grids beyond initial are alive at once.
func Run(ctx context.Context, initial *core.Grid, steps int, opts RunOptions) (*core.Grid, error) {
	if steps < 0 {
		return nil, fmt.Errorf("life: negative step count %d", steps)
	}
	if steps == 0 {
		return initial, nil
	}
	src := initial
	var spare *core.Grid
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("life: stopped after %d of %d steps: %w", i-1, steps, err)
		}
		dst := spare
		if dst == nil {
			var err error
			if dst, err = core.NewGrid(initial.Width(), initial.Height()); err != nil {
				return nil, err
			}
		}
		if err := StepParallel(ctx, dst, src, opts.Workers); err != nil {
			return nil, fmt.Errorf("life: stopped during step %d of %d: %w", i, steps, err)
		}
		if src != initial {
			spare = src
		}
		src = dst
		if opts.Observer != nil {
			opts.Observer(i, src)
		}
	}
	return src, nil
}
