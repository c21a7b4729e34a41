//go:build ebiten

package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"inkverify/pkg/core"
)

// GridPainter draws generations of one fixed-size grid onto an ebiten
// surface, scale screen pixels per cell.
type GridPainter struct {
	size  core.Size
	scale int
	img   *ebiten.Image
	buf   []byte
	op    ebiten.DrawImageOptions
}

// NewGridPainter returns a painter for grids of the given size.
func NewGridPainter(size core.Size, scale int) (*GridPainter, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("%w: cannot paint a %dx%d grid", ErrSizeMismatch, size.W, size.H)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("render: scale must be positive, got %d", scale)
	}
	gp := &GridPainter{
		size:  size,
		scale: scale,
		img:   ebiten.NewImage(size.W, size.H),
		buf:   make([]byte, 4*size.Cells()),
	}
	gp.op.GeoM.Scale(float64(scale), float64(scale))
	return gp, nil
}

// Draw paints g onto dst. A grid of another size is rejected.
func (gp *GridPainter) Draw(dst *ebiten.Image, g *core.Grid) error {
	if g.Size() != gp.size {
		return fmt.Errorf("%w: painter is %dx%d, grid is %dx%d", ErrSizeMismatch, gp.size.W, gp.size.H, g.Width(), g.Height())
	}
	if err := PaintRGBA(gp.buf, g); err != nil {
		return err
	}
	gp.img.WritePixels(gp.buf)
	dst.DrawImage(gp.img, &gp.op)
	return nil
}

// Screen returns the surface size in pixels.
func (gp *GridPainter) Screen() (int, int) {
	return gp.size.W * gp.scale, gp.size.H * gp.scale
}
