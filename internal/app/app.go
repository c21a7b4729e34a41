//go:build ebiten

package app

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"inkverify/internal/render"
)

// Game adapts a Viewer to the ebiten.Game interface.
type Game struct {
	viewer  *Viewer
	painter *render.GridPainter
	status  bool
	err     error
}

// New constructs a Game drawing v at the given pixel scale.
func New(v *Viewer, scale int) (*Game, error) {
	painter, err := render.NewGridPainter(v.Sim().Size(), scale)
	if err != nil {
		return nil, err
	}
	return &Game{viewer: v, painter: painter, status: true}, nil
}

// Update handles input and advances the replay. A failed Draw stops the game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.viewer.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.viewer.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.viewer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.status = !g.status
	}
	g.viewer.Tick()
	return nil
}

// Draw renders the current generation.
func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.painter.Draw(screen, g.viewer.Sim().Grid()); err != nil {
		g.err = err
		return
	}
	if !g.status {
		return
	}
	msg := fmt.Sprintf("step %d", g.viewer.Step())
	if g.viewer.Paused() {
		msg += " (paused)"
	}
	if d := g.viewer.Digest(); d != "" {
		msg += "\n" + d[:16] + "..."
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.painter.Screen()
}
