//go:build ebiten

package app

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sparse-life/internal/playback"
	"sparse-life/internal/render"
	"sparse-life/internal/ui"
	"sparse-life/pkg/life"
)

const (
	panSpeed     = 2
	recenterTime = 0.6
)

// Game adapts a simulation to the ebiten.Game interface.
type Game struct {
	sim     *life.Simulation
	camera  *Camera
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	cells []uint8
	scale int
	ctx   context.Context
}

// New constructs a Game showing a w*h cell viewport of sim.
func New(ctx context.Context, sim *life.Simulation, w, h, scale int) *Game {
	cam := NewCamera(w, h, sim.Bounds().Center())
	return &Game{
		sim:     sim,
		camera:  cam,
		painter: render.NewGridPainter(cam.W, cam.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		cells:   make([]uint8, cam.W*cam.H),
		scale:   scale,
		ctx:     ctx,
	}
}

const hudWidth = 220

// Update handles per-frame input and feeds elapsed time to the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.sim.Mode() == playback.Paused {
		if err := g.sim.StepOnce(g.ctx); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPattern()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.camera.CenterOn(g.sim.Bounds().Center(), recenterTime)
	}
	g.handlePan()
	g.handleClick()

	dt := time.Second / time.Duration(ebiten.TPS())
	g.camera.Update(float32(dt.Seconds()))
	g.overlay.Update()
	g.hud.Update(g.camera.W * g.scale)

	if _, err := g.sim.Advance(g.ctx, dt); err != nil {
		return err
	}
	return nil
}

func (g *Game) handlePan() {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyLeft):
		g.camera.Pan(-panSpeed, 0)
	case ebiten.IsKeyPressed(ebiten.KeyRight):
		g.camera.Pan(panSpeed, 0)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyUp):
		g.camera.Pan(0, -panSpeed)
	case ebiten.IsKeyPressed(ebiten.KeyDown):
		g.camera.Pan(0, panSpeed)
	}
}

func (g *Game) handleClick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || mx >= g.camera.W*g.scale || my < 0 || my >= g.camera.H*g.scale {
		return
	}
	g.sim.ToggleCell(g.camera.ScreenToWorld(mx, my, g.scale))
}

func (g *Game) copyPattern() {
	doc := g.sim.ExportRLE()
	if err := clipboard.WriteAll(doc); err != nil {
		log.WithError(err).Warn("copy to clipboard failed")
		return
	}
	log.WithField("population", g.sim.Population()).Info("pattern copied to clipboard")
}

// Draw renders the visible part of the board.
func (g *Game) Draw(screen *ebiten.Image) {
	view := g.camera.View()
	var tracked []life.Coord
	if g.overlay.ShowTracked() {
		tracked = g.sim.TrackedCoordinates()
	}
	render.Rasterize(g.cells, view, g.sim.AliveCoordinates(), tracked)
	g.painter.Blit(screen, g.cells, render.DefaultPalette, g.scale)
	g.overlay.Draw(screen, view)
	g.hud.Draw(screen, g.camera.W*g.scale, g.camera.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.camera.W*g.scale + hudWidth, g.camera.H * g.scale
}
