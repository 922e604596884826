//go:build ebiten

package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"minotaur/internal/core"
	"minotaur/internal/render"
	"minotaur/internal/sim"
	"minotaur/internal/ui"
)

// gridSource is implemented by sims that expose their live grid.
type gridSource interface {
	Grid() *core.Grid
}

// restarter is implemented by sims that can replay their configured seed.
type restarter interface {
	Restart() error
}

// Game adapts a maze sim to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *log.Logger

	scale    int
	hudWidth int
	elapsed  time.Duration
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(s core.Sim, cfg *Config, logger *log.Logger) *Game {
	size := s.Size()
	return &Game{
		sim:      s,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(s, cfg.Scale, cfg.ShowPath),
		hud:      ui.NewHUD(s, cfg.HUDWidth),
		log:      logger,
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		elapsed:  cfg.TickElapsed(),
		seed:     cfg.Seed,
	}
}

// Reset regenerates the maze with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	if err := g.sim.Reset(seed); err != nil {
		g.log.Error("reset", "seed", seed, "err", err)
	}
	g.tickOnce = false
}

// Restart replays the sim's current seed.
func (g *Game) Restart() {
	r, ok := g.sim.(restarter)
	if !ok {
		g.Reset(g.seed)
		return
	}
	if err := r.Restart(); err != nil {
		g.log.Error("restart", "err", err)
	}
	g.tickOnce = false
}

// Update handles input and advances the sim by one tick of synthetic time.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.overlay.Update()

	if !g.paused || g.tickOnce {
		if err := g.sim.OnTick(g.elapsed); err != nil {
			if !errors.Is(err, sim.ErrRepairExhausted) {
				return err
			}
			g.log.Warn("degraded tick", "err", err)
		}
		g.tickOnce = false
	}
	g.hud.Update(g.mazeWidth(), ui.StatusLine(g.sim, g.paused, g.overlay.ShowPath()))
	return nil
}

// Draw renders the maze, the route outline and the control panel.
func (g *Game) Draw(screen *ebiten.Image) {
	if src, ok := g.sim.(gridSource); ok {
		g.painter.Blit(screen, src.Grid(), g.sim.AgentPosition(), g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.mazeWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.mazeWidth() + g.hudWidth, s.H * g.scale
}

func (g *Game) mazeWidth() int { return g.sim.Size().W * g.scale }
