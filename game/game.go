// Package game hosts the simulation in a raylib window: input, camera,
// rendering and the weather panel. Headless runs skip everything visual.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frostframe/camera"
	"github.com/pthm-cable/frostframe/config"
	"github.com/pthm-cable/frostframe/renderer"
	"github.com/pthm-cable/frostframe/sim"
	"github.com/pthm-cable/frostframe/stream"
	"github.com/pthm-cable/frostframe/ui"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	LogStats       bool    // Output stats via slog
	StatsWindowSec float64 // Stats window size in seconds (0 = use config)
	OutputDir      string  // Directory for CSV output (empty = disabled)
	ServeAddr      string  // Stream server address (empty = use config)
	Headless       bool    // Skip all rendering
	StepsPerUpdate int     // Ticks per Update call
}

// Game holds the viewer state around one simulation.
type Game struct {
	sim  *sim.Simulation
	opts Options

	// Rendering (nil in headless mode)
	camera    *camera.Camera
	sky       *renderer.SkyRenderer
	scene     *renderer.SceneRenderer
	snow      *renderer.SnowRenderer
	hud       *ui.HUD
	panel     *ui.WeatherPanel
	inspector *ui.Inspector

	frame *stream.Frame // rendered view, rebuilt after stepping

	paused         bool
	stepsPerUpdate int
	dragging       bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In graphical mode the raylib window must
// already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	s, err := sim.New(cfg, sim.Options{
		Seed:           opts.Seed,
		LogStats:       opts.LogStats,
		StatsWindowSec: opts.StatsWindowSec,
		OutputDir:      opts.OutputDir,
		ServeAddr:      opts.ServeAddr,
	})
	if err != nil {
		return nil, err
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		sim:            s,
		opts:           opts,
		stepsPerUpdate: steps,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	if !opts.Headless {
		g.camera = camera.NewDefault()
		g.sky = renderer.NewSkyRenderer(int32(g.screenWidth), int32(g.screenHeight))
		g.scene = renderer.NewSceneRenderer(cfg.Scene)
		g.snow = renderer.NewSnowRenderer(float32(cfg.Snow.ParticleSize))
		g.snow.Init()
		g.hud = ui.NewHUD()
		g.panel = ui.NewWeatherPanel(10, 110, 280)
		g.inspector = ui.NewInspector(int32(g.screenWidth), int32(g.screenHeight), float32(cfg.Snow.ParticleSize))
		g.frame = s.Frame()
	}

	return g, nil
}

// Update handles input and advances the simulation.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Perf().RecordFrame()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.sim.Step()
		}
	}
	g.frame = g.sim.Frame()
}

// UpdateHeadless advances the simulation without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step()
	}
}

// applyWeatherAction feeds panel edits into the simulation. The panel is
// drawn between ticks so edits land before the next one.
func (g *Game) applyWeatherAction(a ui.WeatherAction) {
	if a.Changed {
		g.sim.SetWeather(a.Weather)
	}
	if a.Reset {
		g.resetSimulation()
	}
}

// resetSimulation restores the starting weather and clears the snow.
func (g *Game) resetSimulation() {
	g.sim.SetWeather(g.sim.DefaultWeather())
	g.sim.Reset()
	if g.inspector != nil {
		g.inspector.Deselect()
	}
	g.frame = g.sim.Frame()
}

// Unload frees resources and stops the stream server.
func (g *Game) Unload() {
	if g.snow != nil {
		g.snow.Unload()
	}
	if err := g.sim.Close(); err != nil {
		slog.Error("failed to close simulation", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Simulation returns the hosted simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

func (g *Game) camera3D() rl.Camera3D {
	ex, ey, ez := g.camera.Eye()
	return rl.Camera3D{
		Position:   rl.Vector3{X: ex, Y: ey, Z: ez},
		Target:     rl.Vector3{X: g.camera.TargetX, Y: g.camera.TargetY, Z: g.camera.TargetZ},
		Up:         rl.Vector3{Y: 1},
		Fovy:       g.camera.FovY,
		Projection: rl.CameraPerspective,
	}
}
