package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frostframe/ui"
)

const controlsText = "[Drag RMB] Orbit  [Wheel] Zoom  [LMB] Inspect pile  [C] Camera  [H] Panel  [R] Reset  [Space] Pause  [<>] Speed"

// Draw renders the scene, the snow and the overlays.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.sky.Draw()

	rl.BeginMode3D(g.camera3D())
	g.scene.Draw()
	g.snow.Draw(g.frame)
	g.inspector.DrawHighlight(g.frame)
	rl.EndMode3D()

	g.drawHUD()
	g.inspector.Draw(g.frame)

	// The panel both draws and reports edits; apply them before the next tick.
	g.applyWeatherAction(g.panel.Draw(g.sim.Weather()))

	rl.EndDrawing()
}

func (g *Game) drawHUD() {
	snow := g.sim.Snow()
	g.hud.Draw(ui.HUDData{
		Title:        "FrostFrame",
		Tick:         g.sim.Tick(),
		SimTime:      g.sim.Time(),
		Airborne:     g.sim.LastReport().Airborne,
		Piles:        snow.Piles.Count(),
		PileCapacity: snow.Piles.Capacity(),
		TotalVolume:  g.sim.TotalVolume(),
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Clients:      g.sim.StreamClients(),
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsText)
}
