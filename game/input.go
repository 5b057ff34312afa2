package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.resetSimulation()
	}

	mouse := rl.GetMousePosition()
	overPanel := g.panel.Contains(mouse.X, mouse.Y)

	// The inspector handles clicks on its own panel.
	if !overPanel {
		g.inspector.HandleInput(mouse.X, mouse.Y, g.camera, g.screenWidth, g.screenHeight, g.frame)
	}
	g.handleCameraInput(overPanel || g.inspector.Contains(mouse.X, mouse.Y))
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.sky.Resize(int32(w), int32(h))
	g.inspector.Resize(int32(w), int32(h))
}

// handleCameraInput orbits on right-drag and zooms on the wheel. Drags that
// start over a panel belong to its widgets.
func (g *Game) handleCameraInput(overUI bool) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !overUI {
		g.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		g.dragging = false
	}
	if g.dragging {
		d := rl.GetMouseDelta()
		g.camera.Orbit(d.X, d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overUI {
		g.camera.ZoomBy(1 - wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	if rl.IsKeyPressed(rl.KeyC) || rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
