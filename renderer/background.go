package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// SkyRenderer paints the overcast sky behind the 3D scene.
type SkyRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
}

// NewSkyRenderer creates a sky gradient for the given screen size.
func NewSkyRenderer(screenW, screenH int32) *SkyRenderer {
	return &SkyRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     rl.Color{R: 58, G: 74, B: 96, A: 255},
		bottom:  rl.Color{R: 176, G: 190, B: 205, A: 255},
	}
}

// Resize updates the gradient's extent.
func (s *SkyRenderer) Resize(screenW, screenH int32) {
	s.screenW, s.screenH = screenW, screenH
}

// Draw must be called before BeginMode3D.
func (s *SkyRenderer) Draw() {
	rl.DrawRectangleGradientV(0, 0, s.screenW, s.screenH, s.top, s.bottom)
}
