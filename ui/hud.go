package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	SimTime      float64
	Airborne     int
	Piles        int
	PileCapacity int
	TotalVolume  float64
	Speed        int
	FPS          int32
	Paused       bool
	Clients      int // connected stream viewers
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Lines returns the HUD's status lines below the title.
func (h *HUD) Lines(data HUDData) []string {
	lines := []string{
		fmt.Sprintf("Falling: %d | Piles: %d/%d | Snow: %.0f", data.Airborne, data.Piles, data.PileCapacity, data.TotalVolume),
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
	}
	if data.Clients > 0 {
		lines = append(lines, fmt.Sprintf("Stream viewers: %d", data.Clients))
	}
	return lines
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	y := int32(35)
	for _, line := range h.Lines(data) {
		rl.DrawText(line, 10, y, 16, rl.LightGray)
		y += 20
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
