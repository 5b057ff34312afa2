package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/camera"
	"github.com/pthm-cable/frostframe/inspector"
	"github.com/pthm-cable/frostframe/stream"
)

// Inspector panel dimensions
const (
	InspectorWidth  = 260
	inspectorHeader = 26
)

var (
	colorHighlight = rl.Color{R: 255, G: 200, B: 100, A: 255}
	colorCloseBtn  = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// Inspector tracks the pile picked with the mouse and draws its panel.
type Inspector struct {
	selected    int
	hasSelected bool

	panelX, panelY int32
	pileRadius     float32
	renderer       *Renderer
}

// NewInspector creates an inspector docked to the right edge of the screen.
// pileRadius is the radius of the sphere piles are drawn with.
func NewInspector(screenWidth, screenHeight int32, pileRadius float32) *Inspector {
	ins := &Inspector{renderer: NewRenderer(), pileRadius: pileRadius}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-docks the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - InspectorWidth - 10
	ins.panelY = 10
}

// Selected returns the selected pile index.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Contains reports whether a screen point is over the open panel.
func (ins *Inspector) Contains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+InspectorWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.height()
}

func (ins *Inspector) height() int32 {
	return inspectorHeader + 8*ins.renderer.Theme.LineHeight
}

// HandleInput selects the pile under a left click. Clicking empty ground or
// the close button deselects. Returns true when a pile was picked.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cam *camera.Camera, screenW, screenH float32, f *stream.Frame) bool {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}

	if ins.hasSelected {
		closeX := ins.panelX + InspectorWidth - 22
		closeY := ins.panelY + 4
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+18 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+18 {
			ins.Deselect()
			return false
		}
		if ins.Contains(mouseX, mouseY) {
			return false
		}
	}

	if f == nil {
		return false
	}
	o, d := cam.ScreenRay(mouseX, mouseY, screenW, screenH)
	idx, ok := inspector.PickPile(r3.Vec{X: o[0], Y: o[1], Z: o[2]}, r3.Vec{X: d[0], Y: d[1], Z: d[2]}, f.Piles, float64(ins.pileRadius))
	ins.selected = idx
	ins.hasSelected = ok
	return ok
}

// DrawHighlight outlines the selected pile. Must be called inside BeginMode3D.
func (ins *Inspector) DrawHighlight(f *stream.Frame) {
	if !ins.valid(f) {
		return
	}
	p := f.Piles[ins.selected]
	pos := rl.Vector3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
	radius := ins.pileRadius * p.Scale[0]
	rl.DrawCircle3D(pos, radius, rl.Vector3{X: 1}, 90, colorHighlight)
}

// Draw renders the panel for the selected pile.
func (ins *Inspector) Draw(f *stream.Frame) {
	if !ins.valid(f) {
		ins.hasSelected = false
		return
	}

	r := ins.renderer
	th := r.Theme
	r.DrawPanel(ins.panelX, ins.panelY, InspectorWidth, ins.height())

	rl.DrawText(fmt.Sprintf("Pile #%d", ins.selected), ins.panelX+th.Padding, ins.panelY+6, th.HeaderFontSize, th.SectionHeader)
	closeX := ins.panelX + InspectorWidth - 22
	rl.DrawRectangle(closeX, ins.panelY+4, 18, 18, colorCloseBtn)
	rl.DrawText("x", closeX+5, ins.panelY+5, th.FontSize, rl.White)

	y := ins.panelY + inspectorHeader
	for _, field := range inspector.Describe(ins.selected, f) {
		y = r.DrawLabelValue(ins.panelX+th.Padding, y, field.Label, field.Value)
	}
}

// valid reports whether the selection still names a pile in f. A reset
// empties the store and invalidates it.
func (ins *Inspector) valid(f *stream.Frame) bool {
	return ins.hasSelected && f != nil && ins.selected < len(f.Piles)
}
