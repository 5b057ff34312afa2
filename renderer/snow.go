package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frostframe/stream"
)

var (
	flakeColor = rl.Color{R: 255, G: 255, B: 255, A: 230}
	pileColor  = rl.Color{R: 245, G: 248, B: 252, A: 255}
)

// SnowRenderer draws falling flakes and accumulated piles from a frame. Piles
// share the flake's sphere, stretched by their scale.
type SnowRenderer struct {
	flakeRadius float32
	pile        rl.Model
	initialized bool
}

// NewSnowRenderer creates a renderer drawing flakes of the given radius.
func NewSnowRenderer(flakeRadius float32) *SnowRenderer {
	return &SnowRenderer{flakeRadius: flakeRadius}
}

// Init builds the pile mesh (must be called after raylib window is created).
func (r *SnowRenderer) Init() {
	if r.initialized {
		return
	}
	r.pile = rl.LoadModelFromMesh(rl.GenMeshSphere(r.flakeRadius, 8, 12))
	r.initialized = true
}

// Draw renders the frame's flakes and piles. Must be called inside BeginMode3D.
func (r *SnowRenderer) Draw(f *stream.Frame) {
	if f == nil {
		return
	}
	if !r.initialized {
		r.Init()
	}

	for _, p := range f.Piles {
		rl.DrawModelEx(r.pile,
			rl.Vector3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
			rl.Vector3{Y: 1},
			p.RotationY*rl.Rad2deg,
			rl.Vector3{X: p.Scale[0], Y: p.Scale[1], Z: p.Scale[2]},
			pileColor)
	}

	for _, p := range f.Particles {
		rl.DrawSphereEx(rl.Vector3{X: p[0], Y: p[1], Z: p[2]}, r.flakeRadius, 3, 4, flakeColor)
	}
}

// Unload frees resources.
func (r *SnowRenderer) Unload() {
	if r.initialized {
		rl.UnloadModel(r.pile)
		r.initialized = false
	}
}
