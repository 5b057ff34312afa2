package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frostframe/config"
)

var (
	groundColor = rl.Color{R: 236, G: 240, B: 245, A: 255}
	wallColor   = rl.Color{R: 139, G: 90, B: 60, A: 255}
	roofColor   = rl.Color{R: 120, G: 40, B: 35, A: 255}
	trunkColor  = rl.Color{R: 92, G: 64, B: 40, A: 255}
	leafColor   = rl.Color{R: 34, G: 90, B: 52, A: 255}
)

// SceneRenderer draws the static landscape: ground, houses and trees. The
// shapes match the colliders built from the same scene config.
type SceneRenderer struct {
	cfg config.SceneConfig
}

// NewSceneRenderer creates a renderer for the given scene.
func NewSceneRenderer(cfg config.SceneConfig) *SceneRenderer {
	return &SceneRenderer{cfg: cfg}
}

// Draw renders the scene. Must be called inside BeginMode3D.
func (r *SceneRenderer) Draw() {
	size := float32(r.cfg.GroundSize)
	rl.DrawPlane(rl.Vector3{Y: float32(r.cfg.GroundHeight)}, rl.Vector2{X: size, Y: size}, groundColor)

	for _, h := range r.cfg.Houses {
		drawHouse(vec3(h.Position), float32(h.Rotation))
	}
	for _, t := range r.cfg.Trees {
		drawTree(vec3(t.Position), float32(t.Scale))
	}
}

func drawHouse(base rl.Vector3, rotation float32) {
	rl.PushMatrix()
	rl.Translatef(base.X, base.Y, base.Z)
	rl.Rotatef(rotation*rl.Rad2deg, 0, 1, 0)

	rl.DrawCube(rl.Vector3{Y: 0.75}, 2, 1.5, 2, wallColor)
	rl.DrawCubeWires(rl.Vector3{Y: 0.75}, 2, 1.5, 2, rl.Fade(rl.Black, 0.3))

	// Four-sided pyramid, turned so its edges sit over the walls.
	rl.Rotatef(45, 0, 1, 0)
	rl.DrawCylinder(rl.Vector3{Y: 1.5}, 0, 1.6, 1.5, 4, roofColor)

	rl.PopMatrix()
}

func drawTree(base rl.Vector3, s float32) {
	rl.DrawCylinder(base, 0.25*s, 0.25*s, s, 8, trunkColor)
	rl.DrawCylinder(rl.Vector3{X: base.X, Y: base.Y + 0.75*s, Z: base.Z}, 0, 1.2*s, 1.5*s, 12, leafColor)
	rl.DrawCylinder(rl.Vector3{X: base.X, Y: base.Y + 1.8*s, Z: base.Z}, 0, 0.9*s, 1.2*s, 12, leafColor)
}

func vec3(a [3]float64) rl.Vector3 {
	return rl.Vector3{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}
