package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/config"
)

// Collider is a static shape flakes can land on.
type Collider interface {
	// Resolve pushes a sphere of radius r centred at p out of the shape.
	// It returns the corrected centre, the outward contact normal, and
	// whether the sphere touched the shape at all.
	Resolve(p r3.Vec, r float64) (r3.Vec, r3.Vec, bool)
}

var up = r3.Vec{Y: 1}

// GroundPlane is an infinite horizontal plane.
type GroundPlane struct {
	Height float64
}

// Resolve implements Collider.
func (g GroundPlane) Resolve(p r3.Vec, r float64) (r3.Vec, r3.Vec, bool) {
	if p.Y-r >= g.Height {
		return p, r3.Vec{}, false
	}
	p.Y = g.Height + r
	return p, up, true
}

// Box is an axis-aligned box rotated around the vertical axis.
type Box struct {
	Center    r3.Vec
	Half      r3.Vec // half extents in the box's own frame
	RotationY float64
}

// Resolve implements Collider.
func (b Box) Resolve(p r3.Vec, r float64) (r3.Vec, r3.Vec, bool) {
	local := rotateY(r3.Sub(p, b.Center), -b.RotationY)
	closest := r3.Vec{
		X: clampFloat(local.X, -b.Half.X, b.Half.X),
		Y: clampFloat(local.Y, -b.Half.Y, b.Half.Y),
		Z: clampFloat(local.Z, -b.Half.Z, b.Half.Z),
	}

	delta := r3.Sub(local, closest)
	dist := r3.Norm(delta)
	if dist >= r {
		return p, r3.Vec{}, false
	}

	var normal r3.Vec
	if dist > 0 {
		normal = r3.Scale(1/dist, delta)
		local = r3.Add(closest, r3.Scale(r, normal))
	} else {
		// Centre is inside: leave through the nearest face.
		normal, local = b.exitNearestFace(local, r)
	}

	out := r3.Add(b.Center, rotateY(local, b.RotationY))
	return out, rotateY(normal, b.RotationY), true
}

func (b Box) exitNearestFace(local r3.Vec, r float64) (r3.Vec, r3.Vec) {
	dx := b.Half.X - math.Abs(local.X)
	dy := b.Half.Y - math.Abs(local.Y)
	dz := b.Half.Z - math.Abs(local.Z)

	switch {
	case dy <= dx && dy <= dz:
		s := math.Copysign(1, local.Y)
		local.Y = s * (b.Half.Y + r)
		return r3.Vec{Y: s}, local
	case dx <= dz:
		s := math.Copysign(1, local.X)
		local.X = s * (b.Half.X + r)
		return r3.Vec{X: s}, local
	default:
		s := math.Copysign(1, local.Z)
		local.Z = s * (b.Half.Z + r)
		return r3.Vec{Z: s}, local
	}
}

// Cone is an upright cone standing on Base.
type Cone struct {
	Base   r3.Vec
	Radius float64
	Height float64
}

// Resolve implements Collider. The slanted surface is treated as a plane in
// the (distance-from-axis, height) half-plane, which is exact away from the
// apex and the rim.
func (c Cone) Resolve(p r3.Vec, r float64) (r3.Vec, r3.Vec, bool) {
	h := p.Y - c.Base.Y
	if h < 0 || h > c.Height+r {
		return p, r3.Vec{}, false
	}

	radial := horizontal(r3.Sub(p, c.Base))
	d := r3.Norm(radial)
	dir := r3.Vec{X: 1}
	if d > 1e-9 {
		dir = r3.Scale(1/d, radial)
	}

	slant := math.Hypot(c.Height, c.Radius)
	nd, nh := c.Height/slant, c.Radius/slant
	signed := ((d-c.Radius)*c.Height + h*c.Radius) / slant
	if signed >= r {
		return p, r3.Vec{}, false
	}

	push := r - signed
	normal := r3.Add(r3.Scale(nd, dir), r3.Vec{Y: nh})
	return r3.Add(p, r3.Scale(push, normal)), normal, true
}

// Cylinder is an upright capped cylinder standing on Base.
type Cylinder struct {
	Base   r3.Vec
	Radius float64
	Height float64
}

// Resolve implements Collider.
func (c Cylinder) Resolve(p r3.Vec, r float64) (r3.Vec, r3.Vec, bool) {
	h := p.Y - c.Base.Y
	if h < -r || h > c.Height+r {
		return p, r3.Vec{}, false
	}

	radial := horizontal(r3.Sub(p, c.Base))
	d := r3.Norm(radial)
	if d >= c.Radius+r {
		return p, r3.Vec{}, false
	}

	// Resting on the cap.
	if h > c.Height && d <= c.Radius {
		p.Y = c.Base.Y + c.Height + r
		return p, up, true
	}
	if h < 0 || h > c.Height {
		return p, r3.Vec{}, false
	}

	dir := r3.Vec{X: 1}
	if d > 1e-9 {
		dir = r3.Scale(1/d, radial)
	}
	return r3.Add(p, r3.Scale(c.Radius+r-d, dir)), dir, true
}

// Scene is the static landscape: the ground and the props standing on it.
type Scene struct {
	Colliders []Collider
}

// NewScene builds colliders for the ground, houses and trees in cfg.
func NewScene(cfg config.SceneConfig) *Scene {
	s := &Scene{}
	s.Colliders = append(s.Colliders, GroundPlane{Height: cfg.GroundHeight})
	for _, h := range cfg.Houses {
		s.Colliders = append(s.Colliders, HouseColliders(vec(h.Position), h.Rotation)...)
	}
	for _, t := range cfg.Trees {
		s.Colliders = append(s.Colliders, TreeColliders(vec(t.Position), t.Scale)...)
	}
	return s
}

// HouseColliders returns the shapes of a house standing at base: a 2x1.5x2
// block with a pyramid roof. The roof is approximated by its circumscribed cone.
func HouseColliders(base r3.Vec, rotationY float64) []Collider {
	return []Collider{
		Box{
			Center:    r3.Add(base, r3.Vec{Y: 0.75}),
			Half:      r3.Vec{X: 1, Y: 0.75, Z: 1},
			RotationY: rotationY,
		},
		Cone{Base: r3.Add(base, r3.Vec{Y: 1.5}), Radius: 1.6, Height: 1.5},
	}
}

// TreeColliders returns the shapes of a tree standing at base: a trunk and
// two stacked foliage cones, all scaled by scale.
func TreeColliders(base r3.Vec, scale float64) []Collider {
	return []Collider{
		Cylinder{Base: base, Radius: 0.25 * scale, Height: scale},
		Cone{Base: r3.Add(base, r3.Vec{Y: 0.75 * scale}), Radius: 1.2 * scale, Height: 1.5 * scale},
		Cone{Base: r3.Add(base, r3.Vec{Y: 1.8 * scale}), Radius: 0.9 * scale, Height: 1.2 * scale},
	}
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
