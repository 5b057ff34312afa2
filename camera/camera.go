// Package camera provides an orbit camera for viewing the scene.
package camera

import "math"

// Camera orbits a target point. Its eye position is kept in spherical
// coordinates around the target so dragging can never flip it upside down.
type Camera struct {
	// Target is the point the camera looks at.
	TargetX, TargetY, TargetZ float32

	// Distance from target to eye.
	Distance float32

	// Azimuth is the angle around the vertical axis, measured from +Z toward +X.
	Azimuth float32

	// Polar is the angle down from straight overhead.
	Polar float32

	// FovY is the vertical field of view in degrees.
	FovY float32

	MinDistance, MaxDistance float32
	MinPolar, MaxPolar       float32

	// Sensitivity converts dragged pixels to radians.
	Sensitivity float32

	home orbit
}

// orbit is the part of a camera that Reset restores.
type orbit struct {
	targetX, targetY, targetZ float32
	distance, azimuth, polar  float32
	fovY                      float32
}

// Default eye and target of the viewer.
const (
	DefaultEyeX, DefaultEyeY, DefaultEyeZ          = 10, 8, 10
	DefaultTargetX, DefaultTargetY, DefaultTargetZ = 0, 1, 0
	DefaultFovY                                    = 45
)

// New creates a camera at eye looking at target.
func New(eyeX, eyeY, eyeZ, targetX, targetY, targetZ float32) *Camera {
	dx := float64(eyeX - targetX)
	dy := float64(eyeY - targetY)
	dz := float64(eyeZ - targetZ)
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	c := &Camera{
		TargetX:     targetX,
		TargetY:     targetY,
		TargetZ:     targetZ,
		Distance:    float32(dist),
		Azimuth:     float32(math.Atan2(dx, dz)),
		FovY:        DefaultFovY,
		MinDistance: 3,
		MaxDistance: 60,
		MinPolar:    0.05,
		MaxPolar:    math.Pi/2 - 0.1, // never below the ground plane
		Sensitivity: 0.005,
	}
	if dist > 0 {
		c.Polar = float32(math.Acos(dy / dist))
	}
	c.Polar = clamp(c.Polar, c.MinPolar, c.MaxPolar)
	c.home = c.orbit()
	return c
}

// NewDefault creates the viewer's starting camera.
func NewDefault() *Camera {
	return New(DefaultEyeX, DefaultEyeY, DefaultEyeZ, DefaultTargetX, DefaultTargetY, DefaultTargetZ)
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() (x, y, z float32) {
	sp, cp := math.Sincos(float64(c.Polar))
	sa, ca := math.Sincos(float64(c.Azimuth))
	d := float64(c.Distance)
	return c.TargetX + float32(d*sp*sa),
		c.TargetY + float32(d*cp),
		c.TargetZ + float32(d*sp*ca)
}

// Orbit rotates the eye around the target by a mouse drag of (dx, dy) pixels.
func (c *Camera) Orbit(dx, dy float32) {
	c.Azimuth = wrapAngle(c.Azimuth - dx*c.Sensitivity)
	c.Polar = clamp(c.Polar-dy*c.Sensitivity, c.MinPolar, c.MaxPolar)
}

// ZoomBy scales the orbit distance by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Reset returns the camera to where it was created.
func (c *Camera) Reset() {
	h := c.home
	c.TargetX, c.TargetY, c.TargetZ = h.targetX, h.targetY, h.targetZ
	c.Distance, c.Azimuth, c.Polar = h.distance, h.azimuth, h.polar
	c.FovY = h.fovY
}

func (c *Camera) orbit() orbit {
	return orbit{
		targetX:  c.TargetX,
		targetY:  c.TargetY,
		targetZ:  c.TargetZ,
		distance: c.Distance,
		azimuth:  c.Azimuth,
		polar:    c.Polar,
		fovY:     c.FovY,
	}
}

// ScreenRay returns the world-space ray through screen pixel (px, py) of a
// viewport w by h pixels. dir is unit length. An empty viewport yields the
// view direction.
func (c *Camera) ScreenRay(px, py, w, h float32) (origin, dir [3]float64) {
	ex, ey, ez := c.Eye()
	origin = [3]float64{float64(ex), float64(ey), float64(ez)}

	fwd := normalize([3]float64{
		float64(c.TargetX) - origin[0],
		float64(c.TargetY) - origin[1],
		float64(c.TargetZ) - origin[2],
	})
	right := normalize(cross(fwd, [3]float64{0, 1, 0}))
	up := cross(right, fwd)

	if w <= 0 || h <= 0 {
		return origin, fwd
	}

	tanHalf := math.Tan(float64(c.FovY) * math.Pi / 360)
	aspect := float64(w) / float64(h)
	sx := (2*float64(px)/float64(w) - 1) * tanHalf * aspect
	sy := (1 - 2*float64(py)/float64(h)) * tanHalf

	for i := range dir {
		dir[i] = fwd[i] + right[i]*sx + up[i]*sy
	}
	return origin, normalize(dir)
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func wrapAngle(a float32) float32 {
	r := float32(math.Mod(float64(a), 2*math.Pi))
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
