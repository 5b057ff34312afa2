// Package inspector lets the viewer click a snow pile and read its state.
package inspector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/stream"
	"github.com/pthm-cable/frostframe/systems"
)

// PickPile returns the index of the nearest pile hit by the ray from origin
// along dir. Piles are drawn as a sphere of radius stretched by their scale,
// so each is an ellipsoid with semi-axes radius*scale. dir need not be
// normalized.
func PickPile(origin, dir r3.Vec, piles []stream.PileFrame, radius float64) (int, bool) {
	best := -1
	bestT := math.Inf(1)

	for i, p := range piles {
		axes := r3.Vec{
			X: radius * float64(p.Scale[0]),
			Y: radius * float64(p.Scale[1]),
			Z: radius * float64(p.Scale[2]),
		}
		if axes.X <= 0 || axes.Y <= 0 || axes.Z <= 0 {
			continue
		}
		centre := r3.Vec{X: float64(p.Position[0]), Y: float64(p.Position[1]), Z: float64(p.Position[2])}

		// Squash into the unit sphere's frame. Scale is symmetric in x and z,
		// so the pile's yaw does not matter.
		o := divide(r3.Sub(origin, centre), axes)
		d := divide(dir, axes)

		t, ok := unitSphereHit(o, d)
		if ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}

// unitSphereHit returns the smallest non-negative t with |o + t*d| = 1.
func unitSphereHit(o, d r3.Vec) (float64, bool) {
	a := r3.Dot(d, d)
	if a == 0 {
		return 0, false
	}
	b := 2 * r3.Dot(o, d)
	c := r3.Dot(o, o) - 1

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	switch {
	case t0 >= 0:
		return t0, true
	case t1 >= 0:
		return t1, true // origin inside
	}
	return 0, false
}

func divide(v, by r3.Vec) r3.Vec {
	return r3.Vec{X: v.X / by.X, Y: v.Y / by.Y, Z: v.Z / by.Z}
}

// Field is one labelled row of the pile panel.
type Field struct {
	Label string
	Value string
}

// Describe returns the panel rows for pile index of f.
func Describe(index int, f *stream.Frame) []Field {
	p := f.Piles[index]
	pos := r3.Vec{X: float64(p.Position[0]), Y: float64(p.Position[1]), Z: float64(p.Position[2])}
	key := systems.KeyOf(pos)

	var total float64
	for _, other := range f.Piles {
		total += float64(other.Volume)
	}
	share := 0.0
	if total > 0 {
		share = float64(p.Volume) / total
	}

	landings := int(math.Round((float64(p.Volume) - systems.PileInitialVolume) / systems.PileLandingVolume))

	return []Field{
		{"Position", fmt.Sprintf("%.2f, %.2f, %.2f", p.Position[0], p.Position[1], p.Position[2])},
		{"Cell", fmt.Sprintf("%d, %d, %d", key.X, key.Y, key.Z)},
		{"Volume", fmt.Sprintf("%.0f", p.Volume)},
		{"Landings", fmt.Sprintf("%d", landings+1)},
		{"Scale", fmt.Sprintf("%.2f x %.2f", p.Scale[0], p.Scale[1])},
		{"Heading", fmt.Sprintf("%.0f deg", float64(p.RotationY)*180/math.Pi)},
		{"Share", fmt.Sprintf("%.1f%%", share*100)},
	}
}
