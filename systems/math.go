package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// rotateY rotates v by angle radians around the vertical axis, using the
// same handedness as the scene props.
func rotateY(v r3.Vec, angle float64) r3.Vec {
	sin, cos := math.Sincos(angle)
	return r3.Vec{
		X: cos*v.X + sin*v.Z,
		Y: v.Y,
		Z: -sin*v.X + cos*v.Z,
	}
}

// horizontal returns the x/z part of v.
func horizontal(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}
