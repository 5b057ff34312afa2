package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/config"
)

// Force tuning. The horizontal drive is scaled down hard and a small
// constant pull is added on top of gravity.
const (
	ForceHorizontalScale = 0.05
	ForceDownwardBias    = -0.01
)

// WindVector returns the horizontal wind for the given weather. Direction is
// in degrees, 0 blowing toward +Z and 90 toward +X.
func WindVector(w config.WeatherConfig) r3.Vec {
	rad := w.WindDirection * math.Pi / 180
	return r3.Vec{
		X: math.Sin(rad) * w.WindSpeed,
		Z: math.Cos(rad) * w.WindSpeed,
	}
}

// FlakeForce returns the force to apply to a flake at pos, t seconds into the
// run. Turbulence uses the flake's own x/z so neighbours drift differently.
func FlakeForce(wind r3.Vec, turbulence, t float64, pos r3.Vec) r3.Vec {
	turbX := math.Sin(t*2+pos.X) * turbulence
	turbZ := math.Cos(t*1.5+pos.Z) * turbulence
	return r3.Vec{
		X: (wind.X + turbX) * ForceHorizontalScale,
		Y: ForceDownwardBias,
		Z: (wind.Z + turbZ) * ForceHorizontalScale,
	}
}
