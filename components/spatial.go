package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents a flake's world position.
type Position struct {
	r3.Vec
}

// Velocity represents a flake's linear velocity in units per second.
type Velocity struct {
	r3.Vec
}

// Spin represents a flake's angular velocity. Flakes are spheres so it never
// feeds back into motion, but recycling must still clear it.
type Spin struct {
	r3.Vec
}
