// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Force is the force queued for the next integration step. The integrator
// consumes and zeroes it.
type Force struct {
	r3.Vec
}

// Flake marks an entity as a falling snow particle.
type Flake struct {
	Index    int  // dense slot in the particle pool
	Collided bool // set by the integrator on contact, cleared on recycle
}
