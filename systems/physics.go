package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/components"
	"github.com/pthm-cable/frostframe/config"
)

// ContactFunc is called with a flake's pool slot when it touches a collider.
type ContactFunc func(i int)

// PhysicsSystem integrates flake motion and reports contacts with the scene.
// It stands in for a rigid-body engine: flakes are spheres that only collide
// with static colliders, never with each other.
type PhysicsSystem struct {
	filter ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Spin,
		components.Force,
		components.Body,
		components.Flake,
	]
	scene    *Scene
	damping  float64
	friction float64
}

// NewPhysicsSystem creates a new physics system over every flake in w.
func NewPhysicsSystem(w *ecs.World, scene *Scene, cfg config.PhysicsConfig) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Spin,
			components.Force,
			components.Body,
			components.Flake,
		](w),
		scene:    scene,
		damping:  cfg.LinearDamping,
		friction: cfg.Friction,
	}
}

// Step advances every flake by dt seconds under gravity (y axis) plus its
// queued force, then resolves contacts. onContact may be nil. Returns the
// number of contacts reported.
func (s *PhysicsSystem) Step(gravity, dt float64, onContact ContactFunc) int {
	contacts := 0
	keep := math.Pow(1-s.damping, dt)
	g := r3.Vec{Y: gravity}

	query := s.filter.Query()
	for query.Next() {
		pos, vel, spin, force, body, flake := query.Get()

		acc := g
		if body.Mass > 0 {
			acc = r3.Add(acc, r3.Scale(1/body.Mass, force.Vec))
		}
		force.Vec = r3.Vec{}

		vel.Vec = r3.Scale(keep, r3.Add(vel.Vec, r3.Scale(dt, acc)))
		pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))

		if s.resolve(pos, vel, body.Radius) {
			spin.Vec = r3.Vec{}
			contacts++
			if onContact != nil {
				onContact(flake.Index)
			}
		}
	}

	return contacts
}

// resolve pushes the flake out of every collider it overlaps and strips the
// inward part of its velocity (no bounce).
func (s *PhysicsSystem) resolve(pos *components.Position, vel *components.Velocity, radius float64) bool {
	hit := false
	for _, c := range s.scene.Colliders {
		p, n, ok := c.Resolve(pos.Vec, radius)
		if !ok {
			continue
		}
		hit = true
		pos.Vec = p

		vn := r3.Dot(vel.Vec, n)
		if vn < 0 {
			vel.Vec = r3.Sub(vel.Vec, r3.Scale(vn, n))
		}
		vel.Vec = r3.Scale(1-s.friction, vel.Vec)
	}
	return hit
}
