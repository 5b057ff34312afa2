package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/components"
	"github.com/pthm-cable/frostframe/config"
)

// Phase is the state of a flake as seen by the accumulation stepper.
type Phase uint8

const (
	Airborne    Phase = iota // still falling
	Landed                   // touched ground above the landing floor
	FellThrough              // left the volume, or touched ground too deep to count
)

func (p Phase) String() string {
	switch p {
	case Airborne:
		return "airborne"
	case Landed:
		return "landed"
	case FellThrough:
		return "fell_through"
	}
	return "unknown"
}

// Classification thresholds on the y axis.
const (
	LandingFloor = -2.0 // collided flakes must be above this to feed a pile
	RescueFloor  = -5.0 // flakes below this are recycled unconditionally
)

// Recycle tuning: flakes re-enter in a 30x30 band 15-20 units up, shifted
// upwind so the flow stays continuous across the view.
const (
	RecycleSpread      = 30.0
	RecycleMinHeight   = 15.0
	RecycleHeightRange = 5.0
	RecycleUpwindShift = 1.5
	RecycleFallSpeed   = -2.0
)

// ParticlePool owns the fixed population of falling flakes. Every flake is an
// ECS entity; the pool keeps them in a dense slice so slot i is stable for the
// whole run. Entities are never added or removed after construction.
type ParticlePool struct {
	world    *ecs.World
	entities []ecs.Entity
	spawn    config.SpawnConfig
	rng      *rand.Rand

	posMap   *ecs.Map[components.Position]
	velMap   *ecs.Map[components.Velocity]
	spinMap  *ecs.Map[components.Spin]
	forceMap *ecs.Map[components.Force]
	flakeMap *ecs.Map[components.Flake]
}

// NewParticlePool creates count flake entities in world and scatters them
// through the spawn volume.
func NewParticlePool(world *ecs.World, count int, body components.Body, spawn config.SpawnConfig, rng *rand.Rand) *ParticlePool {
	if count < 0 {
		count = 0
	}
	p := &ParticlePool{
		world:    world,
		entities: make([]ecs.Entity, count),
		spawn:    spawn,
		rng:      rng,
		posMap:   ecs.NewMap[components.Position](world),
		velMap:   ecs.NewMap[components.Velocity](world),
		spinMap:  ecs.NewMap[components.Spin](world),
		forceMap: ecs.NewMap[components.Force](world),
		flakeMap: ecs.NewMap[components.Flake](world),
	}

	mapper := ecs.NewMap6[
		components.Position,
		components.Velocity,
		components.Spin,
		components.Force,
		components.Body,
		components.Flake,
	](world)

	for i := range p.entities {
		pos := components.Position{}
		vel := components.Velocity{}
		spin := components.Spin{}
		force := components.Force{}
		b := body
		flake := components.Flake{Index: i}
		p.entities[i] = mapper.NewEntity(&pos, &vel, &spin, &force, &b, &flake)
	}

	p.Initialize()
	return p
}

// Initialize places every flake at a random point of the spawn volume at rest.
func (p *ParticlePool) Initialize() {
	for i, e := range p.entities {
		pos := p.posMap.Get(e)
		pos.Vec = r3.Vec{
			X: (p.rng.Float64()*2 - 1) * p.spawn.HalfWidth,
			Y: p.spawn.MinHeight + p.rng.Float64()*p.spawn.HeightRange,
			Z: (p.rng.Float64()*2 - 1) * p.spawn.HalfWidth,
		}
		p.velMap.Get(e).Vec = r3.Vec{}
		p.spinMap.Get(e).Vec = r3.Vec{}
		p.forceMap.Get(e).Vec = r3.Vec{}
		flake := p.flakeMap.Get(e)
		flake.Index = i
		flake.Collided = false
	}
}

// World returns the ECS world holding the flake entities.
func (p *ParticlePool) World() *ecs.World {
	return p.world
}

// Count returns the fixed population size.
func (p *ParticlePool) Count() int {
	return len(p.entities)
}

// Entity returns the ECS entity backing slot i.
func (p *ParticlePool) Entity(i int) ecs.Entity {
	return p.entities[i]
}

// Position returns the current position of flake i.
func (p *ParticlePool) Position(i int) r3.Vec {
	return p.posMap.Get(p.entities[i]).Vec
}

// Velocity returns the current velocity of flake i.
func (p *ParticlePool) Velocity(i int) r3.Vec {
	return p.velMap.Get(p.entities[i]).Vec
}

// SetState mirrors the integrator's view of flake i into the pool.
func (p *ParticlePool) SetState(i int, pos, vel r3.Vec) {
	e := p.entities[i]
	p.posMap.Get(e).Vec = pos
	p.velMap.Get(e).Vec = vel
}

// SetForce queues a force on flake i for the next integration step.
func (p *ParticlePool) SetForce(i int, f r3.Vec) {
	p.forceMap.Get(p.entities[i]).Vec = f
}

// Force returns the force queued on flake i.
func (p *ParticlePool) Force(i int) r3.Vec {
	return p.forceMap.Get(p.entities[i]).Vec
}

// MarkCollided records ground contact for flake i. Repeated calls before the
// next recycle have no further effect.
func (p *ParticlePool) MarkCollided(i int) {
	p.flakeMap.Get(p.entities[i]).Collided = true
}

// Collided reports whether flake i has touched ground since its last recycle.
func (p *ParticlePool) Collided(i int) bool {
	return p.flakeMap.Get(p.entities[i]).Collided
}

// Classify returns the phase of flake i. The collided flag is checked first:
// a collided flake at or below LandingFloor is recycled without feeding a pile.
// An uncollided flake between RescueFloor and LandingFloor keeps falling.
func (p *ParticlePool) Classify(i int) Phase {
	e := p.entities[i]
	y := p.posMap.Get(e).Y
	if p.flakeMap.Get(e).Collided {
		if y > LandingFloor {
			return Landed
		}
		return FellThrough
	}
	if y < RescueFloor {
		return FellThrough
	}
	return Airborne
}

// Recycle sends flake i back to the top of the volume, upwind of the current
// wind, falling straight down.
func (p *ParticlePool) Recycle(i int, wind r3.Vec) {
	e := p.entities[i]
	y := RecycleMinHeight + p.rng.Float64()*RecycleHeightRange
	x := (p.rng.Float64()-0.5)*RecycleSpread - wind.X*RecycleUpwindShift
	z := (p.rng.Float64()-0.5)*RecycleSpread - wind.Z*RecycleUpwindShift

	p.posMap.Get(e).Vec = r3.Vec{X: x, Y: y, Z: z}
	p.velMap.Get(e).Vec = r3.Vec{Y: RecycleFallSpeed}
	p.spinMap.Get(e).Vec = r3.Vec{}
	p.forceMap.Get(e).Vec = r3.Vec{}
	p.flakeMap.Get(e).Collided = false
}

// PositionsInto appends every flake position to dst in slot order.
func (p *ParticlePool) PositionsInto(dst []r3.Vec) []r3.Vec {
	for _, e := range p.entities {
		dst = append(dst, p.posMap.Get(e).Vec)
	}
	return dst
}
