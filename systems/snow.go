package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/frostframe/components"
	"github.com/pthm-cable/frostframe/config"
)

// Snow bundles the accumulation engine of one simulation run: the flake
// pool, the pile store with its merge index, and the stepper over them.
type Snow struct {
	Pool  *ParticlePool
	Piles *PileStore
	Index *SpatialHash

	cfg     config.SnowConfig
	stepper *AccumulationStepper
}

// NewSnow creates the pool and pile store from the run's snow config.
func NewSnow(world *ecs.World, cfg config.SnowConfig, spawn config.SpawnConfig, mass float64, rng *rand.Rand) *Snow {
	body := components.Body{Radius: cfg.ParticleSize, Mass: mass}
	pool := NewParticlePool(world, cfg.MaxFallingParticles, body, spawn, rng)
	piles := NewPileStore(cfg.MaxAccumulatedParticles)
	index := NewSpatialHash(cfg.MaxAccumulatedParticles)

	return &Snow{
		Pool:    pool,
		Piles:   piles,
		Index:   index,
		cfg:     cfg,
		stepper: NewAccumulationStepper(pool, piles, index, rng),
	}
}

// Config returns the snow config the run was created with.
func (s *Snow) Config() config.SnowConfig {
	return s.cfg
}

// Step runs one accumulation sweep.
func (s *Snow) Step(w config.WeatherConfig, t float64) TickReport {
	return s.stepper.Step(w, t)
}

// Reset returns the engine to its start state: flakes rescattered, no piles,
// empty index. Callers must not run it while a Step is in progress.
func (s *Snow) Reset() {
	s.Piles.Reset()
	s.Index.Clear()
	s.Pool.Initialize()
}
