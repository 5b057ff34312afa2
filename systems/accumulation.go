package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/config"
)

// TickReport counts what happened to the flakes during one sweep.
type TickReport struct {
	Airborne    int // still falling
	Landed      int // valid landings, whatever their outcome
	Merged      int // landings that grew an existing pile
	Created     int // landings that seeded a new pile
	Discarded   int // landings lost because the pile store was full
	Dropped     int // collided below LandingFloor, recycled without a pile
	FellThrough int // fell below RescueFloor without a contact
}

// Recycled returns how many flakes went back to the top this tick.
func (r TickReport) Recycled() int {
	return r.Landed + r.Dropped + r.FellThrough
}

// Add accumulates other into r.
func (r *TickReport) Add(other TickReport) {
	r.Airborne += other.Airborne
	r.Landed += other.Landed
	r.Merged += other.Merged
	r.Created += other.Created
	r.Discarded += other.Discarded
	r.Dropped += other.Dropped
	r.FellThrough += other.FellThrough
}

// LogValue implements slog.LogValuer for structured logging.
func (r TickReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("landed", r.Landed),
		slog.Int("merged", r.Merged),
		slog.Int("created", r.Created),
		slog.Int("discarded", r.Discarded),
		slog.Int("dropped", r.Dropped),
		slog.Int("fell_through", r.FellThrough),
	)
}

// AccumulationStepper runs the per-tick sweep over the particle pool: it
// queues forces, turns landings into pile growth, and recycles spent flakes.
// It is the only writer of the pool, the pile store and the index while a
// sweep is running.
type AccumulationStepper struct {
	pool  *ParticlePool
	piles *PileStore
	index *SpatialHash
	rng   *rand.Rand
}

// NewAccumulationStepper wires a stepper over the given structures.
func NewAccumulationStepper(pool *ParticlePool, piles *PileStore, index *SpatialHash, rng *rand.Rand) *AccumulationStepper {
	return &AccumulationStepper{
		pool:  pool,
		piles: piles,
		index: index,
		rng:   rng,
	}
}

// Step sweeps every flake once using the weather snapshot w at run time t.
func (s *AccumulationStepper) Step(w config.WeatherConfig, t float64) TickReport {
	var report TickReport
	wind := WindVector(w)

	for i := 0; i < s.pool.Count(); i++ {
		pos := s.pool.Position(i)
		s.pool.SetForce(i, FlakeForce(wind, w.Turbulence, t, pos))

		switch s.pool.Classify(i) {
		case Airborne:
			report.Airborne++
			continue
		case Landed:
			report.Landed++
			s.deposit(pos, &report)
		case FellThrough:
			if s.pool.Collided(i) {
				report.Dropped++
			} else {
				report.FellThrough++
			}
		}

		s.pool.Recycle(i, wind)
	}

	return report
}

// deposit merges a landing at pos into its cell's pile, or seeds a new one.
func (s *AccumulationStepper) deposit(pos r3.Vec, report *TickReport) {
	key := KeyOf(pos)
	if h, ok := s.index.Lookup(key); ok {
		s.piles.Grow(h, PileLandingVolume)
		report.Merged++
		return
	}

	h, ok := s.piles.Create(pos, s.rng.Float64()*math.Pi)
	if !ok {
		report.Discarded++
		return
	}
	s.index.Insert(key, h)
	report.Created++
}
