package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pile growth tuning. These shape how fast drifts build up on screen and are
// kept exactly as tuned.
const (
	PileInitialVolume = 10.0
	PileLandingVolume = 8.0 // volume added per flake landing on an existing pile
	PileGrowthExp     = 0.4
	PileWidthFactor   = 1.5
	PileHeightFactor  = 0.3
)

// PileInitialScale is the seed-mound scale given to a new pile. It is not
// derived from PileInitialVolume.
var PileInitialScale = r3.Vec{X: 2, Y: 0.5, Z: 2}

// PileHandle is a dense index into a PileStore.
type PileHandle int32

// Pile is one accumulation mound. Position and RotationY never change after
// creation; Volume only grows.
type Pile struct {
	Position  r3.Vec
	RotationY float64
	Volume    float64
	Scale     r3.Vec
}

// PileScale returns the scale of a pile that has grown to volume.
func PileScale(volume float64) r3.Vec {
	g := math.Pow(volume, PileGrowthExp)
	return r3.Vec{X: PileWidthFactor * g, Y: PileHeightFactor * g, Z: PileWidthFactor * g}
}

// PileStore is a fixed-capacity arena of piles. Slots are handed out in order
// and never reused within a run.
type PileStore struct {
	piles []Pile
}

// NewPileStore allocates a store holding at most capacity piles.
func NewPileStore(capacity int) *PileStore {
	if capacity < 0 {
		capacity = 0
	}
	return &PileStore{piles: make([]Pile, 0, capacity)}
}

// Create appends a new pile. At capacity it does nothing and returns false.
func (s *PileStore) Create(pos r3.Vec, rotationY float64) (PileHandle, bool) {
	if len(s.piles) >= cap(s.piles) {
		return -1, false
	}
	s.piles = append(s.piles, Pile{
		Position:  pos,
		RotationY: rotationY,
		Volume:    PileInitialVolume,
		Scale:     PileInitialScale,
	})
	return PileHandle(len(s.piles) - 1), true
}

// Grow adds delta to a pile's volume and recomputes its scale. Negative
// deltas are ignored so volume never shrinks.
func (s *PileStore) Grow(h PileHandle, delta float64) {
	if h < 0 || int(h) >= len(s.piles) || delta < 0 {
		return
	}
	p := &s.piles[h]
	p.Volume += delta
	p.Scale = PileScale(p.Volume)
}

// Get returns a copy of the pile at h.
func (s *PileStore) Get(h PileHandle) (Pile, bool) {
	if h < 0 || int(h) >= len(s.piles) {
		return Pile{}, false
	}
	return s.piles[h], true
}

// Count returns the number of live piles.
func (s *PileStore) Count() int {
	return len(s.piles)
}

// Capacity returns the maximum number of piles.
func (s *PileStore) Capacity() int {
	return cap(s.piles)
}

// Full reports whether no further piles can be created.
func (s *PileStore) Full() bool {
	return len(s.piles) >= cap(s.piles)
}

// Piles exposes the live piles in handle order for renderers. The slice is
// only valid until the next tick.
func (s *PileStore) Piles() []Pile {
	return s.piles
}

// Reset drops every pile while keeping the allocation.
func (s *PileStore) Reset() {
	s.piles = s.piles[:0]
}
