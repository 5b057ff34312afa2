// Package systems provides the snowfall simulation systems.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// GridSize is the edge length of a merge cell. Landings that quantize to the
// same cell feed the same pile.
const GridSize = 1.0

// SpatialKey identifies a merge cell.
type SpatialKey struct {
	X, Y, Z int64
}

// KeyOf quantizes a position to its merge cell. Halves round toward +inf so
// -1.5 lands in cell -1.
func KeyOf(p r3.Vec) SpatialKey {
	return SpatialKey{
		X: quantize(p.X),
		Y: quantize(p.Y),
		Z: quantize(p.Z),
	}
}

// quantize saturates at the int64 range so distant positions never wrap
// into cells near the origin.
func quantize(v float64) int64 {
	f := math.Floor(v/GridSize + 0.5)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// SpatialHash maps merge cells to pile handles. Entries are only added during
// a run; Clear is reserved for a full reset.
type SpatialHash struct {
	cells map[SpatialKey]PileHandle
}

// NewSpatialHash creates an empty index sized for the expected pile count.
func NewSpatialHash(capacity int) *SpatialHash {
	if capacity < 0 {
		capacity = 0
	}
	return &SpatialHash{
		cells: make(map[SpatialKey]PileHandle, capacity),
	}
}

// Lookup returns the pile registered for key.
func (h *SpatialHash) Lookup(key SpatialKey) (PileHandle, bool) {
	handle, ok := h.cells[key]
	return handle, ok
}

// Insert registers handle under key.
func (h *SpatialHash) Insert(key SpatialKey, handle PileHandle) {
	h.cells[key] = handle
}

// Len returns the number of occupied cells.
func (h *SpatialHash) Len() int {
	return len(h.cells)
}

// Clear removes all entries.
func (h *SpatialHash) Clear() {
	clear(h.cells)
}
