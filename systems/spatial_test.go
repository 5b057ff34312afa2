package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		pos  r3.Vec
		want SpatialKey
	}{
		{"origin", r3.Vec{}, SpatialKey{0, 0, 0}},
		{"first landing", r3.Vec{X: 0.04, Y: -0.3, Z: -0.02}, SpatialKey{0, 0, 0}},
		{"second landing", r3.Vec{X: 0.3, Y: -0.4, Z: 0.1}, SpatialKey{0, 0, 0}},
		{"just below half", r3.Vec{X: 0.49, Y: -0.49, Z: 0.49}, SpatialKey{0, 0, 0}},
		{"positive half rounds up", r3.Vec{X: 1.5, Y: 0.5, Z: 2.5}, SpatialKey{2, 1, 3}},
		{"negative half rounds up", r3.Vec{X: -1.5, Y: -0.5, Z: -2.5}, SpatialKey{-1, 0, -2}},
		{"negative", r3.Vec{X: -3.7, Y: -0.4, Z: -0.6}, SpatialKey{-4, 0, -1}},
		{"beyond int32", r3.Vec{X: 3e9, Z: -3e9}, SpatialKey{3e9, 0, -3e9}},
		{"saturates", r3.Vec{X: 1e300, Y: -1e300, Z: math.Inf(1)}, SpatialKey{math.MaxInt64, math.MinInt64, math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyOf(tt.pos); got != tt.want {
				t.Errorf("KeyOf(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestKeyOfDistantCellsStayApart(t *testing.T) {
	far := KeyOf(r3.Vec{X: 3e9})
	if far == KeyOf(r3.Vec{X: 3e9 + 5}) {
		t.Errorf("positions 5 cells apart share key %v", far)
	}
	if far == KeyOf(r3.Vec{}) || far.X <= 0 {
		t.Errorf("KeyOf(3e9) = %v, want a positive cell away from the origin", far)
	}
}

func TestSpatialHashLookupInsert(t *testing.T) {
	h := NewSpatialHash(4)

	key := SpatialKey{1, 0, -2}
	if _, ok := h.Lookup(key); ok {
		t.Fatal("empty index should not contain key")
	}

	h.Insert(key, 3)
	got, ok := h.Lookup(key)
	if !ok || got != 3 {
		t.Errorf("Lookup = (%d, %v), want (3, true)", got, ok)
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}

	// A different key in a neighbouring cell is independent.
	if _, ok := h.Lookup(SpatialKey{1, 0, -1}); ok {
		t.Error("neighbouring cell should be empty")
	}

	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
	if _, ok := h.Lookup(key); ok {
		t.Error("key should be gone after Clear")
	}
}
