package inspector

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/stream"
)

const flakeRadius = 0.1

func pile(x, y, z, volume float32) stream.PileFrame {
	g := float32(math.Pow(float64(volume), 0.4))
	return stream.PileFrame{
		Position: [3]float32{x, y, z},
		Scale:    [3]float32{1.5 * g, 0.3 * g, 1.5 * g},
		Volume:   volume,
	}
}

func TestPickPile(t *testing.T) {
	piles := []stream.PileFrame{
		pile(0, -0.5, 0, 10),
		pile(0, -0.5, -5, 10),
		pile(6, -0.5, 0, 10),
	}

	tests := []struct {
		name   string
		origin r3.Vec
		dir    r3.Vec
		want   int
		hit    bool
	}{
		{"straight down on first", r3.Vec{Y: 10}, r3.Vec{Y: -1}, 0, true},
		{"down on third", r3.Vec{X: 6, Y: 10}, r3.Vec{Y: -1}, 2, true},
		{"nearest of two in line", r3.Vec{Y: -0.5, Z: 10}, r3.Vec{Z: -1}, 0, true},
		{"from behind picks second", r3.Vec{Y: -0.5, Z: -20}, r3.Vec{Z: 1}, 1, true},
		{"between piles", r3.Vec{X: 3, Y: 10}, r3.Vec{Y: -1}, -1, false},
		{"pointing away", r3.Vec{Y: 10}, r3.Vec{Y: 1}, -1, false},
		{"unnormalized dir", r3.Vec{X: 6, Y: 10}, r3.Vec{Y: -25}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickPile(tt.origin, tt.dir, piles, flakeRadius)
			if ok != tt.hit || got != tt.want {
				t.Errorf("PickPile() = %d, %v, want %d, %v", got, ok, tt.want, tt.hit)
			}
		})
	}
}

func TestPickPileFlatExtent(t *testing.T) {
	// Volume 10 gives half-width 0.1*1.5*10^0.4 ~ 0.377 and half-height ~ 0.075.
	piles := []stream.PileFrame{pile(0, 0, 0, 10)}

	tests := []struct {
		name   string
		origin r3.Vec
		dir    r3.Vec
		hit    bool
	}{
		{"inside footprint", r3.Vec{X: 0.35, Y: 5}, r3.Vec{Y: -1}, true},
		{"outside footprint", r3.Vec{X: 0.4, Y: 5}, r3.Vec{Y: -1}, false},
		{"level with the mound", r3.Vec{X: -5, Y: 0.05}, r3.Vec{X: 1}, true},
		{"above the mound", r3.Vec{X: -5, Y: 0.1}, r3.Vec{X: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := PickPile(tt.origin, tt.dir, piles, flakeRadius); ok != tt.hit {
				t.Errorf("hit = %v, want %v", ok, tt.hit)
			}
		})
	}
}

func TestPickPileScalesWithRadius(t *testing.T) {
	piles := []stream.PileFrame{pile(0, 0, 0, 10)}
	origin, dir := r3.Vec{X: 1.8, Y: 5}, r3.Vec{Y: -1}

	if _, ok := PickPile(origin, dir, piles, 0.5); !ok {
		t.Error("radius 0.5 mound missed at x=1.8")
	}
	if _, ok := PickPile(origin, dir, piles, flakeRadius); ok {
		t.Error("flake-sized mound hit at x=1.8")
	}
}

func TestPickPileEmpty(t *testing.T) {
	if _, ok := PickPile(r3.Vec{}, r3.Vec{Y: -1}, nil, flakeRadius); ok {
		t.Error("hit with no piles")
	}
}

func TestDescribe(t *testing.T) {
	f := &stream.Frame{Piles: []stream.PileFrame{
		pile(1.2, -0.4, 2.6, 26),
		pile(-3, -0.4, 0, 14),
	}}

	fields := Describe(0, f)
	got := map[string]string{}
	for _, field := range fields {
		got[field.Label] = field.Value
	}

	want := map[string]string{
		"Cell":     "1, 0, 3",
		"Volume":   "26",
		"Landings": "3",
		"Share":    "65.0%",
	}
	for label, value := range want {
		if got[label] != value {
			t.Errorf("%s = %q, want %q", label, got[label], value)
		}
	}
}
