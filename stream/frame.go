// Package stream publishes simulation frames to remote viewers and accepts
// control commands over HTTP and websockets.
package stream

import (
	"github.com/pthm-cable/frostframe/config"
	"github.com/pthm-cable/frostframe/systems"
)

// PileFrame is the render transform of one pile.
type PileFrame struct {
	Position  [3]float32 `json:"position"`
	RotationY float32    `json:"rotationY"`
	Scale     [3]float32 `json:"scale"`
	Volume    float32    `json:"volume"`
}

// Frame is an immutable view of the simulation after one tick. Once built it
// is shared between connections and never written again.
type Frame struct {
	RunID     string               `json:"runId"`
	Tick      int32                `json:"tick"`
	Time      float64              `json:"time"`
	Particles [][3]float32         `json:"particles"`
	Piles     []PileFrame          `json:"piles"`
	PileCount int                  `json:"pileCount"`
	Weather   config.WeatherConfig `json:"weather"`
}

// NewFrame copies the current flake positions and pile transforms out of snow.
func NewFrame(runID string, tick int32, t float64, snow *systems.Snow, w config.WeatherConfig) *Frame {
	f := &Frame{
		RunID:     runID,
		Tick:      tick,
		Time:      t,
		Particles: make([][3]float32, snow.Pool.Count()),
		Piles:     make([]PileFrame, 0, snow.Piles.Count()),
		PileCount: snow.Piles.Count(),
		Weather:   w,
	}

	for i := range f.Particles {
		p := snow.Pool.Position(i)
		f.Particles[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	for _, p := range snow.Piles.Piles() {
		f.Piles = append(f.Piles, PileFrame{
			Position:  [3]float32{float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z)},
			RotationY: float32(p.RotationY),
			Scale:     [3]float32{float32(p.Scale.X), float32(p.Scale.Y), float32(p.Scale.Z)},
			Volume:    float32(p.Volume),
		})
	}
	return f
}
