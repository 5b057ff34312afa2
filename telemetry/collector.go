package telemetry

import (
	"github.com/pthm-cable/frostframe/config"
	"github.com/pthm-cable/frostframe/systems"
)

// Collector accumulates tick reports within time windows and produces WindowStats.
type Collector struct {
	runID               string
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32
	window          systems.TickReport
}

// PileSample is the pile state sampled at the end of a window.
type PileSample struct {
	Count    int
	Capacity int
	Volumes  []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(runID string, windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		runID:               runID,
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one tick's report to the current window.
func (c *Collector) Record(r systems.TickReport) {
	c.window.Add(r)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// airborne is the number of flakes still falling at currentTick.
func (c *Collector) Flush(currentTick int32, airborne int, piles PileSample, w config.WeatherConfig) WindowStats {
	r := c.window

	var landingRate, mergeRatio float64
	if elapsed := float64(currentTick-c.windowStartTick) * c.dt; elapsed > 0 {
		landingRate = float64(r.Landed) / elapsed
	}
	if r.Landed > 0 {
		mergeRatio = float64(r.Merged) / float64(r.Landed)
	}

	vs := ComputeVolumeStats(piles.Volumes)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Landings:    r.Landed,
		Merges:      r.Merged,
		Creations:   r.Created,
		Discarded:   r.Discarded,
		Dropped:     r.Dropped,
		FellThrough: r.FellThrough,
		Recycled:    r.Recycled(),
		LandingRate: landingRate,
		MergeRatio:  mergeRatio,

		Airborne:     airborne,
		PileCount:    piles.Count,
		PileCapacity: piles.Capacity,

		VolumeTotal: vs.Total,
		VolumeMean:  vs.Mean,
		VolumeStd:   vs.Std,
		VolumeP50:   vs.P50,
		VolumeP90:   vs.P90,
		VolumeMax:   vs.Max,

		WindSpeed:     w.WindSpeed,
		WindDirection: w.WindDirection,
		Turbulence:    w.Turbulence,
	}

	c.windowStartTick = currentTick
	c.window = systems.TickReport{}

	return stats
}

// Restart drops the partial window and starts a new one at tick.
// Used when the simulation is reset.
func (c *Collector) Restart(tick int32) {
	c.windowStartTick = tick
	c.window = systems.TickReport{}
}

// RunID returns the run identifier stamped on every window.
func (c *Collector) RunID() string {
	return c.runID
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
