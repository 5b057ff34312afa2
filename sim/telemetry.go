package sim

import (
	"log/slog"

	"github.com/pthm-cable/frostframe/systems"
	"github.com/pthm-cable/frostframe/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.airborne(), s.samplePiles(), s.weather)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (s *Simulation) airborne() int {
	n := 0
	for i := 0; i < s.snow.Pool.Count(); i++ {
		if s.snow.Pool.Classify(i) == systems.Airborne {
			n++
		}
	}
	return n
}

func (s *Simulation) samplePiles() telemetry.PileSample {
	piles := s.snow.Piles.Piles()
	volumes := make([]float64, len(piles))
	for i, p := range piles {
		volumes[i] = p.Volume
	}
	return telemetry.PileSample{
		Count:    s.snow.Piles.Count(),
		Capacity: s.snow.Piles.Capacity(),
		Volumes:  volumes,
	}
}

// TotalVolume returns the summed volume of all piles.
func (s *Simulation) TotalVolume() float64 {
	var total float64
	for _, p := range s.snow.Piles.Piles() {
		total += p.Volume
	}
	return total
}
