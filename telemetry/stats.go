package telemetry

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NewRunID returns a fresh identifier for one simulation run.
func NewRunID() string {
	return uuid.NewString()
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Flake outcomes summed over the window
	Landings    int `csv:"landings"`
	Merges      int `csv:"merges"`
	Creations   int `csv:"creations"`
	Discarded   int `csv:"discarded"`
	Dropped     int `csv:"dropped"`
	FellThrough int `csv:"fell_through"`
	Recycled    int `csv:"recycled"`

	LandingRate float64 `csv:"landing_rate"` // landings per sim second
	MergeRatio  float64 `csv:"merge_ratio"`  // merges / landings

	// Sampled at window end
	Airborne     int `csv:"airborne"`
	PileCount    int `csv:"piles"`
	PileCapacity int `csv:"pile_capacity"`

	VolumeTotal float64 `csv:"volume_total"`
	VolumeMean  float64 `csv:"volume_mean"`
	VolumeStd   float64 `csv:"volume_std"`
	VolumeP50   float64 `csv:"volume_p50"`
	VolumeP90   float64 `csv:"volume_p90"`
	VolumeMax   float64 `csv:"volume_max"`

	// Weather in effect at window end
	WindSpeed     float64 `csv:"wind_speed"`
	WindDirection float64 `csv:"wind_direction"`
	Turbulence    float64 `csv:"turbulence"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// VolumeStats summarises a set of pile volumes.
type VolumeStats struct {
	Total, Mean, Std, P50, P90, Max float64
}

// ComputeVolumeStats calculates totals, spread and percentiles of volumes.
// Std is the sample standard deviation and is 0 for fewer than two piles.
func ComputeVolumeStats(volumes []float64) VolumeStats {
	n := len(volumes)
	if n == 0 {
		return VolumeStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, volumes)
	sort.Float64s(sorted)

	vs := VolumeStats{
		Total: floats.Sum(sorted),
		Max:   floats.Max(sorted),
		P50:   Percentile(sorted, 0.50),
		P90:   Percentile(sorted, 0.90),
	}
	if n < 2 {
		vs.Mean = sorted[0]
		return vs
	}
	vs.Mean, vs.Std = stat.MeanStdDev(sorted, nil)
	return vs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("landings", s.Landings),
		slog.Int("merges", s.Merges),
		slog.Int("creations", s.Creations),
		slog.Int("discarded", s.Discarded),
		slog.Int("dropped", s.Dropped),
		slog.Int("fell_through", s.FellThrough),
		slog.Float64("landing_rate", s.LandingRate),
		slog.Float64("merge_ratio", s.MergeRatio),
		slog.Int("airborne", s.Airborne),
		slog.Int("piles", s.PileCount),
		slog.Float64("volume_total", s.VolumeTotal),
		slog.Float64("volume_mean", s.VolumeMean),
		slog.Float64("volume_max", s.VolumeMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"run_id", s.RunID,
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"landings", s.Landings,
		"merges", s.Merges,
		"creations", s.Creations,
		"discarded", s.Discarded,
		"dropped", s.Dropped,
		"fell_through", s.FellThrough,
		"landing_rate", s.LandingRate,
		"merge_ratio", s.MergeRatio,
		"airborne", s.Airborne,
		"piles", s.PileCount,
		"pile_capacity", s.PileCapacity,
		"volume_total", s.VolumeTotal,
		"volume_mean", s.VolumeMean,
		"volume_std", s.VolumeStd,
		"volume_p50", s.VolumeP50,
		"volume_p90", s.VolumeP90,
		"volume_max", s.VolumeMax,
		"wind_speed", s.WindSpeed,
		"wind_direction", s.WindDirection,
		"turbulence", s.Turbulence,
	)
}
