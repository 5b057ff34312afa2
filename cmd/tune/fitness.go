package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/frostframe/config"
	"github.com/pthm-cable/frostframe/sim"
	"github.com/pthm-cable/frostframe/telemetry"
)

// Target is the snowfall profile the tuner steers toward.
type Target struct {
	LandingRate float64 // landings per sim second
	MergeRatio  float64 // share of landings that grow an existing pile
}

// Fitness weights.
const (
	weightRate  = 1.0
	weightMerge = 1.0
	weightLoss  = 0.5

	mergeTolerance = 0.1 // merge ratio error that costs as much as a 100% rate error
	warmupWindows  = 1   // first window covers the initial fall from the spawn volume
	noDataFitness  = 1e6
)

// FitnessEvaluator runs headless simulations and scores them (lower = better).
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	target      Target
	statsWindow float64

	mu       sync.Mutex
	lastMean WindowMean
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		statsWindow: 5.0,
	}
}

// LastMean returns the averaged windows of the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() WindowMean {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate runs every seed in parallel with raw parameter values x and
// returns the mean fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([][]telemetry.WindowStats, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var all []telemetry.WindowStats
	for _, windows := range results {
		if len(windows) > warmupWindows {
			all = append(all, windows[warmupWindows:]...)
		}
	}

	mean := MeanOf(all)
	fe.mu.Lock()
	fe.lastMean = mean
	fe.mu.Unlock()

	return Score(mean, fe.target)
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Stream.Addr = ""

	s, err := sim.New(cfg, sim.Options{Seed: seed, StatsWindowSec: fe.statsWindow})
	if err != nil {
		return nil
	}
	defer s.Close()

	var windows []telemetry.WindowStats
	s.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})

	for s.Tick() < fe.maxTicks {
		s.Step()
	}
	return windows
}

// copyConfig returns a copy of the base config. Scene slices are shared; no
// tuned parameter touches them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// WindowMean is the average of a run's stats windows.
type WindowMean struct {
	Windows     int
	LandingRate float64
	MergeRatio  float64
	LossRatio   float64 // flakes recycled without feeding a pile / all recycled
}

// MeanOf averages windows.
func MeanOf(windows []telemetry.WindowStats) WindowMean {
	m := WindowMean{Windows: len(windows)}
	if len(windows) == 0 {
		return m
	}

	var recycled, lost int
	for _, w := range windows {
		m.LandingRate += w.LandingRate
		m.MergeRatio += w.MergeRatio
		recycled += w.Recycled
		lost += w.FellThrough + w.Dropped
	}
	n := float64(len(windows))
	m.LandingRate /= n
	m.MergeRatio /= n
	if recycled > 0 {
		m.LossRatio = float64(lost) / float64(recycled)
	}
	return m
}

// Score returns the weighted squared error of m against target.
func Score(m WindowMean, target Target) float64 {
	if m.Windows == 0 {
		return noDataFitness
	}

	rateErr := m.LandingRate - target.LandingRate
	if target.LandingRate > 0 {
		rateErr /= target.LandingRate
	}
	mergeErr := (m.MergeRatio - target.MergeRatio) / mergeTolerance

	return weightRate*rateErr*rateErr +
		weightMerge*mergeErr*mergeErr +
		weightLoss*m.LossRatio
}

// isBetter reports whether fitness a beats b, treating NaN as worst.
func isBetter(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	return math.IsNaN(b) || a < b
}
