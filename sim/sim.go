// Package sim runs the snowfall simulation loop without any graphics: the
// accumulation core, the physics stand-in, telemetry and the frame stream.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/frostframe/config"
	"github.com/pthm-cable/frostframe/stream"
	"github.com/pthm-cable/frostframe/systems"
	"github.com/pthm-cable/frostframe/telemetry"
)

// Options configures a simulation run.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	ServeAddr      string  // empty = use config; config empty = no server
}

// Simulation owns every piece of mutable state of one run. It is driven from
// a single goroutine; the stream server only talks to it through the command
// queue and published frames.
type Simulation struct {
	cfg   *config.Config
	rng   *rand.Rand
	world *ecs.World

	snow    *systems.Snow
	scene   *systems.Scene
	physics *systems.PhysicsSystem

	weather config.WeatherConfig
	tick    int32
	time    float64
	last    systems.TickReport
	resets  int

	runID     string
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	statsCallback func(telemetry.WindowStats)

	queue  *stream.Queue
	server *stream.Server
}

// New builds a run from cfg. The stream server, if configured, is started
// before New returns.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Simulation{
		cfg:      cfg,
		rng:      rng,
		world:    world,
		weather:  cfg.Weather,
		runID:    telemetry.NewRunID(),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats: opts.LogStats,
		queue:    stream.NewQueue(cfg.Stream.CommandBuffer),
	}

	s.snow = systems.NewSnow(world, cfg.Snow, cfg.Spawn, cfg.Physics.ParticleMass, rng)
	s.scene = systems.NewScene(cfg.Scene)
	s.physics = systems.NewPhysicsSystem(world, s.scene, cfg.Physics)

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	s.collector = telemetry.NewCollector(s.runID, window, cfg.Physics.DT)

	output, err := telemetry.NewOutputManager(opts.OutputDir, s.runID)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	addr := cfg.Stream.Addr
	if opts.ServeAddr != "" {
		addr = opts.ServeAddr
	}
	if addr != "" {
		s.server = stream.NewServer(cfg.Derived.FrameInterval, s.queue)
		if err := s.server.Start(addr); err != nil {
			output.Close()
			return nil, err
		}
	}

	slog.Info("simulation created",
		"run_id", s.runID,
		"seed", opts.Seed,
		"particles", cfg.Snow.MaxFallingParticles,
		"pile_capacity", cfg.Snow.MaxAccumulatedParticles,
		"colliders", len(s.scene.Colliders),
		"output_dir", output.Dir(),
		"stream_addr", s.StreamAddr(),
	)

	return s, nil
}

// Step runs one tick: pending commands, the accumulation sweep, the physics
// step, telemetry, and frame publishing.
func (s *Simulation) Step() systems.TickReport {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseCommands)
	s.queue.Drain(s.apply)

	s.perf.StartPhase(telemetry.PhaseAccumulation)
	report := s.snow.Step(s.weather, s.time)

	s.perf.StartPhase(telemetry.PhasePhysics)
	dt := s.cfg.Physics.DT
	s.physics.Step(s.weather.Gravity, dt, s.snow.Pool.MarkCollided)
	s.time += dt
	s.tick++
	s.last = report

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.Record(report)
	s.flushTelemetry()

	s.perf.StartPhase(telemetry.PhaseStream)
	s.publish()

	s.perf.EndTick()
	return report
}

// apply runs one queued command. Weather lands before a reset in the same
// command so a client can change conditions and restart atomically.
func (s *Simulation) apply(cmd stream.Command) {
	if cmd.Weather != nil {
		s.SetWeather(cmd.Weather.Apply(s.weather))
	}
	if cmd.Reset {
		s.Reset()
	}
}

// Reset returns the core to its start state: flakes rescattered, no piles.
// Weather, tick and run time carry on.
func (s *Simulation) Reset() {
	s.snow.Reset()
	s.collector.Restart(s.tick)
	s.resets++
	slog.Info("simulation reset", "tick", s.tick, "resets", s.resets)
}

// SetWeather replaces the weather used from the next tick on.
func (s *Simulation) SetWeather(w config.WeatherConfig) {
	s.weather = w
}

// Weather returns the weather in effect.
func (s *Simulation) Weather() config.WeatherConfig {
	return s.weather
}

// DefaultWeather returns the weather the run started with.
func (s *Simulation) DefaultWeather() config.WeatherConfig {
	return s.cfg.Weather
}

// Frame builds a view of the current state.
func (s *Simulation) Frame() *stream.Frame {
	return stream.NewFrame(s.runID, s.tick, s.time, s.snow, s.weather)
}

func (s *Simulation) publish() {
	if s.server == nil || !s.server.Due(time.Now()) {
		return
	}
	if err := s.server.Publish(s.Frame()); err != nil {
		slog.Error("failed to publish frame", "error", err)
	}
}

// Enqueue queues a command as a remote client would.
func (s *Simulation) Enqueue(cmd stream.Command) error {
	return s.queue.Push(cmd)
}

// Snow returns the accumulation core.
func (s *Simulation) Snow() *systems.Snow { return s.snow }

// Config returns the run's configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Tick returns the number of ticks run.
func (s *Simulation) Tick() int32 { return s.tick }

// Time returns the simulated seconds elapsed.
func (s *Simulation) Time() float64 { return s.time }

// LastReport returns the report of the most recent tick.
func (s *Simulation) LastReport() systems.TickReport { return s.last }

// RunID returns the run's identifier.
func (s *Simulation) RunID() string { return s.runID }

// Perf returns the tick timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// StreamAddr returns the stream server's address, or "" when not serving.
func (s *Simulation) StreamAddr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr()
}

// StreamClients returns the number of connected stream viewers.
func (s *Simulation) StreamClients() int {
	if s.server == nil {
		return 0
	}
	return s.server.Clients()
}

// SetStatsCallback sets a function called with each flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Close stops the stream server and closes output files.
func (s *Simulation) Close() error {
	var errs []error
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping stream server: %w", err))
		}
	}
	if err := s.output.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing output: %w", err))
	}
	return errors.Join(errs...)
}
