// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Weather   WeatherConfig   `yaml:"weather"`
	Snow      SnowConfig      `yaml:"snow"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WeatherConfig holds the live weather parameters. The simulation only reads
// a snapshot of it per tick; the control panel and the stream server replace
// it between ticks.
type WeatherConfig struct {
	WindSpeed     float64 `yaml:"wind_speed" json:"windSpeed"`
	WindDirection float64 `yaml:"wind_direction" json:"windDirection"` // degrees
	Gravity       float64 `yaml:"gravity" json:"gravity"`
	Turbulence    float64 `yaml:"turbulence" json:"turbulence"`
	Temperature   float64 `yaml:"temperature" json:"temperature"` // accepted, unused
	SnowRate      float64 `yaml:"snow_rate" json:"snowRate"`      // accepted, unused
}

// SnowConfig holds the fixed capacities of a simulation run.
type SnowConfig struct {
	MaxFallingParticles     int     `yaml:"max_falling_particles"`
	MaxAccumulatedParticles int     `yaml:"max_accumulated_particles"`
	ParticleSize            float64 `yaml:"particle_size"`
	// DragCoefficient is carried for forward compatibility. No force uses it.
	DragCoefficient float64 `yaml:"drag_coefficient"`
}

// SpawnConfig describes the volume particles are scattered in on reset.
// x and z are drawn from [-HalfWidth, HalfWidth), y from [MinHeight, MinHeight+HeightRange).
type SpawnConfig struct {
	HalfWidth   float64 `yaml:"half_width"`
	MinHeight   float64 `yaml:"min_height"`
	HeightRange float64 `yaml:"height_range"`
}

// PhysicsConfig holds integrator parameters.
type PhysicsConfig struct {
	DT            float64 `yaml:"dt"`
	ParticleMass  float64 `yaml:"particle_mass"`
	LinearDamping float64 `yaml:"linear_damping"` // fraction of velocity lost per second
	Friction      float64 `yaml:"friction"`       // tangential velocity kept on contact is (1 - friction)
}

// SceneConfig holds the static props flakes collide with.
type SceneConfig struct {
	GroundHeight float64       `yaml:"ground_height"`
	GroundSize   float64       `yaml:"ground_size"`
	Houses       []HouseConfig `yaml:"houses"`
	Trees        []TreeConfig  `yaml:"trees"`
}

// HouseConfig places a house. Rotation is around the vertical axis in radians.
type HouseConfig struct {
	Position [3]float64 `yaml:"position"`
	Rotation float64    `yaml:"rotation"`
}

// TreeConfig places a tree.
type TreeConfig struct {
	Position [3]float64 `yaml:"position"`
	Scale    float64    `yaml:"scale"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StreamConfig holds the frame stream / control surface settings.
type StreamConfig struct {
	Addr          string  `yaml:"addr"`           // empty = disabled
	FrameInterval float64 `yaml:"frame_interval"` // seconds between pushed frames
	CommandBuffer int     `yaml:"command_buffer"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32       // Physics.DT as float32
	ScreenW32     float32       // Screen.Width as float32
	ScreenH32     float32       // Screen.Height as float32
	FrameInterval time.Duration // Stream.FrameInterval as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks the values the simulation core relies on.
func (c *Config) Validate() error {
	switch {
	case c.Snow.MaxFallingParticles < 0:
		return fmt.Errorf("%w: snow.max_falling_particles is negative", ErrInvalid)
	case c.Snow.MaxAccumulatedParticles < 0:
		return fmt.Errorf("%w: snow.max_accumulated_particles is negative", ErrInvalid)
	case c.Snow.ParticleSize <= 0:
		return fmt.Errorf("%w: snow.particle_size must be positive", ErrInvalid)
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt must be positive", ErrInvalid)
	case c.Physics.ParticleMass <= 0:
		return fmt.Errorf("%w: physics.particle_mass must be positive", ErrInvalid)
	case c.Physics.LinearDamping < 0 || c.Physics.LinearDamping >= 1:
		return fmt.Errorf("%w: physics.linear_damping must be in [0, 1)", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	interval := c.Stream.FrameInterval
	if interval <= 0 {
		interval = 0.1
	}
	c.Derived.FrameInterval = time.Duration(interval * float64(time.Second))

	if c.Stream.CommandBuffer < 1 {
		c.Stream.CommandBuffer = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
