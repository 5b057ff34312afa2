package stream

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/frostframe/config"
)

// ErrQueueFull is returned when the command queue cannot take another command.
var ErrQueueFull = errors.New("command queue full")

// Command is a request from a remote client. The game loop applies commands
// between ticks, weather first and reset last.
type Command struct {
	Reset   bool          `json:"reset,omitempty"`
	Weather *WeatherPatch `json:"weather,omitempty"`
}

// WeatherPatch updates the fields that are set and leaves the rest alone.
type WeatherPatch struct {
	WindSpeed     *float64 `json:"windSpeed,omitempty"`
	WindDirection *float64 `json:"windDirection,omitempty"`
	Gravity       *float64 `json:"gravity,omitempty"`
	Turbulence    *float64 `json:"turbulence,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	SnowRate      *float64 `json:"snowRate,omitempty"`
}

// Validate rejects values that are not finite numbers.
func (p WeatherPatch) Validate() error {
	fields := []struct {
		name string
		v    *float64
	}{
		{"windSpeed", p.WindSpeed},
		{"windDirection", p.WindDirection},
		{"gravity", p.Gravity},
		{"turbulence", p.Turbulence},
		{"temperature", p.Temperature},
		{"snowRate", p.SnowRate},
	}
	for _, f := range fields {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return fmt.Errorf("weather.%s is not a finite number", f.name)
		}
	}
	return nil
}

// Apply returns w with the patch's fields replaced.
func (p WeatherPatch) Apply(w config.WeatherConfig) config.WeatherConfig {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&w.WindSpeed, p.WindSpeed)
	set(&w.WindDirection, p.WindDirection)
	set(&w.Gravity, p.Gravity)
	set(&w.Turbulence, p.Turbulence)
	set(&w.Temperature, p.Temperature)
	set(&w.SnowRate, p.SnowRate)
	return w
}

// Empty reports whether the command asks for nothing.
func (c Command) Empty() bool {
	return !c.Reset && c.Weather == nil
}

// Queue is a bounded command channel shared by the server and the game loop.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue holding at most size pending commands.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Command, size)}
}

// Push enqueues cmd without blocking.
func (q *Queue) Push(cmd Command) error {
	select {
	case q.ch <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain calls apply for every pending command, in arrival order, without
// waiting for more.
func (q *Queue) Drain(apply func(Command)) int {
	n := 0
	for {
		select {
		case cmd := <-q.ch:
			apply(cmd)
			n++
		default:
			return n
		}
	}
}
