package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/config"
)

// calmWeather has no wind and no turbulence.
func calmWeather() config.WeatherConfig {
	return config.WeatherConfig{Gravity: -9.82, Temperature: -5, SnowRate: 50}
}

func newTestSnow(t *testing.T, falling, accumulated int) (*Snow, *ecs.World) {
	t.Helper()
	cfg := config.Default()
	cfg.Snow.MaxFallingParticles = falling
	cfg.Snow.MaxAccumulatedParticles = accumulated
	world := ecs.NewWorld()
	snow := NewSnow(world, cfg.Snow, cfg.Spawn, cfg.Physics.ParticleMass, rand.New(rand.NewSource(7)))
	return snow, world
}

// land places flake i at pos with a reported contact.
func land(s *Snow, i int, pos r3.Vec) {
	s.Pool.SetState(i, pos, r3.Vec{})
	s.Pool.MarkCollided(i)
}

func TestStepCreatesThenMergesPile(t *testing.T) {
	snow, _ := newTestSnow(t, 2, 10)

	land(snow, 0, r3.Vec{X: 0.04, Y: -0.3, Z: -0.02})
	r := snow.Step(calmWeather(), 0)

	if r.Created != 1 || r.Landed != 1 || r.Merged != 0 {
		t.Fatalf("first tick report = %+v, want one created landing", r)
	}
	if snow.Piles.Count() != 1 {
		t.Fatalf("pile count = %d, want 1", snow.Piles.Count())
	}
	h, ok := snow.Index.Lookup(SpatialKey{0, 0, 0})
	if !ok {
		t.Fatal("pile not registered under key (0,0,0)")
	}
	p, _ := snow.Piles.Get(h)
	if p.Volume != 10 || p.Scale != (r3.Vec{X: 2, Y: 0.5, Z: 2}) {
		t.Errorf("new pile = volume %v scale %v, want 10 and (2, 0.5, 2)", p.Volume, p.Scale)
	}
	if p.RotationY < 0 || p.RotationY >= math.Pi {
		t.Errorf("rotation %v outside [0, pi)", p.RotationY)
	}

	land(snow, 1, r3.Vec{X: 0.3, Y: -0.4, Z: 0.1})
	r = snow.Step(calmWeather(), 1.0/60)

	if r.Merged != 1 || r.Created != 0 {
		t.Fatalf("second tick report = %+v, want one merge", r)
	}
	if snow.Piles.Count() != 1 {
		t.Fatalf("pile count = %d, want 1 after merge", snow.Piles.Count())
	}
	p, _ = snow.Piles.Get(h)
	if p.Volume != 18 {
		t.Errorf("volume = %v, want 18", p.Volume)
	}
	if !vecNear(p.Scale, PileScale(18), 1e-12) {
		t.Errorf("scale = %v, want %v", p.Scale, PileScale(18))
	}
	if p.Position != (r3.Vec{X: 0.04, Y: -0.3, Z: -0.02}) {
		t.Errorf("pile moved to %v", p.Position)
	}
}

func TestStepCapacityDropsLanding(t *testing.T) {
	snow, _ := newTestSnow(t, 2, 1)

	land(snow, 0, r3.Vec{X: 0, Y: -0.4, Z: 0})
	land(snow, 1, r3.Vec{X: 4, Y: -0.4, Z: 4})
	r := snow.Step(calmWeather(), 0)

	if snow.Piles.Count() != 1 {
		t.Errorf("pile count = %d, want 1", snow.Piles.Count())
	}
	if r.Created != 1 || r.Discarded != 1 {
		t.Errorf("report = %+v, want 1 created and 1 discarded", r)
	}
	if snow.Index.Len() != 1 {
		t.Errorf("index len = %d, want 1", snow.Index.Len())
	}
	// Both flakes still go back to the top.
	for i := 0; i < 2; i++ {
		if snow.Pool.Collided(i) || snow.Pool.Position(i).Y < 15 {
			t.Errorf("flake %d was not recycled", i)
		}
	}

	// Landing in the existing cell still grows it at capacity.
	land(snow, 0, r3.Vec{X: 0.2, Y: -0.4, Z: 0.1})
	r = snow.Step(calmWeather(), 0)
	if r.Merged != 1 {
		t.Errorf("report = %+v, want merge into existing pile", r)
	}
}

func TestStepDroppedAndFellThrough(t *testing.T) {
	snow, _ := newTestSnow(t, 3, 10)

	land(snow, 0, r3.Vec{Y: -2.5})                // collided too deep
	snow.Pool.SetState(1, r3.Vec{Y: -6}, r3.Vec{}) // fell out of the volume
	snow.Pool.SetState(2, r3.Vec{Y: -3}, r3.Vec{}) // dead zone, keeps falling

	r := snow.Step(calmWeather(), 0)

	if r.Dropped != 1 || r.FellThrough != 1 || r.Airborne != 1 {
		t.Errorf("report = %+v, want 1 dropped, 1 fell through, 1 airborne", r)
	}
	if snow.Piles.Count() != 0 {
		t.Errorf("pile count = %d, want 0", snow.Piles.Count())
	}
	if r.Recycled() != 2 {
		t.Errorf("recycled = %d, want 2", r.Recycled())
	}
	if y := snow.Pool.Position(2).Y; y != -3 {
		t.Errorf("dead zone flake moved to y=%v", y)
	}
}

func TestStepQueuesForces(t *testing.T) {
	snow, _ := newTestSnow(t, 1, 10)
	w := calmWeather()
	w.WindSpeed = 2
	w.WindDirection = 90
	w.Turbulence = 0.5

	snow.Pool.SetState(0, r3.Vec{X: 1, Y: 5, Z: 2}, r3.Vec{})
	snow.Step(w, 3)

	want := FlakeForce(WindVector(w), 0.5, 3, r3.Vec{X: 1, Y: 5, Z: 2})
	if got := snow.Pool.Force(0); !vecNear(got, want, 1e-12) {
		t.Errorf("queued force = %v, want %v", got, want)
	}
}

func TestSnowReset(t *testing.T) {
	snow, _ := newTestSnow(t, 20, 10)

	for i := 0; i < 5; i++ {
		land(snow, i, r3.Vec{X: float64(i) * 2, Y: -0.4})
	}
	snow.Step(calmWeather(), 0)
	if snow.Piles.Count() == 0 {
		t.Fatal("expected piles before reset")
	}
	snow.Pool.MarkCollided(3)

	snow.Reset()

	if snow.Piles.Count() != 0 {
		t.Errorf("pile count = %d, want 0", snow.Piles.Count())
	}
	if snow.Index.Len() != 0 {
		t.Errorf("index len = %d, want 0", snow.Index.Len())
	}
	if snow.Pool.Count() != 20 {
		t.Errorf("particle count = %d, want 20", snow.Pool.Count())
	}
	for i := 0; i < snow.Pool.Count(); i++ {
		y := snow.Pool.Position(i).Y
		if y < 10 || y >= 20 {
			t.Errorf("flake %d y = %v, want in spawn band [10, 20)", i, y)
		}
		if snow.Pool.Collided(i) {
			t.Errorf("flake %d still collided after reset", i)
		}
	}

	// A landing after reset seeds a fresh pile at handle 0.
	land(snow, 0, r3.Vec{X: 7, Y: -0.4})
	snow.Step(calmWeather(), 0)
	if h, ok := snow.Index.Lookup(KeyOf(r3.Vec{X: 7, Y: -0.4})); !ok || h != 0 {
		t.Errorf("Lookup after reset = (%d, %v), want (0, true)", h, ok)
	}
}

// TestDropLandsAtOrigin drops one flake through the integrator onto the ground.
func TestDropLandsAtOrigin(t *testing.T) {
	cfg := config.Default()
	snow, world := newTestSnow(t, 1, 10)
	physics := NewPhysicsSystem(world, NewScene(config.SceneConfig{GroundHeight: -0.5}), cfg.Physics)
	w := calmWeather()

	snow.Pool.SetState(0, r3.Vec{Y: 1}, r3.Vec{})

	dt := cfg.Physics.DT
	for tick := 0; tick < 600 && snow.Piles.Count() == 0; tick++ {
		snow.Step(w, float64(tick)*dt)
		physics.Step(w.Gravity, dt, snow.Pool.MarkCollided)
	}

	if snow.Piles.Count() != 1 {
		t.Fatalf("pile count = %d, want 1", snow.Piles.Count())
	}
	p, _ := snow.Piles.Get(0)
	if KeyOf(p.Position) != (SpatialKey{0, 0, 0}) {
		t.Errorf("pile at %v, want key (0,0,0)", p.Position)
	}
	if math.Abs(p.Position.Y-(-0.4)) > 1e-9 {
		t.Errorf("pile y = %v, want resting height -0.4", p.Position.Y)
	}
	if p.Volume != 10 {
		t.Errorf("volume = %v, want 10", p.Volume)
	}
}

// TestLongRunInvariants runs the full loop under gusty weather and checks the
// population and pile invariants every tick.
func TestLongRunInvariants(t *testing.T) {
	cfg := config.Default()
	snow, world := newTestSnow(t, 100, 40)
	physics := NewPhysicsSystem(world, NewScene(cfg.Scene), cfg.Physics)
	w := cfg.Weather
	w.WindSpeed = 6
	w.Turbulence = 1.5

	dt := cfg.Physics.DT
	prevCount := 0
	prevVolumes := make([]float64, 0, 40)

	for tick := 0; tick < 3000; tick++ {
		w.WindDirection = float64(tick % 360)
		snow.Step(w, float64(tick)*dt)
		physics.Step(w.Gravity, dt, snow.Pool.MarkCollided)

		if snow.Pool.Count() != 100 {
			t.Fatalf("tick %d: particle count = %d", tick, snow.Pool.Count())
		}
		n := snow.Piles.Count()
		if n < prevCount || n > 40 {
			t.Fatalf("tick %d: pile count %d (prev %d, cap 40)", tick, n, prevCount)
		}
		if snow.Index.Len() != n {
			t.Fatalf("tick %d: index len %d != pile count %d", tick, snow.Index.Len(), n)
		}
		for i, p := range snow.Piles.Piles() {
			if i < len(prevVolumes) && p.Volume < prevVolumes[i] {
				t.Fatalf("tick %d: pile %d volume decreased", tick, i)
			}
		}
		prevVolumes = prevVolumes[:0]
		for _, p := range snow.Piles.Piles() {
			prevVolumes = append(prevVolumes, p.Volume)
		}
		prevCount = n
	}

	if prevCount == 0 {
		t.Error("expected some piles after 3000 ticks")
	}
}
