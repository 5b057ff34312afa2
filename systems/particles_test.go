package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/components"
	"github.com/pthm-cable/frostframe/config"
)

func newTestPool(t *testing.T, count int) *ParticlePool {
	t.Helper()
	cfg := config.Default()
	world := ecs.NewWorld()
	body := components.Body{Radius: cfg.Snow.ParticleSize, Mass: cfg.Physics.ParticleMass}
	return NewParticlePool(world, count, body, cfg.Spawn, rand.New(rand.NewSource(1)))
}

func TestParticlePoolInitialize(t *testing.T) {
	pool := newTestPool(t, 50)

	if pool.Count() != 50 {
		t.Fatalf("count = %d, want 50", pool.Count())
	}

	for i := 0; i < pool.Count(); i++ {
		p := pool.Position(i)
		if p.Y < 10 || p.Y >= 20 {
			t.Errorf("flake %d y = %v, want in [10, 20)", i, p.Y)
		}
		if p.X < -10 || p.X >= 10 || p.Z < -10 || p.Z >= 10 {
			t.Errorf("flake %d outside spawn footprint: %v", i, p)
		}
		if pool.Velocity(i) != (r3.Vec{}) {
			t.Errorf("flake %d should start at rest", i)
		}
		if pool.Collided(i) {
			t.Errorf("flake %d should start uncollided", i)
		}
	}
}

func TestMarkCollidedIdempotent(t *testing.T) {
	once := newTestPool(t, 1)
	twice := newTestPool(t, 1)

	for _, pool := range []*ParticlePool{once, twice} {
		pool.SetState(0, r3.Vec{Y: -0.4}, r3.Vec{})
	}

	once.MarkCollided(0)
	twice.MarkCollided(0)
	twice.MarkCollided(0)

	if once.Collided(0) != twice.Collided(0) {
		t.Error("collided flag differs after repeated marks")
	}
	if once.Classify(0) != twice.Classify(0) {
		t.Errorf("classification differs: %v vs %v", once.Classify(0), twice.Classify(0))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		y        float64
		collided bool
		want     Phase
	}{
		{"falling", 5, false, Airborne},
		{"landed on ground", -0.4, true, Landed},
		{"landed just above floor", -1.99, true, Landed},
		{"collided at floor", -2, true, FellThrough},
		{"collided deep", -3, true, FellThrough},
		{"dead zone keeps falling", -3, false, Airborne},
		{"at rescue floor", -5, false, Airborne},
		{"below rescue floor", -5.0001, false, FellThrough},
		{"collided below rescue floor", -6, true, FellThrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newTestPool(t, 1)
			pool.SetState(0, r3.Vec{Y: tt.y}, r3.Vec{})
			if tt.collided {
				pool.MarkCollided(0)
			}
			if got := pool.Classify(0); got != tt.want {
				t.Errorf("Classify(y=%v, collided=%v) = %v, want %v", tt.y, tt.collided, got, tt.want)
			}
		})
	}
}

func TestRecycle(t *testing.T) {
	pool := newTestPool(t, 200)
	wind := r3.Vec{X: 4, Z: -2}

	for i := 0; i < pool.Count(); i++ {
		pool.SetState(i, r3.Vec{Y: -0.4}, r3.Vec{X: 3, Y: -1})
		pool.SetForce(i, r3.Vec{X: 1})
		pool.MarkCollided(i)
		pool.Recycle(i, wind)
	}

	for i := 0; i < pool.Count(); i++ {
		p := pool.Position(i)
		if p.Y < 15 || p.Y >= 20 {
			t.Errorf("flake %d y = %v, want in [15, 20)", i, p.Y)
		}
		// Upwind shift is -wind*1.5 around a 30 wide band.
		if p.X < -15-6 || p.X >= 15-6 {
			t.Errorf("flake %d x = %v, want in [-21, 9)", i, p.X)
		}
		if p.Z < -15+3 || p.Z >= 15+3 {
			t.Errorf("flake %d z = %v, want in [-12, 18)", i, p.Z)
		}
		if pool.Velocity(i) != (r3.Vec{Y: -2}) {
			t.Errorf("flake %d velocity = %v, want (0, -2, 0)", i, pool.Velocity(i))
		}
		if pool.Force(i) != (r3.Vec{}) {
			t.Errorf("flake %d kept a stale force", i)
		}
		if pool.Collided(i) {
			t.Errorf("flake %d still collided after recycle", i)
		}
		if pool.Classify(i) != Airborne {
			t.Errorf("flake %d should be airborne after recycle", i)
		}
	}
}
