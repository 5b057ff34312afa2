package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/frostframe/config"
)

func TestGroundPlaneResolve(t *testing.T) {
	g := GroundPlane{Height: -0.5}

	if _, _, hit := g.Resolve(r3.Vec{Y: 0}, 0.1); hit {
		t.Error("sphere above the plane should not touch it")
	}

	p, n, hit := g.Resolve(r3.Vec{X: 2, Y: -0.45, Z: 3}, 0.1)
	if !hit {
		t.Fatal("sphere sinking into the plane should touch it")
	}
	if !vecNear(p, r3.Vec{X: 2, Y: -0.4, Z: 3}, 1e-12) {
		t.Errorf("resolved position = %v, want (2, -0.4, 3)", p)
	}
	if n != (r3.Vec{Y: 1}) {
		t.Errorf("normal = %v, want up", n)
	}
}

func TestBoxResolve(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		p       r3.Vec
		hit     bool
		wantPos r3.Vec
		wantN   r3.Vec
	}{
		{
			name:    "on the roof",
			box:     Box{Center: r3.Vec{Y: 0.75}, Half: r3.Vec{X: 1, Y: 0.75, Z: 1}},
			p:       r3.Vec{Y: 1.55},
			hit:     true,
			wantPos: r3.Vec{Y: 1.6},
			wantN:   r3.Vec{Y: 1},
		},
		{
			name:    "against a side",
			box:     Box{Center: r3.Vec{Y: 0.75}, Half: r3.Vec{X: 1, Y: 0.75, Z: 1}},
			p:       r3.Vec{X: 1.05, Y: 0.5},
			hit:     true,
			wantPos: r3.Vec{X: 1.1, Y: 0.5},
			wantN:   r3.Vec{X: 1},
		},
		{
			name: "clear of the box",
			box:  Box{Center: r3.Vec{Y: 0.75}, Half: r3.Vec{X: 1, Y: 0.75, Z: 1}},
			p:    r3.Vec{X: 3, Y: 0.5},
		},
		{
			name:    "rotated quarter turn",
			box:     Box{Center: r3.Vec{}, Half: r3.Vec{X: 2, Y: 1, Z: 0.5}, RotationY: math.Pi / 2},
			p:       r3.Vec{X: 0.55, Y: 0},
			hit:     true,
			wantPos: r3.Vec{X: 0.6},
			wantN:   r3.Vec{X: 1},
		},
		{
			name:    "centre inside exits through top",
			box:     Box{Center: r3.Vec{}, Half: r3.Vec{X: 1, Y: 0.2, Z: 1}},
			p:       r3.Vec{Y: 0.1},
			hit:     true,
			wantPos: r3.Vec{Y: 0.3},
			wantN:   r3.Vec{Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n, hit := tt.box.Resolve(tt.p, 0.1)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if !hit {
				return
			}
			if !vecNear(p, tt.wantPos, 1e-9) {
				t.Errorf("position = %v, want %v", p, tt.wantPos)
			}
			if !vecNear(n, tt.wantN, 1e-9) {
				t.Errorf("normal = %v, want %v", n, tt.wantN)
			}
		})
	}
}

func TestConeResolve(t *testing.T) {
	c := Cone{Base: r3.Vec{}, Radius: 1, Height: 1}

	if _, _, hit := c.Resolve(r3.Vec{X: 2, Y: 0.5}, 0.1); hit {
		t.Error("point well outside the cone should not touch it")
	}
	if _, _, hit := c.Resolve(r3.Vec{Y: -0.5}, 0.1); hit {
		t.Error("point below the base should not touch it")
	}

	// On the slant at half height the surface is 0.5 from the axis.
	p, n, hit := c.Resolve(r3.Vec{X: 0.5, Y: 0.5}, 0.1)
	if !hit {
		t.Fatal("point on the slant should touch")
	}
	wantN := r3.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
	if !vecNear(n, wantN, 1e-9) {
		t.Errorf("normal = %v, want %v", n, wantN)
	}
	if !vecNear(p, r3.Add(r3.Vec{X: 0.5, Y: 0.5}, r3.Scale(0.1, wantN)), 1e-9) {
		t.Errorf("position = %v, want pushed 0.1 along the normal", p)
	}
}

func TestCylinderResolve(t *testing.T) {
	c := Cylinder{Base: r3.Vec{}, Radius: 0.25, Height: 1}

	p, n, hit := c.Resolve(r3.Vec{Z: 0.3, Y: 0.5}, 0.1)
	if !hit {
		t.Fatal("sphere against the trunk should touch")
	}
	if !vecNear(p, r3.Vec{Z: 0.35, Y: 0.5}, 1e-9) || !vecNear(n, r3.Vec{Z: 1}, 1e-9) {
		t.Errorf("side contact = (%v, %v)", p, n)
	}

	p, n, hit = c.Resolve(r3.Vec{X: 0.1, Y: 1.05}, 0.1)
	if !hit {
		t.Fatal("sphere on the cap should touch")
	}
	if !vecNear(p, r3.Vec{X: 0.1, Y: 1.1}, 1e-9) || n != (r3.Vec{Y: 1}) {
		t.Errorf("cap contact = (%v, %v)", p, n)
	}

	if _, _, hit := c.Resolve(r3.Vec{X: 1, Y: 0.5}, 0.1); hit {
		t.Error("sphere away from the trunk should not touch")
	}
}

func TestNewSceneFromDefaults(t *testing.T) {
	cfg := config.Default()
	s := NewScene(cfg.Scene)

	// ground + 2 per house + 3 per tree
	want := 1 + 2*len(cfg.Scene.Houses) + 3*len(cfg.Scene.Trees)
	if len(s.Colliders) != want {
		t.Errorf("collider count = %d, want %d", len(s.Colliders), want)
	}
	if _, ok := s.Colliders[0].(GroundPlane); !ok {
		t.Error("first collider should be the ground")
	}
}
