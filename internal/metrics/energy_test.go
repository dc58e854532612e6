package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/dynamo"
)

const gm = 200.0

// orbitState places one protostar and one disk particle on a circular
// orbit of radius r, rotated by angle.
func orbitState(r, angle float64) *dynamo.ParticleState {
	s := dynamo.NewParticleState(2, 1)
	sin, cos := math.Sincos(angle)
	v := math.Sqrt(gm / r)
	s.Pos[1] = r3.Vec{X: r * cos, Y: r * sin}
	s.Vel[1] = r3.Vec{X: -v * sin, Y: v * cos}
	return s
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(gm)
	if m.Value() != 0 {
		t.Errorf("initial Value() = %v, want 0", m.Value())
	}

	m.Observe(orbitState(100, 0).View(), 0)
	wantE := -0.5 * gm / 100
	if math.Abs(m.Current()-wantE) > 1e-12 {
		t.Errorf("Current() = %v, want %v", m.Current(), wantE)
	}

	m.Observe(orbitState(100, 1.3).View(), 1)
	if m.Value() > 1e-12 {
		t.Errorf("rotated orbit drift = %v, want 0", m.Value())
	}

	s := orbitState(100, 0)
	s.Vel[1] = r3.Scale(1.1, s.Vel[1])
	m.Observe(s.View(), 2)
	// E = 0.5*1.21*2 - 2 = -0.79 against -1
	if math.Abs(m.Value()-0.21) > 1e-9 {
		t.Errorf("Value() = %v, want 0.21", m.Value())
	}

	m.Observe(orbitState(100, 0).View(), 3)
	if math.Abs(m.Value()-0.21) > 1e-9 {
		t.Errorf("max drift not retained: %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("Reset() did not clear state")
	}
}

func TestRadiusDrift(t *testing.T) {
	m := NewRadiusDrift()
	m.Observe(orbitState(100, 0).View(), 0)
	m.Observe(orbitState(110, 0.5).View(), 1)
	m.Observe(orbitState(95, 1).View(), 2)

	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("Value() = %v, want 0.1", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.NewParticleState(3, 3).View(), 0)
	if m.Value() != 0 {
		t.Errorf("all-protostar Value() = %v, want 0", m.Value())
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	m := NewAngularMomentumDrift()
	m.Observe(orbitState(100, 0).View(), 0)
	m.Observe(orbitState(100, 2).View(), 1)
	if m.Value() > 1e-12 {
		t.Errorf("circular orbit drift = %v, want 0", m.Value())
	}

	s := orbitState(100, 0)
	s.Vel[1] = r3.Scale(0.5, s.Vel[1])
	m.Observe(s.View(), 2)
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("Value() = %v, want 0.5", m.Value())
	}
}

func TestBound(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		orbits []float64
		want   float64
	}{
		{"no observations", 100, nil, 1},
		{"inside", 150, []float64{100, 120}, 1},
		{"escaped once", 150, []float64{100, 200, 120}, 0},
		{"on the boundary", 100, []float64{100}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBound(tt.radius)
			for i, r := range tt.orbits {
				b.Observe(orbitState(r, 0).View(), float64(i))
			}
			if got := b.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	ms := Standard(dynamo.DefaultParams())
	names := map[string]bool{}
	for _, m := range ms {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy_drift", "radius_drift", "angular_momentum_drift", "bound"} {
		if !names[want] {
			t.Errorf("Standard() missing %q", want)
		}
	}
}
