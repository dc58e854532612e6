package dynamo

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		valid  bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"zero G", func(p *Params) { p.G = 0 }, false},
		{"negative M", func(p *Params) { p.M = -1 }, false},
		{"zero dt", func(p *Params) { p.Dt = 0 }, false},
		{"NaN dt", func(p *Params) { p.Dt = math.NaN() }, false},
		{"zero radius", func(p *Params) { p.MaxRadius = 0 }, false},
		{"fraction one", func(p *Params) { p.ProtostarFraction = 1 }, true},
		{"fraction zero", func(p *Params) { p.ProtostarFraction = 0 }, true},
		{"fraction above one", func(p *Params) { p.ProtostarFraction = 1.5 }, false},
		{"negative fraction", func(p *Params) { p.ProtostarFraction = -0.1 }, false},
		{"flat disk", func(p *Params) { p.Thickness = 0 }, true},
		{"negative thickness", func(p *Params) { p.Thickness = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrParameterBounds) {
					t.Errorf("Validate() = %v, want ErrParameterBounds", err)
				}
			}
		})
	}
}

func TestProtostarCount(t *testing.T) {
	tests := []struct {
		n        int
		f        float64
		expected int
	}{
		{30000, 0.05, 1500},
		{100, 0.05, 5},
		{19, 0.05, 0},
		{21, 0.05, 1},
		{1, 1.0, 1},
		{10, 0, 0},
		{0, 0.5, 0},
	}

	for _, tt := range tests {
		if got := ProtostarCount(tt.n, tt.f); got != tt.expected {
			t.Errorf("ProtostarCount(%d, %v) = %d, want %d", tt.n, tt.f, got, tt.expected)
		}
	}
}

func TestParticleState_Partition(t *testing.T) {
	s := NewParticleState(10, 3)

	if s.Len() != 10 || s.ProtostarCount() != 3 || s.DiskCount() != 7 {
		t.Fatalf("partition = (%d, %d, %d), want (10, 3, 7)", s.Len(), s.ProtostarCount(), s.DiskCount())
	}
	if !s.IsProtostar(2) || s.IsProtostar(3) {
		t.Error("IsProtostar boundary wrong")
	}

	clamped := NewParticleState(2, 5)
	if clamped.ProtostarCount() != 2 {
		t.Errorf("ProtostarCount() = %d, want 2", clamped.ProtostarCount())
	}
}

func TestParticleState_Clone(t *testing.T) {
	s := NewParticleState(2, 1)
	s.Pos[1] = r3.Vec{X: 1, Y: 2, Z: 3}

	c := s.Clone()
	c.Pos[1].X = 99

	if s.Pos[1].X == 99 {
		t.Error("Clone did not create independent copy")
	}
	if c.ProtostarCount() != 1 {
		t.Errorf("clone ProtostarCount() = %d, want 1", c.ProtostarCount())
	}
}

func TestParticleState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		pos   r3.Vec
		vel   r3.Vec
		valid bool
	}{
		{"zeros", r3.Vec{}, r3.Vec{}, true},
		{"normal", r3.Vec{X: 1, Y: -2, Z: 3}, r3.Vec{X: 0.5}, true},
		{"NaN position", r3.Vec{X: math.NaN()}, r3.Vec{}, false},
		{"Inf velocity", r3.Vec{}, r3.Vec{Z: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewParticleState(1, 0)
			s.Pos[0], s.Vel[0] = tt.pos, tt.vel
			if got := s.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestView_AppendPositions32(t *testing.T) {
	s := NewParticleState(2, 0)
	s.Pos[0] = r3.Vec{X: 1, Y: 2, Z: 3}
	s.Pos[1] = r3.Vec{X: -1, Y: -2, Z: -3}

	buf := s.View().AppendPositions32(nil)
	want := []float32{1, 2, 3, -1, -2, -3}
	if len(buf) != len(want) {
		t.Fatalf("len = %d, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestSimulationError_Unwrap(t *testing.T) {
	err := &SimulationError{Step: 12, Time: 1.2, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap to ErrInvalidState")
	}
	if err.Error() != ErrInvalidState.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrInvalidState.Error())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Steps <= 0 {
		t.Error("DefaultConfig has invalid Steps")
	}
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("DefaultParams invalid: %v", err)
	}
}

func TestParams_ValidateInitialIgnoresDt(t *testing.T) {
	p := DefaultParams()
	p.Dt = 0
	if err := p.ValidateInitial(); err != nil {
		t.Errorf("ValidateInitial() = %v, want nil", err)
	}
	if err := p.Validate(); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("Validate() = %v, want ErrParameterBounds", err)
	}
}
