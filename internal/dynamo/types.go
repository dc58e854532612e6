package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the physical constants of a run. They are fixed once the run
// is configured.
type Params struct {
	G                 float64
	M                 float64
	Dt                float64
	MaxRadius         float64
	ProtostarFraction float64
	// Thickness scales the random vertical velocity given to disk particles,
	// relative to their orbital speed. Zero gives a perfectly flat disk.
	Thickness float64
}

func DefaultParams() Params {
	return Params{
		G:                 10,
		M:                 20,
		Dt:                0.1,
		MaxRadius:         200,
		ProtostarFraction: 0.05,
		Thickness:         0.05,
	}
}

// GM returns the standard gravitational parameter of the central mass.
func (p Params) GM() float64 { return p.G * p.M }

// Validate reports the first parameter outside its valid range.
func (p Params) Validate() error {
	if !(p.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, p.Dt)
	}
	return p.ValidateInitial()
}

// ValidateInitial checks only the parameters that initial conditions
// depend on, which excludes the timestep.
func (p Params) ValidateInitial() error {
	switch {
	case !(p.G > 0):
		return fmt.Errorf("%w: G must be positive, got %g", ErrParameterBounds, p.G)
	case !(p.M > 0):
		return fmt.Errorf("%w: M must be positive, got %g", ErrParameterBounds, p.M)
	case !(p.MaxRadius > 0):
		return fmt.Errorf("%w: max radius must be positive, got %g", ErrParameterBounds, p.MaxRadius)
	case !(p.ProtostarFraction >= 0 && p.ProtostarFraction <= 1):
		return fmt.Errorf("%w: protostar fraction must be in [0, 1], got %g", ErrParameterBounds, p.ProtostarFraction)
	case !(p.Thickness >= 0) || math.IsInf(p.Thickness, 0):
		return fmt.Errorf("%w: thickness must be non-negative, got %g", ErrParameterBounds, p.Thickness)
	}
	return nil
}

// ProtostarCount is the number of leading particles that form the
// protostar group for n particles and fraction f.
func ProtostarCount(n int, f float64) int {
	c := int(math.Floor(float64(n) * f))
	if c > n {
		return n
	}
	if c < 0 {
		return 0
	}
	return c
}

// ParticleState holds the particle buffers of one simulation.
//
// Indices [0, ProtostarCount()) are the protostar group and stay at the
// origin with zero velocity. The remaining indices are the disk group.
// Pos and Vel are written only by the generator and by an Integrator.
type ParticleState struct {
	Pos []r3.Vec
	Vel []r3.Vec

	protostars int
}

func NewParticleState(n, protostars int) *ParticleState {
	if protostars > n {
		protostars = n
	}
	return &ParticleState{
		Pos:        make([]r3.Vec, n),
		Vel:        make([]r3.Vec, n),
		protostars: protostars,
	}
}

func (s *ParticleState) Len() int            { return len(s.Pos) }
func (s *ParticleState) ProtostarCount() int { return s.protostars }
func (s *ParticleState) DiskCount() int      { return len(s.Pos) - s.protostars }

func (s *ParticleState) IsProtostar(i int) bool { return i < s.protostars }

func (s *ParticleState) Clone() *ParticleState {
	c := &ParticleState{
		Pos:        make([]r3.Vec, len(s.Pos)),
		Vel:        make([]r3.Vec, len(s.Vel)),
		protostars: s.protostars,
	}
	copy(c.Pos, s.Pos)
	copy(c.Vel, s.Vel)
	return c
}

func (s *ParticleState) IsValid() bool {
	for i := range s.Pos {
		if !finite(s.Pos[i]) || !finite(s.Vel[i]) {
			return false
		}
	}
	return true
}

// View returns a read-only view of s.
func (s *ParticleState) View() View { return View{s: s} }

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// View gives render collaborators read access to a ParticleState. It is
// only valid between ticks.
type View struct {
	s *ParticleState
}

func (v View) Len() int               { return v.s.Len() }
func (v View) ProtostarCount() int    { return v.s.protostars }
func (v View) Position(i int) r3.Vec  { return v.s.Pos[i] }
func (v View) Velocity(i int) r3.Vec  { return v.s.Vel[i] }
func (v View) IsProtostar(i int) bool { return v.s.IsProtostar(i) }
func (v View) Clone() *ParticleState  { return v.s.Clone() }

// AppendPositions32 appends the positions to dst as flat xyz float32
// triples, the layout a GPU vertex buffer expects.
func (v View) AppendPositions32(dst []float32) []float32 {
	return appendVec32(dst, v.s.Pos)
}

func (v View) AppendVelocities32(dst []float32) []float32 {
	return appendVec32(dst, v.s.Vel)
}

// appendVec32 flattens vs into xyz triples.
func appendVec32(dst []float32, vs []r3.Vec) []float32 {
	for _, p := range vs {
		dst = append(dst, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return dst
}

// Integrator advances the disk group of a state by one timestep in place.
type Integrator interface {
	Step(s *ParticleState, g, m, dt float64)
}

type Metric interface {
	Name() string
	Observe(v View, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(v View, step int, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(v View, step int, t float64)

func (f ObserverFunc) OnStep(v View, step int, t float64) { f(v, step, t) }

// Config controls a headless run.
type Config struct {
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		ValidateState: true,
	}
}

type Result struct {
	Steps       int
	Time        float64
	Metrics     map[string]float64
	EnergyDrift float64
}
