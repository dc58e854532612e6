package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/physics"
)

// RadiusDrift tracks the largest relative change in the mean disk radius.
type RadiusDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewRadiusDrift() *RadiusDrift { return &RadiusDrift{} }

func (r *RadiusDrift) Name() string { return "radius_drift" }

func (r *RadiusDrift) Observe(v dynamo.View, t float64) {
	n := v.Len() - v.ProtostarCount()
	if n == 0 {
		return
	}
	sum := 0.0
	for i := v.ProtostarCount(); i < v.Len(); i++ {
		sum += r3.Norm(v.Position(i))
	}
	mean := sum / float64(n)

	if r.samples == 0 {
		r.initial = mean
	}
	r.samples++

	if r.initial != 0 {
		r.maxDrift = math.Max(r.maxDrift, math.Abs(mean-r.initial)/r.initial)
	}
}

func (r *RadiusDrift) Value() float64 { return r.maxDrift }

func (r *RadiusDrift) Reset() {
	r.initial = 0
	r.maxDrift = 0
	r.samples = 0
}

// AngularMomentumDrift tracks the largest relative change in the total
// angular momentum vector of the disk.
type AngularMomentumDrift struct {
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(v dynamo.View, t float64) {
	l := physics.AngularMomentum(v)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	if n := r3.Norm(a.initial); n != 0 {
		a.maxDrift = math.Max(a.maxDrift, r3.Norm(r3.Sub(l, a.initial))/n)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = r3.Vec{}
	a.maxDrift = 0
	a.samples = 0
}
