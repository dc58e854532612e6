package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/dynamo"
)

// Bound reports the lowest fraction of disk particles found within radius
// over all observations.
type Bound struct {
	name    string
	radius  float64
	minFrac float64
	samples int
}

func NewBound(radius float64) *Bound {
	return &Bound{
		name:    "bound",
		radius:  radius,
		minFrac: 1,
	}
}

func (b *Bound) Name() string {
	return b.name
}

func (b *Bound) Observe(v dynamo.View, t float64) {
	b.samples++
	disk := v.Len() - v.ProtostarCount()
	if disk == 0 {
		return
	}
	inside := 0
	for i := v.ProtostarCount(); i < v.Len(); i++ {
		if r3.Norm(v.Position(i)) <= b.radius {
			inside++
		}
	}
	b.minFrac = math.Min(b.minFrac, float64(inside)/float64(disk))
}

func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return b.minFrac
}

func (b *Bound) Reset() {
	b.minFrac = 1
	b.samples = 0
}

// Standard returns the metric set recorded for every run.
func Standard(p dynamo.Params) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(p.GM()),
		NewRadiusDrift(),
		NewAngularMomentumDrift(),
		NewBound(2 * p.MaxRadius),
	}
}
