package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/protodisk/internal/dynamo"
)

// Profile is a binned radial distribution. Edges has one more element than
// Counts and Density.
type Profile struct {
	Edges   []float64
	Counts  []float64
	Density []float64
	// Outside counts particles at or beyond the last edge.
	Outside int
}

func (p *Profile) Centers() []float64 {
	c := make([]float64, len(p.Counts))
	for i := range c {
		c[i] = 0.5 * (p.Edges[i] + p.Edges[i+1])
	}
	return c
}

// RadialProfile bins disk particles by distance from the origin into
// equal-width spherical shells out to maxRadius. Density is the count per
// unit shell volume.
func RadialProfile(v dynamo.View, maxRadius float64, bins int) *Profile {
	p := histogram(diskValues(v, func(x r3.Vec) float64 { return r3.Norm(x) }), maxRadius, bins)
	for i := range p.Counts {
		r0, r1 := p.Edges[i], p.Edges[i+1]
		vol := 4.0 / 3.0 * math.Pi * (r1*r1*r1 - r0*r0*r0)
		p.Density[i] = p.Counts[i] / vol
	}
	return p
}

// SurfaceDensity bins disk particles by planar radius into annuli out to
// maxRadius. Density is the count per unit annulus area.
func SurfaceDensity(v dynamo.View, maxRadius float64, bins int) *Profile {
	p := histogram(diskValues(v, func(x r3.Vec) float64 { return math.Hypot(x.X, x.Y) }), maxRadius, bins)
	for i := range p.Counts {
		r0, r1 := p.Edges[i], p.Edges[i+1]
		p.Density[i] = p.Counts[i] / (math.Pi * (r1*r1 - r0*r0))
	}
	return p
}

func histogram(vals []float64, maxRadius float64, bins int) *Profile {
	if bins < 1 {
		bins = 1
	}
	p := &Profile{
		Edges:   floats.Span(make([]float64, bins+1), 0, maxRadius),
		Counts:  make([]float64, bins),
		Density: make([]float64, bins),
	}

	sort.Float64s(vals)
	in := sort.SearchFloat64s(vals, maxRadius)
	p.Outside = len(vals) - in
	if in > 0 {
		stat.Histogram(p.Counts, p.Edges, vals[:in], nil)
	}
	return p
}

func diskValues(v dynamo.View, f func(r3.Vec) float64) []float64 {
	vals := make([]float64, 0, v.Len()-v.ProtostarCount())
	for i := v.ProtostarCount(); i < v.Len(); i++ {
		vals = append(vals, f(v.Position(i)))
	}
	return vals
}

// VerticalThickness is the root mean square z of the disk group.
func VerticalThickness(v dynamo.View) float64 {
	z := diskValues(v, func(x r3.Vec) float64 { return x.Z })
	if len(z) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(z, z) / float64(len(z)))
}

type Moments struct {
	Mean   float64
	StdDev float64
	Median float64
	Max    float64
}

// RadialMoments summarizes the distances of disk particles from the origin.
func RadialMoments(v dynamo.View) Moments {
	r := diskValues(v, func(x r3.Vec) float64 { return r3.Norm(x) })
	if len(r) == 0 {
		return Moments{}
	}
	sort.Float64s(r)

	m := Moments{
		Median: stat.Quantile(0.5, stat.Empirical, r, nil),
		Max:    r[len(r)-1],
	}
	if len(r) == 1 {
		m.Mean = r[0]
		return m
	}
	m.Mean, m.StdDev = stat.MeanStdDev(r, nil)
	return m
}
