package integrators

import (
	"github.com/san-kum/protodisk/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Leapfrog is the kick-drift-kick scheme. It is second order and
// symplectic at the cost of two force evaluations per step.
type Leapfrog struct {
	Workers  int
	MinChunk int
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{MinChunk: DefaultMinChunk}
}

func (l *Leapfrog) Step(s *dynamo.ParticleState, g, m, dt float64) {
	gm := g * m
	halfDt := 0.5 * dt
	eachDiskChunk(s, l.MinChunk, l.Workers, func(start, end int) {
		pos, vel := s.Pos[start:end], s.Vel[start:end]
		for i := range pos {
			a, ok := centralAccel(pos[i], gm)
			if !ok {
				continue
			}
			v := r3.Add(vel[i], r3.Scale(halfDt, a))
			p := r3.Add(pos[i], r3.Scale(dt, v))
			if a, ok := centralAccel(p, gm); ok {
				v = r3.Add(v, r3.Scale(halfDt, a))
			}
			pos[i], vel[i] = p, v
		}
	})
}
