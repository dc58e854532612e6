package integrators

import (
	"github.com/san-kum/protodisk/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is the explicit forward Euler scheme. Orbits spiral outwards under
// it, which makes it useful only as a baseline for comparisons.
type Euler struct {
	Workers  int
	MinChunk int
}

func NewEuler() *Euler {
	return &Euler{MinChunk: DefaultMinChunk}
}

func (e *Euler) Step(s *dynamo.ParticleState, g, m, dt float64) {
	gm := g * m
	eachDiskChunk(s, e.MinChunk, e.Workers, func(start, end int) {
		pos, vel := s.Pos[start:end], s.Vel[start:end]
		for i := range pos {
			a, ok := centralAccel(pos[i], gm)
			if !ok {
				continue
			}
			pos[i] = r3.Add(pos[i], r3.Scale(dt, vel[i]))
			vel[i] = r3.Add(vel[i], r3.Scale(dt, a))
		}
	})
}
