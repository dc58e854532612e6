package integrators

import (
	"github.com/san-kum/protodisk/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// SymplecticEuler is the semi-implicit Euler scheme: the velocity is
// kicked first and the position drifts with the updated velocity. Its
// energy error stays bounded over long orbital runs.
type SymplecticEuler struct {
	Workers  int
	MinChunk int
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{MinChunk: DefaultMinChunk}
}

func (e *SymplecticEuler) Step(s *dynamo.ParticleState, g, m, dt float64) {
	gm := g * m
	eachDiskChunk(s, e.MinChunk, e.Workers, func(start, end int) {
		pos, vel := s.Pos[start:end], s.Vel[start:end]
		for i := range pos {
			a, ok := centralAccel(pos[i], gm)
			if !ok {
				continue
			}
			vel[i] = r3.Add(vel[i], r3.Scale(dt, a))
			pos[i] = r3.Add(pos[i], r3.Scale(dt, vel[i]))
		}
	})
}
