package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/protodisk/internal/dynamo"
	"github.com/san-kum/protodisk/internal/sampler"
	"gonum.org/v1/gonum/spatial/r3"
)

// Generate builds the initial particle state for a disk of n particles.
//
// The first floor(n*ProtostarFraction) particles form the protostar and
// sit at the origin at rest. Every other particle is sampled uniformly in
// the ball of radius MaxRadius and given the circular Keplerian velocity
// for its planar radius, counter-clockwise about +z, plus a random vertical
// component of at most Thickness times that speed. A particle sampled on
// the spin axis gets zero velocity.
func Generate(n int, p dynamo.Params, src sampler.Source) (*dynamo.ParticleState, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: particle count must be non-negative, got %d", dynamo.ErrParameterBounds, n)
	}
	if err := p.ValidateInitial(); err != nil {
		return nil, err
	}

	s := dynamo.NewParticleState(n, dynamo.ProtostarCount(n, p.ProtostarFraction))
	gm := p.GM()

	for i := s.ProtostarCount(); i < n; i++ {
		pos := sampler.RandomPointInSphere(src, p.MaxRadius)
		s.Pos[i] = pos
		s.Vel[i] = keplerVelocity(pos, gm, p.Thickness, src)
	}

	return s, nil
}

func keplerVelocity(pos r3.Vec, gm, thickness float64, src sampler.Source) r3.Vec {
	rho := math.Hypot(pos.X, pos.Y)
	if rho == 0 {
		return r3.Vec{}
	}

	v := KeplerSpeed(gm, rho)
	return r3.Vec{
		X: -pos.Y * v / rho,
		Y: pos.X * v / rho,
		Z: (2*src.Float64() - 1) * thickness * v,
	}
}

// KeplerSpeed is the circular orbit speed at radius r around a central
// mass with gravitational parameter gm.
func KeplerSpeed(gm, r float64) float64 {
	return math.Sqrt(gm / r)
}
