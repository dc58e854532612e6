package physics

import (
	"github.com/san-kum/protodisk/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns the total specific orbital energy of the disk group,
// kinetic plus potential per unit particle mass. Particles at the origin
// are skipped since their potential is undefined.
func Energy(v dynamo.View, gm float64) float64 {
	e := 0.0
	for i := v.ProtostarCount(); i < v.Len(); i++ {
		d := r3.Norm(v.Position(i))
		if d == 0 {
			continue
		}
		vel := v.Velocity(i)
		e += 0.5*r3.Dot(vel, vel) - gm/d
	}
	return e
}

// AngularMomentum returns the total specific angular momentum of the disk
// group. Central gravity conserves it exactly.
func AngularMomentum(v dynamo.View) r3.Vec {
	var l r3.Vec
	for i := v.ProtostarCount(); i < v.Len(); i++ {
		l = r3.Add(l, r3.Cross(v.Position(i), v.Velocity(i)))
	}
	return l
}

// SpecificEnergy is the orbital energy per unit mass of a single particle.
func SpecificEnergy(pos, vel r3.Vec, gm float64) float64 {
	d := r3.Norm(pos)
	if d == 0 {
		return 0.5 * r3.Dot(vel, vel)
	}
	return 0.5*r3.Dot(vel, vel) - gm/d
}
