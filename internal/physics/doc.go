// Package physics builds protoplanetary disk initial conditions and
// computes conserved quantities of the central-gravity problem.
//
//   - [Generate]: protostar group at the origin plus a Keplerian disk
//     sampled uniformly in a ball
//   - [KeplerSpeed]: circular orbit speed sqrt(GM/r)
//   - [Energy], [AngularMomentum]: diagnostics for integrator drift
//
// # Energy Conservation
//
// The central-gravity problem is Hamiltonian. Monitor drift with [Energy]:
//
//	e0 := physics.Energy(state.View(), params.GM())
//	stepper.Tick()
//	drift := math.Abs(physics.Energy(state.View(), params.GM())-e0) / math.Abs(e0)
package physics
