// Package dynamo provides the core simulation primitives for the disk.
//
// The package defines the particle buffers and the interfaces the rest of
// the simulation is built from:
//
//   - [ParticleState]: column-wise positions and velocities plus the fixed
//     protostar/disk partition
//   - [View]: read-only access handed to render collaborators
//   - [Params]: physical constants of a run
//   - [Integrator]: advances a state by one timestep in place
//   - [Metric], [Observer]: per-step consumers
//
// # Example
//
//	state, _ := physics.Generate(30000, dynamo.DefaultParams(), rng)
//	stepper, _ := sim.New(state, params, integrators.NewSymplecticEuler())
//	stepper.Tick()
//
// # Thread Safety
//
// A ParticleState is owned by a single stepper. Integrators may split one
// step across goroutines with [ParallelFor]; each goroutine touches only
// its own index range and the step returns after all of them finish.
package dynamo
