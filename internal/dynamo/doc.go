// Package dynamo provides the core value types shared by the rocket
// flight simulation:
//
//   - [State]: kinematic state (time, position, velocity, attitude)
//   - [Derivatives]: linear and angular acceleration at a state
//   - [Sample]: a recorded state plus the forces evaluated at it
//   - [Trajectory]: append-only buffer of samples produced by one run
//   - [System]: force/torque model (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric]: per-sample observer
//
// Position and velocity are two-dimensional: X is horizontal (downrange)
// and Y is altitude. The point-mass variants keep X and the attitude at
// zero, so a single state type covers all three fidelity levels.
//
// # Example
//
//	rocket := physics.NewRocket(engine, aero, env, dynamo.RigidBody)
//	p := sim.New(rocket, integrators.NewSemiImplicitEuler())
//	result, err := p.Run(sim.DefaultConfig())
//
// # Thread Safety
//
// A [Trajectory] is owned by the run that produced it and is not safe for
// concurrent mutation. Profiles and environments are plain values and can
// be shared freely.
package dynamo
