// Package physics turns a vehicle state into forces and torques.
//
// [Rocket] implements [dynamo.System] for all three fidelity levels. Thrust
// acts along the body axis, gravity is vertical, and quadratic drag opposes
// the velocity vector. The rigid-body variant adds the restoring torque
//
//	τ = -D · d · sin(α)
//
// where D is the drag magnitude, d the CG-to-CP distance and α the angle of
// attack. A positive d drives α toward zero.
//
// Setting the drag coefficient or the air density to zero reduces the drag
// and rigid-body variants to the point-mass model without special cases.
package physics
