// Package analysis extracts flight events from a completed trajectory.
//
// Extraction is post-hoc: it never touches the propagator and works the
// same on a live result or on a trajectory loaded from disk.
//
//   - [Extract]: burnout (interpolated), apogee, max speed, ground contact
//   - [AngleOfAttackDeg]: angle-of-attack series for stability plots
//   - [DominantFrequency]: weathercocking oscillation frequency
//
// # Example
//
//	ev, err := analysis.Extract(result.Trajectory, engine.BurnTime, dynamo.RigidBody)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("apogee %.1f m at %.2f s\n", ev.Apogee.Altitude, ev.Apogee.Time)
package analysis
