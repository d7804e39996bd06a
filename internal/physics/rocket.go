package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
)

// MinSpeed is the speed below which drag has no defined direction and is
// taken as zero.
const MinSpeed = 1e-6

type Rocket struct {
	Engine  flight.Engine
	Aero    flight.Aero
	Env     flight.Environment
	Variant dynamo.Variant
}

func NewRocket(engine flight.Engine, aero flight.Aero, env flight.Environment, variant dynamo.Variant) *Rocket {
	return &Rocket{Engine: engine, Aero: aero, Env: env, Variant: variant}
}

// Derive sums thrust, gravity and drag into a linear acceleration and, for
// the rigid-body variant, the restoring torque into an angular acceleration.
func (r *Rocket) Derive(s dynamo.State) dynamo.Sample {
	thrust, mass := r.Engine.ThrustAndMass(s.T)

	sin, cos := math.Sincos(s.Theta)
	fx := thrust * sin
	fy := thrust*cos - mass*r.Env.Gravity

	var drag float64
	if r.Variant.HasDrag() {
		drag = DragMagnitude(r.Env.AirDensity, s.Vel.Len(), r.Aero.DragCoeff, r.Aero.Area)
		df := DragForce(s.Vel, drag)
		fx += df.X()
		fy += df.Y()
	}

	out := dynamo.Sample{
		State:  s,
		Thrust: thrust,
		Mass:   mass,
		Drag:   drag,
	}
	out.Acc = mgl64.Vec2{fx / mass, fy / mass}

	if r.Variant.HasRotation() {
		aoa := AngleOfAttack(s.Theta, s.Vel)
		out.AngleOfAttack = aoa
		out.AngAcc = RestoringTorque(drag, r.Aero.CGToCP, aoa) / r.Aero.Inertia
	}
	return out
}

// DragMagnitude is the quadratic drag law 0.5·ρ·v²·Cd·A.
func DragMagnitude(density, speed, dragCoeff, area float64) float64 {
	return 0.5 * density * speed * speed * dragCoeff * area
}

// DragForce points opposite vel with the given magnitude. It is zero when
// the speed is below MinSpeed.
func DragForce(vel mgl64.Vec2, magnitude float64) mgl64.Vec2 {
	speed := vel.Len()
	if speed < MinSpeed {
		return mgl64.Vec2{}
	}
	return vel.Mul(-magnitude / speed)
}

// FlightPathAngle is the angle of vel from vertical, positive toward +X.
func FlightPathAngle(vel mgl64.Vec2) float64 {
	return math.Atan2(vel.X(), vel.Y())
}

// AngleOfAttack is the attitude minus the flight path angle, wrapped to (-π, π].
func AngleOfAttack(theta float64, vel mgl64.Vec2) float64 {
	return WrapAngle(theta - FlightPathAngle(vel))
}

// RestoringTorque is -D·d·sin(α). A positive CG-to-CP distance drives the
// angle of attack toward zero.
func RestoringTorque(drag, cgToCP, aoa float64) float64 {
	return -drag * cgToCP * math.Sin(aoa)
}

func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Energy is the mechanical energy of the vehicle at its current mass.
func (r *Rocket) Energy(s dynamo.Sample) float64 {
	ke := 0.5 * s.Mass * s.Vel.Dot(s.Vel)
	keRot := 0.5 * r.Aero.Inertia * s.Omega * s.Omega
	pe := s.Mass * r.Env.Gravity * s.Pos.Y()
	return ke + keRot + pe
}

// CoastEnergyDrift is the relative change in mechanical energy between the
// first unpowered sample and the last sample. Mass is constant while
// coasting, so without drag any drift is integration error.
func (r *Rocket) CoastEnergyDrift(traj *dynamo.Trajectory) float64 {
	first := -1
	for i, s := range traj.Samples() {
		if !r.Engine.Burning(s.T) {
			first = i
			break
		}
	}
	if first < 0 {
		return 0
	}
	e0 := r.Energy(traj.At(first))
	if e0 == 0 {
		return 0
	}
	return (r.Energy(traj.Last()) - e0) / math.Abs(e0)
}
