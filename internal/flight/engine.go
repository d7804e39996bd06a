// Package flight holds the immutable vehicle and environment profiles.
//
// An [Engine] answers thrust and mass as a pure function of elapsed time
// using a constant average thrust over the burn. This approximates the
// total impulse of a real motor without reproducing its thrust curve.
package flight

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

type Engine struct {
	PropellantMass float64
	BurnTime       float64
	AvgThrust      float64
	InitialMass    float64
}

func NewEngine(propellantMass, burnTime, avgThrust, initialMass float64) (Engine, error) {
	e := Engine{
		PropellantMass: propellantMass,
		BurnTime:       burnTime,
		AvgThrust:      avgThrust,
		InitialMass:    initialMass,
	}
	if err := e.Validate(); err != nil {
		return Engine{}, err
	}
	return e, nil
}

func (e Engine) Validate() error {
	if err := finite(
		field{"engine.propellant_mass", e.PropellantMass},
		field{"engine.burn_time", e.BurnTime},
		field{"engine.thrust", e.AvgThrust},
		field{"engine.initial_mass", e.InitialMass},
	); err != nil {
		return err
	}
	switch {
	case e.PropellantMass <= 0:
		return &dynamo.ConfigError{Field: "engine.propellant_mass", Value: e.PropellantMass, Reason: "must be positive"}
	case e.BurnTime <= 0:
		return &dynamo.ConfigError{Field: "engine.burn_time", Value: e.BurnTime, Reason: "must be positive"}
	case e.AvgThrust < 0:
		return &dynamo.ConfigError{Field: "engine.thrust", Value: e.AvgThrust, Reason: "must not be negative"}
	case e.InitialMass <= 0:
		return &dynamo.ConfigError{Field: "engine.initial_mass", Value: e.InitialMass, Reason: "must be positive"}
	case e.PropellantMass >= e.InitialMass:
		return &dynamo.ConfigError{Field: "engine.propellant_mass", Value: e.PropellantMass, Reason: "must be less than initial mass"}
	}
	return nil
}

type field struct {
	name  string
	value float64
}

// finite rejects the first NaN or infinite value. The range checks that
// follow rely on ordered comparisons, which NaN never satisfies.
func finite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &dynamo.ConfigError{Field: f.name, Value: f.value, Reason: "must be finite"}
		}
	}
	return nil
}

func (e Engine) MassFlowRate() float64 { return e.PropellantMass / e.BurnTime }
func (e Engine) BurnoutMass() float64  { return e.InitialMass - e.PropellantMass }
func (e Engine) TotalImpulse() float64 { return e.AvgThrust * e.BurnTime }
func (e Engine) Burning(t float64) bool {
	return t < e.BurnTime
}

// ThrustAndMass returns the thrust (N) and vehicle mass (kg) at time t.
// Mass is clamped to the burnout mass once the burn has ended.
func (e Engine) ThrustAndMass(t float64) (thrust, mass float64) {
	if e.Burning(t) {
		return e.AvgThrust, e.InitialMass - e.MassFlowRate()*t
	}
	return 0, e.BurnoutMass()
}
