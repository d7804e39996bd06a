package flight

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Aero is the aerodynamic profile. CGToCP is positive when the center of
// pressure sits aft of the center of gravity, which makes the vehicle
// passively stable.
type Aero struct {
	Area      float64
	DragCoeff float64
	CGToCP    float64
	Inertia   float64
}

func NewAero(diameter, dragCoeff float64) (Aero, error) {
	if err := finite(field{"aero.diameter", diameter}, field{"aero.drag_coeff", dragCoeff}); err != nil {
		return Aero{}, err
	}
	if diameter <= 0 {
		return Aero{}, &dynamo.ConfigError{Field: "aero.diameter", Value: diameter, Reason: "must be positive"}
	}
	if dragCoeff < 0 {
		return Aero{}, &dynamo.ConfigError{Field: "aero.drag_coeff", Value: dragCoeff, Reason: "must not be negative"}
	}
	r := diameter / 2
	return Aero{Area: math.Pi * r * r, DragCoeff: dragCoeff}, nil
}

// WithStability adds the rotational parameters needed by the rigid-body model.
func (a Aero) WithStability(cgToCP, inertia float64) (Aero, error) {
	if err := finite(field{"aero.cg_to_cp", cgToCP}, field{"aero.inertia", inertia}); err != nil {
		return Aero{}, err
	}
	if inertia <= 0 {
		return Aero{}, &dynamo.ConfigError{Field: "aero.inertia", Value: inertia, Reason: "must be positive"}
	}
	a.CGToCP = cgToCP
	a.Inertia = inertia
	return a, nil
}

// Environment carries the physical constants of one run.
type Environment struct {
	Gravity    float64
	AirDensity float64
}

func StandardEnvironment() Environment {
	return Environment{Gravity: 9.81, AirDensity: 1.225}
}

func (e Environment) Validate() error {
	if err := finite(field{"environment.gravity", e.Gravity}, field{"environment.air_density", e.AirDensity}); err != nil {
		return err
	}
	if e.Gravity <= 0 {
		return &dynamo.ConfigError{Field: "environment.gravity", Value: e.Gravity, Reason: "must be positive"}
	}
	if e.AirDensity < 0 {
		return &dynamo.ConfigError{Field: "environment.air_density", Value: e.AirDensity, Reason: "must not be negative"}
	}
	return nil
}
