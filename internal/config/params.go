package config

import "fmt"

var setters = map[string]func(c *Config, v float64){
	"dt":              func(c *Config, v float64) { c.Dt = v },
	"attitude":        func(c *Config, v float64) { c.InitialAttitudeDeg = v },
	"gravity":         func(c *Config, v float64) { c.Environment.Gravity = v },
	"density":         func(c *Config, v float64) { c.Environment.AirDensity = v },
	"propellant_mass": func(c *Config, v float64) { c.Engine.PropellantMass = v },
	"burn_time":       func(c *Config, v float64) { c.Engine.BurnTime = v },
	"thrust":          func(c *Config, v float64) { c.Engine.AvgThrust = v },
	"initial_mass":    func(c *Config, v float64) { c.Engine.InitialMass = v },
	"diameter":        func(c *Config, v float64) { c.Aero.Diameter = v },
	"drag_coeff":      func(c *Config, v float64) { c.Aero.DragCoeff = v },
	"cg_to_cp":        func(c *Config, v float64) { c.Aero.CGToCP = v },
	"inertia":         func(c *Config, v float64) { c.Aero.Inertia = v },
}

// ParamNames lists the numeric parameters accepted by SetParam.
var ParamNames = []string{
	"dt", "attitude", "gravity", "density",
	"propellant_mass", "burn_time", "thrust", "initial_mass",
	"diameter", "drag_coeff", "cg_to_cp", "inertia",
}

// SetParam assigns a numeric parameter by name. Values are not validated
// here; that happens when the config is built.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s %v", name, ParamNames)
	}
	set(c, v)
	return nil
}
