package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

const (
	DefaultDt          = 0.01
	DefaultMaxDuration = 600.0

	// MaxStepLimit caps MaxDuration/Dt so the step bound fits an int on
	// every platform.
	MaxStepLimit = math.MaxInt32
)

// Config holds the per-run simulation parameters. InitialAttitude is in
// radians and only applies to the rigid-body variant.
type Config struct {
	Dt              float64
	MaxDuration     float64
	InitialAttitude float64
}

func DefaultConfig() Config {
	return Config{
		Dt:          DefaultDt,
		MaxDuration: DefaultMaxDuration,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return &dynamo.ConfigError{Field: "sim.dt", Value: c.Dt, Reason: "must be positive and finite"}
	}
	if !(c.MaxDuration > 0) || math.IsInf(c.MaxDuration, 0) {
		return &dynamo.ConfigError{Field: "sim.max_duration", Value: c.MaxDuration, Reason: "must be positive and finite"}
	}
	if math.IsNaN(c.InitialAttitude) || math.IsInf(c.InitialAttitude, 0) {
		return &dynamo.ConfigError{Field: "sim.initial_attitude", Value: c.InitialAttitude, Reason: "must be finite"}
	}
	if math.Ceil(c.MaxDuration/c.Dt) > MaxStepLimit {
		return &dynamo.ConfigError{Field: "sim.max_duration", Value: c.MaxDuration,
			Reason: fmt.Sprintf("step bound max_duration/dt exceeds %d", MaxStepLimit)}
	}
	return nil
}

// MaxSteps is the integration step bound derived from MaxDuration. It is
// only meaningful for a Config that passes Validate.
func (c Config) MaxSteps() int {
	return int(math.Ceil(c.MaxDuration / c.Dt))
}

type Result struct {
	Variant    dynamo.Variant
	Integrator string
	Phase      dynamo.Phase
	Trajectory *dynamo.Trajectory
	Events     analysis.Events
	Metrics    map[string]float64
	Steps      int
}
