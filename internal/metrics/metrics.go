package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// MaxAngleOfAttack tracks the largest |α| in degrees during ascent. Once a
// sample is descending the vehicle weathervanes into the fall, so later
// samples are ignored until Reset.
type MaxAngleOfAttack struct {
	name       string
	max        float64
	descending bool
}

func NewMaxAngleOfAttack() *MaxAngleOfAttack {
	return &MaxAngleOfAttack{name: "max_aoa_deg"}
}

func (m *MaxAngleOfAttack) Name() string { return m.name }

func (m *MaxAngleOfAttack) Observe(s dynamo.Sample) {
	if m.descending || s.Vel.Y() < 0 {
		m.descending = true
		return
	}
	m.max = math.Max(m.max, math.Abs(s.AngleOfAttack)*180/math.Pi)
}

func (m *MaxAngleOfAttack) Value() float64 { return m.max }

func (m *MaxAngleOfAttack) Reset() {
	m.max = 0
	m.descending = false
}

// MaxDynamicPressure tracks max q = 0.5·ρ·v² in pascals.
type MaxDynamicPressure struct {
	name    string
	density float64
	max     float64
}

func NewMaxDynamicPressure(density float64) *MaxDynamicPressure {
	return &MaxDynamicPressure{name: "max_q_pa", density: density}
}

func (m *MaxDynamicPressure) Name() string { return m.name }

func (m *MaxDynamicPressure) Observe(s dynamo.Sample) {
	v := s.Vel.Len()
	m.max = math.Max(m.max, 0.5*m.density*v*v)
}

func (m *MaxDynamicPressure) Value() float64 { return m.max }
func (m *MaxDynamicPressure) Reset()         { m.max = 0 }

// MaxAcceleration tracks the peak acceleration magnitude in units of g.
type MaxAcceleration struct {
	name    string
	gravity float64
	max     float64
}

func NewMaxAcceleration(gravity float64) *MaxAcceleration {
	return &MaxAcceleration{name: "max_accel_g", gravity: gravity}
}

func (m *MaxAcceleration) Name() string { return m.name }

func (m *MaxAcceleration) Observe(s dynamo.Sample) {
	m.max = math.Max(m.max, s.Acc.Len()/m.gravity)
}

func (m *MaxAcceleration) Value() float64 { return m.max }
func (m *MaxAcceleration) Reset()         { m.max = 0 }

// Defaults returns the metrics that make sense for a variant.
func Defaults(variant dynamo.Variant, gravity, density float64) []dynamo.Metric {
	ms := []dynamo.Metric{NewMaxAcceleration(gravity)}
	if variant.HasDrag() {
		ms = append(ms, NewMaxDynamicPressure(density))
	}
	if variant.HasRotation() {
		ms = append(ms, NewMaxAngleOfAttack())
	}
	return ms
}
