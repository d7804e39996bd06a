package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the kinematic state of the vehicle. Theta is the attitude
// measured from vertical, positive toward +X.
type State struct {
	T     float64
	Pos   mgl64.Vec2
	Vel   mgl64.Vec2
	Theta float64
	Omega float64
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.T, s.Pos[0], s.Pos[1], s.Vel[0], s.Vel[1], s.Theta, s.Omega} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Altitude() float64 { return s.Pos.Y() }
func (s State) Speed() float64    { return s.Vel.Len() }

type Derivatives struct {
	Acc    mgl64.Vec2
	AngAcc float64
}

// Sample is one trajectory record: the state and everything the force
// model evaluated at it.
type Sample struct {
	State
	Derivatives
	Thrust        float64
	Mass          float64
	Drag          float64
	AngleOfAttack float64
}

type System interface {
	Derive(s State) Sample
}

// Integrator advances s in place by dt using the derivatives evaluated at s.
// Time is advanced by the caller.
type Integrator interface {
	Name() string
	Step(s *State, d Derivatives, dt float64)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Variant selects the fidelity level of the force model.
type Variant int

const (
	PointMass Variant = iota
	PointMassDrag
	RigidBody
)

var variantNames = map[Variant]string{
	PointMass:     "point-mass",
	PointMassDrag: "drag",
	RigidBody:     "rigid-body",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

func (v Variant) HasDrag() bool     { return v >= PointMassDrag }
func (v Variant) HasRotation() bool { return v == RigidBody }

func ParseVariant(name string) (Variant, error) {
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variant: %s (available: point-mass, drag, rigid-body)", name)
}

// Phase is the propagator state machine position.
type Phase int

const (
	Grounded Phase = iota
	Flying
	Landed
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Grounded:
		return "grounded"
	case Flying:
		return "flying"
	case Landed:
		return "landed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Trajectory is the append-only record of one run.
type Trajectory struct {
	samples []Sample
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	return &Trajectory{samples: make([]Sample, 0, capacity)}
}

func (t *Trajectory) Append(s Sample)   { t.samples = append(t.samples, s) }
func (t *Trajectory) Len() int          { return len(t.samples) }
func (t *Trajectory) Cap() int          { return cap(t.samples) }
func (t *Trajectory) At(i int) Sample   { return t.samples[i] }
func (t *Trajectory) Samples() []Sample { return t.samples }

func (t *Trajectory) Last() Sample {
	return t.samples[len(t.samples)-1]
}

// Column extracts one quantity from every sample.
func (t *Trajectory) Column(fn func(Sample) float64) []float64 {
	out := make([]float64, len(t.samples))
	for i, s := range t.samples {
		out[i] = fn(s)
	}
	return out
}

func (t *Trajectory) Times() []float64 {
	return t.Column(func(s Sample) float64 { return s.T })
}

func (t *Trajectory) Altitudes() []float64 {
	return t.Column(func(s Sample) float64 { return s.Pos.Y() })
}

func (t *Trajectory) VerticalVelocities() []float64 {
	return t.Column(func(s Sample) float64 { return s.Vel.Y() })
}

func (t *Trajectory) Speeds() []float64 {
	return t.Column(func(s Sample) float64 { return s.Vel.Len() })
}
