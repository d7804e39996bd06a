package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

func TestSemiImplicitEulerUsesUpdatedVelocity(t *testing.T) {
	integ := NewSemiImplicitEuler()
	s := dynamo.State{}
	d := dynamo.Derivatives{Acc: mgl64.Vec2{1, 2}, AngAcc: 3}
	dt := 0.1

	integ.Step(&s, d, dt)

	if math.Abs(s.Vel.Y()-0.2) > 1e-15 || math.Abs(s.Pos.Y()-0.02) > 1e-15 {
		t.Errorf("vertical step = pos %v vel %v, want pos 0.02 vel 0.2", s.Pos.Y(), s.Vel.Y())
	}
	if math.Abs(s.Pos.X()-0.01) > 1e-15 {
		t.Errorf("horizontal position = %v, want 0.01", s.Pos.X())
	}
	if math.Abs(s.Omega-0.3) > 1e-15 || math.Abs(s.Theta-0.03) > 1e-15 {
		t.Errorf("angular step = theta %v omega %v, want 0.03 0.3", s.Theta, s.Omega)
	}
}

func TestEulerUsesPreviousVelocity(t *testing.T) {
	integ := NewEuler()
	s := dynamo.State{}
	d := dynamo.Derivatives{Acc: mgl64.Vec2{0, 2}, AngAcc: 3}

	integ.Step(&s, d, 0.1)

	if s.Pos.Y() != 0 || s.Theta != 0 {
		t.Errorf("explicit Euler moved position on first step: pos %v theta %v", s.Pos.Y(), s.Theta)
	}
	if math.Abs(s.Vel.Y()-0.2) > 1e-15 {
		t.Errorf("velocity = %v, want 0.2", s.Vel.Y())
	}
}

// A harmonic oscillator integrated with the semi-implicit scheme keeps its
// energy bounded while explicit Euler gains energy every step.
func TestEnergyBehaviour(t *testing.T) {
	run := func(integ dynamo.Integrator) float64 {
		s := dynamo.State{Pos: mgl64.Vec2{0, 1}}
		dt := 0.01
		for i := 0; i < 10000; i++ {
			integ.Step(&s, dynamo.Derivatives{Acc: s.Pos.Mul(-1)}, dt)
		}
		return 0.5 * (s.Pos.Dot(s.Pos) + s.Vel.Dot(s.Vel))
	}

	semi := run(NewSemiImplicitEuler())
	explicit := run(NewEuler())

	if math.Abs(semi-0.5) > 0.01 {
		t.Errorf("semi-implicit energy drifted to %v", semi)
	}
	if explicit < 0.6 {
		t.Errorf("explicit Euler energy = %v, expected growth", explicit)
	}
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	integ := NewSemiImplicitEuler()
	s := dynamo.State{}
	d := dynamo.Derivatives{Acc: mgl64.Vec2{0.1, -9.81}, AngAcc: 0.01}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(&s, d, 0.01)
	}
}
