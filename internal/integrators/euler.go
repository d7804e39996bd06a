package integrators

import "github.com/san-kum/rocketsim/internal/dynamo"

// SemiImplicitEuler updates velocity first and then advances position with
// the updated velocity. The same ordering applies to the angular terms.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "semi-implicit" }

func (e *SemiImplicitEuler) Step(s *dynamo.State, d dynamo.Derivatives, dt float64) {
	s.Vel = s.Vel.Add(d.Acc.Mul(dt))
	s.Pos = s.Pos.Add(s.Vel.Mul(dt))

	s.Omega += d.AngAcc * dt
	s.Theta += s.Omega * dt
}

// Euler is the explicit forward Euler scheme, kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s *dynamo.State, d dynamo.Derivatives, dt float64) {
	s.Pos = s.Pos.Add(s.Vel.Mul(dt))
	s.Vel = s.Vel.Add(d.Acc.Mul(dt))

	s.Theta += s.Omega * dt
	s.Omega += d.AngAcc * dt
}
