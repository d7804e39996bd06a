package sim

import (
	"math"

	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/physics"
)

const deg = math.Pi / 180

func estesEngine() flight.Engine {
	e, err := flight.NewEngine(0.024, 1.9, 5.0, 0.095)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func estesAero(cd float64) flight.Aero {
	a, err := flight.NewAero(0.05, cd)
	Expect(err).NotTo(HaveOccurred())
	return a
}

func midPowerRocket(cgToCP float64) *physics.Rocket {
	e, err := flight.NewEngine(0.0985, 2.5, 78.0, 0.931)
	Expect(err).NotTo(HaveOccurred())
	a, err := flight.NewAero(0.09, 0.58)
	Expect(err).NotTo(HaveOccurred())
	a, err = a.WithStability(cgToCP, 0.22)
	Expect(err).NotTo(HaveOccurred())
	return physics.NewRocket(e, a, flight.StandardEnvironment(), dynamo.RigidBody)
}

func run(r *physics.Rocket, cfg Config) *Result {
	res, err := New(r, integrators.NewSemiImplicitEuler()).Run(cfg)
	Expect(err).NotTo(HaveOccurred())
	Expect(res.Phase).To(Equal(dynamo.Landed))
	return res
}

func scenarioA() *Result {
	return run(physics.NewRocket(estesEngine(), flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass), DefaultConfig())
}

func scenarioB() *Result {
	return run(physics.NewRocket(estesEngine(), estesAero(0.55), flight.StandardEnvironment(), dynamo.PointMassDrag), DefaultConfig())
}

func scenarioC(cgToCP float64) *Result {
	cfg := DefaultConfig()
	cfg.InitialAttitude = 2 * deg
	return run(midPowerRocket(cgToCP), cfg)
}
