package sim

import (
	"bytes"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/physics"
)

var _ = Describe("Propagator", func() {
	Describe("point-mass flight without drag", func() {
		var res *Result

		BeforeEach(func() {
			res = scenarioA()
		})

		It("climbs strictly until after burnout", func() {
			traj := res.Trajectory
			for i := 1; i < traj.Len() && traj.At(i).T <= 1.9; i++ {
				Expect(traj.At(i).Pos.Y()).To(BeNumerically(">", traj.At(i-1).Pos.Y()), "t=%.2f", traj.At(i).T)
			}
			Expect(res.Events.Apogee.Time).To(BeNumerically(">", 1.9))
		})

		It("ends on the first sample below ground", func() {
			traj := res.Trajectory
			Expect(traj.Last().Pos.Y()).To(BeNumerically("<", 0))
			for i := 0; i < traj.Len()-1; i++ {
				Expect(traj.At(i).Pos.Y()).To(BeNumerically(">=", 0))
			}
			Expect(res.Events.GroundContact).To(Equal(traj.Last().T))
			Expect(res.Steps).To(Equal(traj.Len() - 1))
		})

		It("samples time on the fixed grid", func() {
			traj := res.Trajectory
			Expect(traj.At(0).T).To(BeZero())
			for i := 1; i < traj.Len(); i++ {
				Expect(traj.At(i).T - traj.At(i-1).T).To(BeNumerically("~", 0.01, 1e-9))
			}
		})

		It("reports burnout mass after the burn", func() {
			last := res.Trajectory.Last()
			Expect(last.Mass).To(BeNumerically("~", 0.071, 1e-12))
			Expect(last.Thrust).To(BeZero())
		})

		It("interpolates burnout between the bracketing samples", func() {
			traj := res.Trajectory
			i := 0
			for traj.At(i+1).T < 1.9 {
				i++
			}
			lo, hi := traj.At(i), traj.At(i+1)
			frac := (1.9 - lo.T) / (hi.T - lo.T)
			want := lo.Pos.Y() + frac*(hi.Pos.Y()-lo.Pos.Y())
			Expect(res.Events.Burnout.Altitude).To(BeNumerically("~", want, 1e-9))
			Expect(res.Events.Burnout.Velocity).To(BeNumerically(">", 0))
		})

		It("tracks signed vertical velocity as max speed", func() {
			Expect(res.Events.MaxSpeed).To(Equal(analysisMax(res.Trajectory.VerticalVelocities())))
		})

		It("never moves sideways", func() {
			for _, s := range res.Trajectory.Samples() {
				Expect(s.Pos.X()).To(BeZero())
				Expect(s.Theta).To(BeZero())
			}
		})
	})

	Describe("drag", func() {
		It("lowers apogee relative to the drag-free flight", func() {
			Expect(scenarioB().Events.Apogee.Altitude).To(BeNumerically("<", scenarioA().Events.Apogee.Altitude))
		})

		It("gives non-increasing apogee as the drag coefficient grows", func() {
			prev := math.Inf(1)
			for _, cd := range []float64{0, 0.1, 0.3, 0.55, 1.0, 2.0} {
				r := physics.NewRocket(estesEngine(), estesAero(cd), flight.StandardEnvironment(), dynamo.PointMassDrag)
				apogee := run(r, DefaultConfig()).Events.Apogee.Altitude
				Expect(apogee).To(BeNumerically("<=", prev), "cd=%v", cd)
				prev = apogee
			}
		})

		DescribeTable("degrades to the drag-free model",
			func(variant dynamo.Variant, cd, density float64) {
				env := flight.StandardEnvironment()
				env.AirDensity = density
				aero := estesAero(cd)
				if variant.HasRotation() {
					var err error
					aero, err = aero.WithStability(0.1, 0.01)
					Expect(err).NotTo(HaveOccurred())
				}

				want := scenarioA().Trajectory
				got := run(physics.NewRocket(estesEngine(), aero, env, variant), DefaultConfig()).Trajectory

				Expect(got.Len()).To(Equal(want.Len()))
				for i := 0; i < want.Len(); i++ {
					Expect(got.At(i).Pos.Y()).To(BeNumerically("~", want.At(i).Pos.Y(), 1e-9))
					Expect(got.At(i).Vel.Y()).To(BeNumerically("~", want.At(i).Vel.Y(), 1e-9))
					Expect(got.At(i).Acc.Y()).To(BeNumerically("~", want.At(i).Acc.Y(), 1e-9))
				}
			},
			Entry("drag variant, zero coefficient", dynamo.PointMassDrag, 0.0, 1.225),
			Entry("drag variant, vacuum", dynamo.PointMassDrag, 0.55, 0.0),
			Entry("rigid body, zero coefficient", dynamo.RigidBody, 0.0, 1.225),
		)
	})

	Describe("rigid-body stability", func() {
		It("keeps the attitude bounded during powered flight and ascent", func() {
			res := scenarioC(0.1005)
			for _, s := range res.Trajectory.Samples() {
				if s.T <= 2.5 {
					Expect(math.Abs(s.Theta)).To(BeNumerically("<", 3*2*deg), "t=%.2f", s.T)
				}
				if s.T <= res.Events.Apogee.Time {
					Expect(math.Abs(s.Theta)).To(BeNumerically("<", 8*2*deg), "t=%.2f", s.T)
				}
			}
		})

		It("damps angle of attack when CP is aft of CG and amplifies it otherwise", func() {
			stable := maxPoweredAoA(scenarioC(0.1005))
			unstable := maxPoweredAoA(scenarioC(-0.1005))

			Expect(stable).To(BeNumerically("<", 1))
			Expect(unstable).To(BeNumerically(">", 10))
		})

		It("reports resultant speed and downrange distance", func() {
			res := scenarioC(0.1005)
			Expect(res.Events.MaxSpeed).To(Equal(analysisMax(res.Trajectory.Speeds())))
			Expect(res.Events.Range).To(BeNumerically(">", 0))
		})
	})

	Describe("determinism", func() {
		It("produces identical trajectories for identical inputs", func() {
			a := scenarioC(0.1005)
			b := scenarioC(0.1005)
			Expect(b.Trajectory.Samples()).To(Equal(a.Trajectory.Samples()))
			Expect(b.Events).To(Equal(a.Events))
		})
	})

	Describe("termination guard", func() {
		It("aborts with ErrNotLanded when the vehicle never comes down", func() {
			e, err := flight.NewEngine(0.01, 1e6, 100, 1)
			Expect(err).NotTo(HaveOccurred())
			r := physics.NewRocket(e, flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass)

			cfg := DefaultConfig()
			cfg.MaxDuration = 5
			res, err := New(r, integrators.NewSemiImplicitEuler()).Run(cfg)

			Expect(errors.Is(err, dynamo.ErrNotLanded)).To(BeTrue())
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(cfg.MaxSteps()))

			Expect(res.Phase).To(Equal(dynamo.Aborted))
			Expect(res.Trajectory.Len()).To(Equal(cfg.MaxSteps() + 1))
			Expect(res.Trajectory.Cap()).To(Equal(cfg.MaxSteps() + 1))
		})

		It("aborts with ErrInvalidState when the state stops being finite", func() {
			env := flight.Environment{Gravity: math.Inf(1)}
			r := physics.NewRocket(estesEngine(), flight.Aero{}, env, dynamo.PointMass)

			res, err := New(r, integrators.NewSemiImplicitEuler()).Run(DefaultConfig())

			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrNotLanded)).To(BeFalse())
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(1))
			Expect(res.Phase).To(Equal(dynamo.Aborted))
			Expect(res.Trajectory.Len()).To(Equal(1))
		})

		It("sizes the buffer from the step bound when the estimate is not finite", func() {
			e := flight.Engine{PropellantMass: 0.024, BurnTime: 1.9, AvgThrust: math.Inf(1), InitialMass: 0.095}
			r := physics.NewRocket(e, flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass)

			cfg := DefaultConfig()
			cfg.MaxDuration = 1
			res, err := New(r, integrators.NewSemiImplicitEuler()).Run(cfg)

			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
			Expect(res.Trajectory.Cap()).To(Equal(cfg.MaxSteps() + 1))
		})

		It("lands immediately when thrust cannot lift the vehicle", func() {
			e, err := flight.NewEngine(0.01, 1, 0.5, 1)
			Expect(err).NotTo(HaveOccurred())
			res := run(physics.NewRocket(e, flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass), DefaultConfig())
			Expect(res.Trajectory.Len()).To(Equal(2))
		})
	})

	Describe("configuration", func() {
		DescribeTable("rejects invalid simulation parameters",
			func(cfg Config, field string) {
				_, err := New(midPowerRocket(0.1), integrators.NewSemiImplicitEuler()).Run(cfg)
				Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
				var cerr *dynamo.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).To(Equal(field))
			},
			Entry("zero dt", Config{Dt: 0, MaxDuration: 10}, "sim.dt"),
			Entry("negative dt", Config{Dt: -0.01, MaxDuration: 10}, "sim.dt"),
			Entry("zero max duration", Config{Dt: 0.01}, "sim.max_duration"),
			Entry("NaN dt", Config{Dt: math.NaN(), MaxDuration: 10}, "sim.dt"),
			Entry("infinite dt", Config{Dt: math.Inf(1), MaxDuration: 10}, "sim.dt"),
			Entry("NaN max duration", Config{Dt: 0.01, MaxDuration: math.NaN()}, "sim.max_duration"),
			Entry("infinite max duration", Config{Dt: 0.01, MaxDuration: math.Inf(1)}, "sim.max_duration"),
			Entry("step bound overflows int", Config{Dt: 1e-300, MaxDuration: 10}, "sim.max_duration"),
			Entry("step bound just over the limit", Config{Dt: 1, MaxDuration: MaxStepLimit + 1}, "sim.max_duration"),
			Entry("NaN attitude", Config{Dt: 0.01, MaxDuration: 10, InitialAttitude: math.NaN()}, "sim.initial_attitude"),
		)

		It("ignores the initial attitude for point-mass variants", func() {
			cfg := DefaultConfig()
			cfg.InitialAttitude = 10 * deg
			r := physics.NewRocket(estesEngine(), flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass)
			res := run(r, cfg)
			Expect(res.Trajectory.At(0).Theta).To(BeZero())
		})
	})

	Describe("logging", func() {
		It("tags records with the sim subsystem", func() {
			var buf bytes.Buffer
			logger, err := logging.New(&buf, "info")
			Expect(err).NotTo(HaveOccurred())

			p := New(physics.NewRocket(estesEngine(), flight.Aero{}, flight.StandardEnvironment(), dynamo.PointMass),
				integrators.NewSemiImplicitEuler())
			p.SetLogger(logger)
			_, err = p.Run(DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(buf.String()).To(ContainSubstring("subsys=sim"))
			Expect(buf.String()).To(ContainSubstring("msg=landed"))
		})
	})

	Describe("metrics", func() {
		It("collects attached metrics into the result", func() {
			p := New(midPowerRocket(0.1005), integrators.NewSemiImplicitEuler())
			for _, m := range metrics.Defaults(dynamo.RigidBody, 9.81, 1.225) {
				p.AddMetric(m)
			}
			cfg := DefaultConfig()
			cfg.InitialAttitude = 2 * deg
			res, err := p.Run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKey("max_aoa_deg"))
			Expect(res.Metrics).To(HaveKey("max_q_pa"))
			Expect(res.Metrics["max_accel_g"]).To(BeNumerically(">", 5))

			ascent := 0.0
			for _, s := range res.Trajectory.Samples()[:res.Events.Apogee.Index+1] {
				ascent = math.Max(ascent, math.Abs(s.AngleOfAttack)*180/math.Pi)
			}
			Expect(res.Metrics["max_aoa_deg"]).To(BeNumerically("~", ascent, 1e-9))
		})
	})
})

func maxPoweredAoA(res *Result) float64 {
	aoa := analysis.AngleOfAttackDeg(res.Trajectory)
	max := 0.0
	for i, s := range res.Trajectory.Samples() {
		if s.T > 2.5 || s.Vel.Len() < 1 {
			continue
		}
		max = math.Max(max, math.Abs(aoa[i]))
	}
	return max
}

func analysisMax(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}
