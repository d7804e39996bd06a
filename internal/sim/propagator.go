package sim

import (
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/physics"
)

// Propagator advances a rocket from the pad until it comes back below
// ground. Metrics attached with AddMetric are stateful, so a Propagator
// must not run concurrently with itself.
type Propagator struct {
	rocket     *physics.Rocket
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	logger     log.Logger
}

func New(rocket *physics.Rocket, integrator dynamo.Integrator) *Propagator {
	return &Propagator{
		rocket:     rocket,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		logger:     log.NewNopLogger(),
	}
}

func (p *Propagator) AddMetric(m dynamo.Metric) { p.metrics = append(p.metrics, m) }
func (p *Propagator) Rocket() *physics.Rocket   { return p.rocket }

func (p *Propagator) SetLogger(logger log.Logger) {
	p.logger = logging.Subsystem(logger, "sim")
}

// Run propagates until the first sample with negative altitude, which is
// recorded. If the step bound is reached first, the partial result is
// returned together with a *dynamo.SimulationError wrapping
// dynamo.ErrNotLanded.
func (p *Propagator) Run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	variant := p.rocket.Variant
	maxSteps := cfg.MaxSteps()
	traj := dynamo.NewTrajectory(p.expectedSamples(cfg.Dt, maxSteps))

	for _, m := range p.metrics {
		m.Reset()
	}

	var s dynamo.State
	if variant.HasRotation() {
		s.Theta = cfg.InitialAttitude
	}

	level.Debug(p.logger).Log("msg", "run start", "variant", variant, "integrator", p.integrator.Name(),
		"dt", cfg.Dt, "max_steps", maxSteps, "capacity", traj.Cap())

	result := &Result{
		Variant:    variant,
		Integrator: p.integrator.Name(),
		Phase:      dynamo.Grounded,
		Trajectory: traj,
		Metrics:    make(map[string]float64),
	}

	sample := p.rocket.Derive(s)
	p.record(traj, sample)
	result.Phase = dynamo.Flying

	burning := p.rocket.Engine.Burning(s.T)
	for step := 1; result.Phase == dynamo.Flying; step++ {
		if step > maxSteps {
			result.Phase = dynamo.Aborted
			result.Steps = step - 1
			p.collectMetrics(result)
			level.Warn(p.logger).Log("msg", "step bound reached", "steps", maxSteps, "t", s.T, "altitude", s.Altitude())
			return result, &dynamo.SimulationError{Step: step - 1, Time: s.T, State: s, Wrapped: dynamo.ErrNotLanded}
		}

		p.integrator.Step(&s, sample.Derivatives, cfg.Dt)
		s.T += cfg.Dt

		if !s.IsValid() {
			result.Phase = dynamo.Aborted
			result.Steps = step - 1
			return result, &dynamo.SimulationError{Step: step, Time: s.T, State: s, Wrapped: dynamo.ErrInvalidState}
		}

		sample = p.rocket.Derive(s)
		p.record(traj, sample)
		result.Steps = step

		if burning && !p.rocket.Engine.Burning(s.T) {
			burning = false
			level.Debug(p.logger).Log("msg", "burnout sample", "t", s.T, "altitude", s.Altitude(), "mass", sample.Mass)
		}
		if s.Altitude() < 0 {
			result.Phase = dynamo.Landed
		}
	}

	p.collectMetrics(result)

	events, err := analysis.Extract(traj, p.rocket.Engine.BurnTime, variant)
	if err != nil {
		return result, err
	}
	result.Events = events

	level.Info(p.logger).Log("msg", "landed", "variant", variant, "steps", result.Steps,
		"apogee", events.Apogee.Altitude, "apogee_t", events.Apogee.Time, "impact_t", events.GroundContact)
	return result, nil
}

func (p *Propagator) record(traj *dynamo.Trajectory, s dynamo.Sample) {
	traj.Append(s)
	for _, m := range p.metrics {
		m.Observe(s)
	}
}

func (p *Propagator) collectMetrics(result *Result) {
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// expectedSamples sizes the trajectory buffer from a drag-free estimate of
// the flight time, capped by the step bound.
func (p *Propagator) expectedSamples(dt float64, maxSteps int) int {
	est := EstimateFlightTime(p.rocket.Engine.AvgThrust, p.rocket.Engine.InitialMass,
		p.rocket.Engine.PropellantMass, p.rocket.Engine.BurnTime, p.rocket.Env.Gravity)
	n := math.Floor(est/dt) + 2
	if !(n < float64(maxSteps+1)) {
		return maxSteps + 1
	}
	return int(n)
}

// EstimateFlightTime returns the vacuum flight time of a vertical launch
// with constant thrust and the mean burn mass. It returns 0 when thrust
// cannot lift the vehicle.
func EstimateFlightTime(thrust, initialMass, propellantMass, burnTime, gravity float64) float64 {
	mean := initialMass - propellantMass/2
	a := thrust/mean - gravity
	if a <= 0 || gravity <= 0 {
		return 0
	}
	vb := a * burnTime
	hb := 0.5 * a * burnTime * burnTime
	apogee := hb + vb*vb/(2*gravity)
	return burnTime + vb/gravity + math.Sqrt(2*apogee/gravity)
}
