package experiment

import (
	"math"

	"github.com/go-kit/log"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/sim"
)

// Experiment is a propagator built from a validated config, ready to run.
type Experiment struct {
	cfg        *config.Config
	propagator *sim.Propagator
	simCfg     sim.Config
}

// Build validates cfg and assembles the rocket, integrator and metrics.
func Build(reg *Registry, cfg *config.Config) (*Experiment, error) {
	variant, err := cfg.ParsedVariant()
	if err != nil {
		return nil, err
	}
	engine, err := cfg.BuildEngine()
	if err != nil {
		return nil, err
	}
	aero, err := cfg.BuildAero(variant)
	if err != nil {
		return nil, err
	}
	env, err := cfg.BuildEnvironment()
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	simCfg := sim.Config{
		Dt:              cfg.Dt,
		MaxDuration:     cfg.MaxDuration,
		InitialAttitude: cfg.InitialAttitudeDeg * math.Pi / 180,
	}
	if err := simCfg.Validate(); err != nil {
		return nil, err
	}

	p := sim.New(physics.NewRocket(engine, aero, env, variant), integ)
	for _, m := range reg.DefaultMetrics(variant, env.Gravity, env.AirDensity) {
		p.AddMetric(m)
	}

	return &Experiment{cfg: cfg, propagator: p, simCfg: simCfg}, nil
}

func (e *Experiment) SetLogger(logger log.Logger) { e.propagator.SetLogger(logger) }

func (e *Experiment) Run() (*sim.Result, error) {
	return e.propagator.Run(e.simCfg)
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) SimConfig() sim.Config       { return e.simCfg }
func (e *Experiment) Propagator() *sim.Propagator { return e.propagator }

// Job wraps the experiment for sim.Sweep.
func (e *Experiment) Job(name string) sim.Job {
	return sim.Job{Name: name, Propagator: e.propagator, Config: e.simCfg}
}
