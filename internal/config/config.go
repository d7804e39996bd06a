package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"gopkg.in/yaml.v3"
)

const (
	DefaultVariant     = "point-mass"
	DefaultIntegrator  = "semi-implicit"
	DefaultDt          = 0.01
	DefaultMaxDuration = 600.0
)

// Config is the on-disk description of one run. Angles are in degrees.
type Config struct {
	Variant            string            `yaml:"variant"`
	Integrator         string            `yaml:"integrator"`
	Dt                 float64           `yaml:"dt"`
	MaxDuration        float64           `yaml:"max_duration"`
	InitialAttitudeDeg float64           `yaml:"initial_attitude_deg"`
	Environment        EnvironmentConfig `yaml:"environment"`
	Engine             EngineConfig      `yaml:"engine"`
	Aero               AeroConfig        `yaml:"aero"`
}

type EnvironmentConfig struct {
	Gravity    float64 `yaml:"gravity"`
	AirDensity float64 `yaml:"air_density"`
}

type EngineConfig struct {
	PropellantMass float64 `yaml:"propellant_mass"`
	BurnTime       float64 `yaml:"burn_time"`
	AvgThrust      float64 `yaml:"avg_thrust"`
	InitialMass    float64 `yaml:"initial_mass"`
}

type AeroConfig struct {
	Diameter  float64 `yaml:"diameter"`
	DragCoeff float64 `yaml:"drag_coeff"`
	CGToCP    float64 `yaml:"cg_to_cp"`
	Inertia   float64 `yaml:"inertia"`
}

// DefaultConfig is an Estes C6 class vehicle flown without drag.
func DefaultConfig() *Config {
	return &Config{
		Variant:     DefaultVariant,
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		MaxDuration: DefaultMaxDuration,
		Environment: EnvironmentConfig{Gravity: 9.81, AirDensity: 1.225},
		Engine: EngineConfig{
			PropellantMass: 0.024,
			BurnTime:       1.9,
			AvgThrust:      5.0,
			InitialMass:    0.095,
		},
		Aero: AeroConfig{
			Diameter:  0.05,
			DragCoeff: 0.55,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy. Config holds only values, so a struct copy suffices.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

func (c *Config) ParsedVariant() (dynamo.Variant, error) {
	return dynamo.ParseVariant(c.Variant)
}

// BuildEngine validates and returns the engine profile.
func (c *Config) BuildEngine() (flight.Engine, error) {
	e := c.Engine
	return flight.NewEngine(e.PropellantMass, e.BurnTime, e.AvgThrust, e.InitialMass)
}

// BuildAero validates the aerodynamic profile. Stability parameters are
// only checked for the rigid-body variant.
func (c *Config) BuildAero(variant dynamo.Variant) (flight.Aero, error) {
	a, err := flight.NewAero(c.Aero.Diameter, c.Aero.DragCoeff)
	if err != nil {
		return flight.Aero{}, err
	}
	if variant.HasRotation() {
		return a.WithStability(c.Aero.CGToCP, c.Aero.Inertia)
	}
	return a, nil
}

func (c *Config) BuildEnvironment() (flight.Environment, error) {
	env := flight.Environment{Gravity: c.Environment.Gravity, AirDensity: c.Environment.AirDensity}
	if err := env.Validate(); err != nil {
		return flight.Environment{}, err
	}
	return env, nil
}

var presets = map[string]*Config{
	"estes-c6": DefaultConfig(),
	"estes-c6-drag": func() *Config {
		c := DefaultConfig()
		c.Variant = "drag"
		return c
	}(),
	"mid-power-2d": {
		Variant:            "rigid-body",
		Integrator:         DefaultIntegrator,
		Dt:                 DefaultDt,
		MaxDuration:        DefaultMaxDuration,
		InitialAttitudeDeg: 2,
		Environment:        EnvironmentConfig{Gravity: 9.81, AirDensity: 1.225},
		Engine: EngineConfig{
			PropellantMass: 0.0985,
			BurnTime:       2.5,
			AvgThrust:      78.0,
			InitialMass:    0.931,
		},
		Aero: AeroConfig{
			Diameter:  0.09,
			DragCoeff: 0.58,
			CGToCP:    0.1005,
			Inertia:   0.22,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
