package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["semi-implicit"] = func() dynamo.Integrator { return integrators.NewSemiImplicitEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListVariants() []string {
	return []string{dynamo.PointMass.String(), dynamo.PointMassDrag.String(), dynamo.RigidBody.String()}
}

func (r *Registry) DefaultMetrics(variant dynamo.Variant, gravity, density float64) []dynamo.Metric {
	return metrics.Defaults(variant, gravity, density)
}
