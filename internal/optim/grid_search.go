// Package optim searches design parameters for a flight objective.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/experiment"
	"github.com/san-kum/rocketsim/internal/sim"
	"golang.org/x/sync/errgroup"
)

// Axis is one parameter and the values to try for it.
type Axis struct {
	Name   string
	Values []float64
}

// Objective scores a finished run; lower is better.
type Objective func(*sim.Result) float64

// TargetApogee scores the distance from a wanted apogee altitude.
func TargetApogee(altitude float64) Objective {
	return func(r *sim.Result) float64 { return math.Abs(r.Events.Apogee.Altitude - altitude) }
}

// MinimizeMetric scores a collected metric, such as max_aoa_deg.
func MinimizeMetric(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type Candidate struct {
	Params map[string]float64
	Score  float64
	Result *sim.Result
}

type GridSearch struct {
	axes    []Axis
	workers int
}

func NewGridSearch(axes []Axis, workers int) *GridSearch {
	return &GridSearch{axes: axes, workers: workers}
}

// Points enumerates the cartesian product of the axes, first axis slowest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for _, ax := range g.axes {
		next := make([]map[string]float64, 0, len(points)*len(ax.Values))
		for _, p := range points {
			for _, v := range ax.Values {
				q := make(map[string]float64, len(p)+1)
				for k, x := range p {
					q[k] = x
				}
				q[ax.Name] = v
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}

// Search runs every grid point on a copy of base and returns all candidates
// in grid order together with the index of the best one. Points whose
// config does not build, or whose flight fails, score +Inf.
func (g *GridSearch) Search(ctx context.Context, reg *experiment.Registry, base *config.Config, obj Objective) ([]Candidate, int, error) {
	points := g.Points()
	cands := make([]Candidate, len(points))
	jobs := make([]sim.Job, 0, len(points))
	slots := make([]int, 0, len(points))

	for i, p := range points {
		cands[i] = Candidate{Params: p, Score: math.Inf(1)}
		cfg := base.Clone()
		for name, v := range p {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, -1, err
			}
		}
		exp, err := experiment.Build(reg, cfg)
		if err != nil {
			continue
		}
		jobs = append(jobs, exp.Job(fmt.Sprint(p)))
		slots = append(slots, i)
	}

	// Failed points stay nil instead of cancelling the rest of the grid.
	results := make([]*sim.Result, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(max(1, g.workers))
	for j, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if res, err := job.Propagator.Run(job.Config); err == nil {
				results[j] = res
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return cands, -1, err
	}

	best := -1
	for j, res := range results {
		if res == nil {
			continue
		}
		i := slots[j]
		cands[i].Result = res
		cands[i].Score = obj(res)
		if best < 0 || cands[i].Score < cands[best].Score {
			best = i
		}
	}
	if best < 0 {
		return cands, -1, fmt.Errorf("no grid point produced a landed flight")
	}
	return cands, best, nil
}
