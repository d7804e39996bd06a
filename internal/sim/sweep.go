package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run in a sweep. Each job must own its Propagator.
type Job struct {
	Name       string
	Propagator *Propagator
	Config     Config
}

// Sweep runs jobs concurrently with at most workers in flight and returns
// results in job order. The first failing job cancels the ones not yet
// started.
func Sweep(ctx context.Context, jobs []Job, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := job.Propagator.Run(job.Config)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
