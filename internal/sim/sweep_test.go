package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/physics"
)

func sweepJob(t *testing.T, name string, cd float64) Job {
	t.Helper()
	e, err := flight.NewEngine(0.024, 1.9, 5.0, 0.095)
	if err != nil {
		t.Fatal(err)
	}
	a, err := flight.NewAero(0.05, cd)
	if err != nil {
		t.Fatal(err)
	}
	r := physics.NewRocket(e, a, flight.StandardEnvironment(), dynamo.PointMassDrag)
	return Job{Name: name, Propagator: New(r, integrators.NewSemiImplicitEuler()), Config: DefaultConfig()}
}

func TestSweepKeepsJobOrder(t *testing.T) {
	cds := []float64{2.0, 0, 1.0, 0.55, 0.2}
	jobs := make([]Job, len(cds))
	for i, cd := range cds {
		jobs[i] = sweepJob(t, "job", cd)
	}

	results, err := Sweep(context.Background(), jobs, 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}

	for i, job := range jobs {
		want, err := sweepJob(t, "serial", cds[i]).Propagator.Run(job.Config)
		if err != nil {
			t.Fatal(err)
		}
		if results[i].Events != want.Events {
			t.Errorf("job %d: events %+v, want %+v", i, results[i].Events, want.Events)
		}
	}
}

func TestSweepReportsFailingJob(t *testing.T) {
	bad := sweepJob(t, "bad", 0.5)
	bad.Config.Dt = 0

	_, err := Sweep(context.Background(), []Job{sweepJob(t, "ok", 0.5), bad}, 1)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSweepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, []Job{sweepJob(t, "a", 0.5)}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEstimateFlightTime(t *testing.T) {
	if got := EstimateFlightTime(0.5, 1, 0.01, 1, 9.81); got != 0 {
		t.Errorf("underpowered estimate = %v, want 0", got)
	}
	got := EstimateFlightTime(5, 0.095, 0.024, 1.9, 9.81)
	if got < 15 || got > 30 {
		t.Errorf("estimate = %v, want between 15 and 30 s", got)
	}
}
