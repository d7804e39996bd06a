package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/experiment"
)

func TestPoints(t *testing.T) {
	g := NewGridSearch([]Axis{
		{Name: "drag_coeff", Values: []float64{0.3, 0.6}},
		{Name: "thrust", Values: []float64{4, 5, 6}},
	}, 1)

	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("got %d points, want 6", len(points))
	}
	if points[0]["drag_coeff"] != 0.3 || points[0]["thrust"] != 4 {
		t.Errorf("first point = %v", points[0])
	}
	if points[5]["drag_coeff"] != 0.6 || points[5]["thrust"] != 6 {
		t.Errorf("last point = %v", points[5])
	}
}

func TestSearchTargetApogee(t *testing.T) {
	base := config.GetPreset("estes-c6-drag")
	reg := experiment.NewRegistry()

	target := func(cd float64) float64 {
		cfg := base.Clone()
		cfg.Aero.DragCoeff = cd
		exp, err := experiment.Build(reg, cfg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := exp.Run()
		if err != nil {
			t.Fatal(err)
		}
		return res.Events.Apogee.Altitude
	}(0.75)

	g := NewGridSearch([]Axis{{Name: "drag_coeff", Values: []float64{0.25, 0.5, 0.75, 1.0}}}, 2)
	cands, best, err := g.Search(context.Background(), reg, base, TargetApogee(target))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if best != 2 {
		t.Fatalf("best = %d (%v), want drag_coeff=0.75", best, cands[best].Params)
	}
	if cands[best].Score != 0 {
		t.Errorf("score = %v, want 0", cands[best].Score)
	}
}

func TestSearchSkipsInvalidPoints(t *testing.T) {
	g := NewGridSearch([]Axis{{Name: "drag_coeff", Values: []float64{-1, 0.5}}}, 1)
	cands, best, err := g.Search(context.Background(), experiment.NewRegistry(), config.GetPreset("estes-c6-drag"), MinimizeMetric("max_q_pa"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !math.IsInf(cands[0].Score, 1) || cands[0].Result != nil {
		t.Errorf("invalid point scored %v", cands[0].Score)
	}
	if best != 1 {
		t.Errorf("best = %d, want 1", best)
	}
}

func TestSearchUnknownParam(t *testing.T) {
	g := NewGridSearch([]Axis{{Name: "fins", Values: []float64{3}}}, 1)
	if _, _, err := g.Search(context.Background(), experiment.NewRegistry(), config.DefaultConfig(), TargetApogee(100)); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestMinimizeMetricMissing(t *testing.T) {
	g := NewGridSearch([]Axis{{Name: "thrust", Values: []float64{5}}}, 1)
	_, best, err := g.Search(context.Background(), experiment.NewRegistry(), config.DefaultConfig(), MinimizeMetric("nope"))
	if err != nil || best != 0 {
		t.Errorf("best = %d, err = %v", best, err)
	}
}
