package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Plot draws series with asciigraph, downsampled to at most width points.
func Plot(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	return graphStyle.Render(asciigraph.Plot(Downsample(series, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	))
}

// Downsample keeps every k-th value so that at most n remain. The last value
// is always kept.
func Downsample(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	step := int(math.Ceil(float64(len(series)) / float64(n)))
	out := make([]float64, 0, n+1)
	for i := 0; i < len(series); i += step {
		out = append(out, series[i])
	}
	if (len(series)-1)%step != 0 {
		out = append(out, series[len(series)-1])
	}
	return out
}

// Column picks a named trajectory series for the plot command.
func Column(traj *dynamo.Trajectory, variant dynamo.Variant, name string) ([]float64, string, bool) {
	switch name {
	case "altitude":
		return traj.Altitudes(), "altitude (m)", true
	case "velocity":
		return analysis.SpeedSeries(traj, variant), "velocity (m/s)", true
	case "acceleration":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Acc.Y() }), "vertical acceleration (m/s²)", true
	case "mass":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Mass }), "mass (kg)", true
	case "drag":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Drag }), "drag (N)", true
	case "x":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Pos.X() }), "downrange (m)", true
	case "theta":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Theta * 180 / math.Pi }), "attitude (deg)", true
	case "omega":
		return traj.Column(func(s dynamo.Sample) float64 { return s.Omega * 180 / math.Pi }), "angular velocity (deg/s)", true
	case "aoa":
		return analysis.AngleOfAttackDeg(traj), "angle of attack (deg)", true
	}
	return nil, "", false
}

var ColumnNames = []string{"altitude", "velocity", "acceleration", "mass", "drag", "x", "theta", "omega", "aoa"}

// FlightPath draws altitude against downrange distance for rigid-body runs
// and against time otherwise, marking apogee.
func FlightPath(traj *dynamo.Trajectory, variant dynamo.Variant, apogee int, w, h int) string {
	xs := traj.Times()
	if variant.HasRotation() {
		xs = traj.Column(func(s dynamo.Sample) float64 { return s.Pos.X() })
	}
	ys := traj.Altitudes()

	c := NewCanvas(w, h)
	v := Fit(xs, ys)
	c.DrawPath(v, xs, ys)
	if apogee >= 0 && apogee < len(xs) {
		c.Mark(v, xs[apogee], ys[apogee])
	}
	return c.String()
}
