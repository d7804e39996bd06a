package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/sim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var burnoutColor = color.RGBA{R: 220, G: 60, B: 40, A: 255}

// Chart is one x/y series with optional highlighted points.
type Chart struct {
	File    string
	Title   string
	XLabel  string
	YLabel  string
	X, Y    []float64
	Markers plotter.XYs
}

// Charts lists the charts for a finished run. Rigid-body runs add the
// flight path and the attitude history.
func Charts(res *sim.Result, burnTime float64) []Chart {
	traj := res.Trajectory
	t := traj.Times()
	alt := traj.Altitudes()
	vel := analysis.SpeedSeries(traj, res.Variant)
	acc := traj.Column(func(s dynamo.Sample) float64 { return s.Acc.Y() })

	at := func(ys []float64) plotter.XYs {
		return plotter.XYs{{X: burnTime, Y: analysis.Interpolate(t, ys, burnTime)}}
	}

	charts := []Chart{
		{File: "altitude.png", Title: "Altitude", XLabel: "time (s)", YLabel: "altitude (m)", X: t, Y: alt, Markers: at(alt)},
		{File: "velocity.png", Title: "Velocity", XLabel: "time (s)", YLabel: "velocity (m/s)", X: t, Y: vel, Markers: at(vel)},
		{File: "acceleration.png", Title: "Vertical acceleration", XLabel: "time (s)", YLabel: "acceleration (m/s²)", X: t, Y: acc, Markers: at(acc)},
	}

	if res.Variant.HasRotation() {
		x := traj.Column(func(s dynamo.Sample) float64 { return s.Pos.X() })
		theta := traj.Column(func(s dynamo.Sample) float64 { return s.Theta * 180 / math.Pi })
		charts = append(charts,
			Chart{File: "flight_path.png", Title: "Flight path", XLabel: "downrange (m)", YLabel: "altitude (m)", X: x, Y: alt},
			Chart{File: "attitude.png", Title: "Attitude", XLabel: "time (s)", YLabel: "theta (deg)", X: t, Y: theta},
			Chart{File: "aoa.png", Title: "Angle of attack", XLabel: "time (s)", YLabel: "aoa (deg)", X: t, Y: analysis.AngleOfAttackDeg(traj)},
		)
	}
	return charts
}

func (c Chart) plot() (*plot.Plot, error) {
	if len(c.X) != len(c.Y) || len(c.X) == 0 {
		return nil, fmt.Errorf("%s: invalid series", c.File)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(c.X))
	for i := range c.X {
		pts[i].X = c.X[i]
		pts[i].Y = c.Y[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	if len(c.Markers) > 0 {
		sc, err := plotter.NewScatter(c.Markers)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = burnoutColor
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("burnout", sc)
	}
	return p, nil
}

// WritePNG renders c to w.
func (c Chart) WritePNG(w io.Writer) error {
	p, err := c.plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// WritePNGs renders every chart into dir and returns the written paths.
func WritePNGs(dir string, charts []Chart) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.File)
		f, err := os.Create(path)
		if err != nil {
			return paths, err
		}
		err = c.WritePNG(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("%s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
