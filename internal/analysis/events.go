package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var ErrEmptyTrajectory = errors.New("analysis: empty trajectory")

type Burnout struct {
	Time     float64 `json:"time"`
	Altitude float64 `json:"altitude"`
	Velocity float64 `json:"velocity"`
}

type Apogee struct {
	Index    int     `json:"index"`
	Time     float64 `json:"time"`
	Altitude float64 `json:"altitude"`
}

type Events struct {
	Burnout       Burnout `json:"burnout"`
	Apogee        Apogee  `json:"apogee"`
	MaxSpeed      float64 `json:"max_speed"`
	GroundContact float64 `json:"ground_contact"`
	Range         float64 `json:"range"`
}

func Extract(traj *dynamo.Trajectory, burnTime float64, variant dynamo.Variant) (Events, error) {
	if traj == nil || traj.Len() == 0 {
		return Events{}, ErrEmptyTrajectory
	}

	times := traj.Times()
	alts := traj.Altitudes()
	speeds := SpeedSeries(traj, variant)

	apogee := floats.MaxIdx(alts)
	last := traj.Last()

	return Events{
		Burnout: Burnout{
			Time:     burnTime,
			Altitude: Interpolate(times, alts, burnTime),
			Velocity: Interpolate(times, speeds, burnTime),
		},
		Apogee: Apogee{
			Index:    apogee,
			Time:     times[apogee],
			Altitude: alts[apogee],
		},
		MaxSpeed:      floats.Max(speeds),
		GroundContact: last.T,
		Range:         last.Pos.X(),
	}, nil
}

// SpeedSeries is the signed vertical velocity for the point-mass variants
// and the resultant speed for the rigid-body variant.
func SpeedSeries(traj *dynamo.Trajectory, variant dynamo.Variant) []float64 {
	if variant.HasRotation() {
		return traj.Speeds()
	}
	return traj.VerticalVelocities()
}

// Interpolate evaluates the piecewise-linear interpolant of (xs, ys) at x,
// clamping to the end values outside the sampled range. xs must be
// strictly increasing.
func Interpolate(xs, ys []float64, x float64) float64 {
	if len(xs) == 1 {
		return ys[0]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return math.NaN()
	}
	return pl.Predict(x)
}

func AngleOfAttackDeg(traj *dynamo.Trajectory) []float64 {
	return traj.Column(func(s dynamo.Sample) float64 { return s.AngleOfAttack * 180 / math.Pi })
}
