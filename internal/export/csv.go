// Package export writes trajectories as CSV, JSON or PNG charts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Columns is the CSV header. Angles are in radians.
var Columns = []string{
	"time", "x", "y", "vx", "vy", "ax", "ay",
	"theta", "omega", "alpha", "thrust", "mass", "drag", "aoa",
}

func row(s dynamo.Sample) []float64 {
	return []float64{
		s.T, s.Pos.X(), s.Pos.Y(), s.Vel.X(), s.Vel.Y(), s.Acc.X(), s.Acc.Y(),
		s.Theta, s.Omega, s.AngAcc, s.Thrust, s.Mass, s.Drag, s.AngleOfAttack,
	}
}

func fromRow(v []float64) dynamo.Sample {
	return dynamo.Sample{
		State: dynamo.State{
			T:     v[0],
			Pos:   mgl64.Vec2{v[1], v[2]},
			Vel:   mgl64.Vec2{v[3], v[4]},
			Theta: v[7],
			Omega: v[8],
		},
		Derivatives: dynamo.Derivatives{
			Acc:    mgl64.Vec2{v[5], v[6]},
			AngAcc: v[9],
		},
		Thrust:        v[10],
		Mass:          v[11],
		Drag:          v[12],
		AngleOfAttack: v[13],
	}
}

// WriteCSV writes one row per sample. Values use the shortest exact
// representation so ReadCSV restores them bit for bit.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	rec := make([]string, len(Columns))
	for _, s := range traj.Samples() {
		for i, v := range row(s) {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Columns {
		if header[i] != name {
			return nil, fmt.Errorf("column %d: got %q, want %q", i, header[i], name)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := dynamo.NewTrajectory(len(records))
	vals := make([]float64, len(Columns))
	for line, rec := range records {
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", line+2, Columns[i], err)
			}
			vals[i] = v
		}
		traj.Append(fromRow(vals))
	}
	return traj, nil
}
