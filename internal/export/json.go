package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/sim"
)

type Header struct {
	Variant    string  `json:"variant"`
	Integrator string  `json:"integrator"`
	Phase      string  `json:"phase"`
	Dt         float64 `json:"dt"`
	BurnTime   float64 `json:"burn_time"`
	Steps      int     `json:"steps"`
}

type Document struct {
	Header  Header             `json:"header"`
	Events  analysis.Events    `json:"events"`
	Metrics map[string]float64 `json:"metrics"`
	Columns []string           `json:"columns"`
	Rows    [][]float64        `json:"rows"`
}

func NewDocument(res *sim.Result, dt, burnTime float64) Document {
	doc := Document{
		Header: Header{
			Variant:    res.Variant.String(),
			Integrator: res.Integrator,
			Phase:      res.Phase.String(),
			Dt:         dt,
			BurnTime:   burnTime,
			Steps:      res.Steps,
		},
		Events:  res.Events,
		Metrics: res.Metrics,
		Columns: Columns,
		Rows:    make([][]float64, 0, res.Trajectory.Len()),
	}
	for _, s := range res.Trajectory.Samples() {
		doc.Rows = append(doc.Rows, row(s))
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
