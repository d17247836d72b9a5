package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
)

type ExportData struct {
	Run         *RunMetadata       `json:"run,omitempty"`
	Solver      string             `json:"solver"`
	Termination string             `json:"termination"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	Phases      [][]float64        `json:"phases"`
	Order       []float64          `json:"order"`
	Ensembles   [][]int            `json:"ensembles,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// ExportJSON writes dyn, its global order series and, when tolerance is
// positive, the ensembles of its last snapshot. meta may be nil.
func ExportJSON(w io.Writer, meta *RunMetadata, dyn *dynamo.Dynamic, tolerance float64) error {
	a := analysis.New(dyn)
	order, err := a.OrderSeries(0, -1)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:         meta,
		Solver:      dyn.Solver.String(),
		Termination: dyn.Termination.String(),
		Steps:       dyn.StepsTaken,
		Times:       dyn.Times,
		Phases:      make([][]float64, len(dyn.Phases)),
		Order:       order,
		Metrics:     dyn.Metrics,
	}
	for i, p := range dyn.Phases {
		data.Phases[i] = p
	}

	if tolerance > 0 {
		ensembles, err := a.AllocateSyncEnsembles(tolerance, nil, analysis.Last)
		if err != nil {
			return err
		}
		data.Ensembles = ensembles
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
