package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// Last selects the final recorded snapshot.
const Last = -1

// ErrIterationOutOfRange indicates a snapshot index outside the recorded dynamic.
var ErrIterationOutOfRange = errors.New("analysis: iteration out of range")

// Analyzer answers synchronization queries over one recorded dynamic. It
// only reads the dynamic and is safe for concurrent use.
type Analyzer struct {
	dyn     *dynamo.Dynamic
	formula OrderFormula
}

type Option func(*Analyzer)

// WithOrderFormula selects the global order formula (default Standard).
func WithOrderFormula(f OrderFormula) Option {
	return func(a *Analyzer) {
		a.formula = f
	}
}

func New(dyn *dynamo.Dynamic, opts ...Option) *Analyzer {
	if dyn == nil {
		dyn = dynamo.NewDynamic(dynamo.Fast, 0)
	}
	a := &Analyzer{dyn: dyn}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Len returns the number of recorded snapshots.
func (a *Analyzer) Len() int { return a.dyn.Len() }

func (a *Analyzer) Dynamic() *dynamo.Dynamic { return a.dyn }

func (a *Analyzer) resolve(iteration int) (int, error) {
	if iteration == Last {
		iteration = a.dyn.Len() - 1
	}
	if iteration < 0 || iteration >= a.dyn.Len() {
		return 0, fmt.Errorf("%w: %d of %d", ErrIterationOutOfRange, iteration, a.dyn.Len())
	}
	return iteration, nil
}

// Snapshot returns the phases recorded at iteration. The slice is shared
// with the dynamic and must not be modified.
func (a *Analyzer) Snapshot(iteration int) (dynamo.State, error) {
	idx, err := a.resolve(iteration)
	if err != nil {
		return nil, err
	}
	return a.dyn.Phases[idx], nil
}

func (a *Analyzer) GlobalOrder(iteration int) (float64, error) {
	phases, err := a.Snapshot(iteration)
	if err != nil {
		return 0, err
	}
	return a.formula.Order(phases), nil
}

func (a *Analyzer) LocalOrder(g Neighborhood, iteration int) (float64, error) {
	phases, err := a.Snapshot(iteration)
	if err != nil {
		return 0, err
	}
	return LocalOrder(phases, g), nil
}

func (a *Analyzer) window(start, stop int) (int, int, error) {
	if stop < 0 {
		stop = a.dyn.Len()
	}
	if start < 0 || start > stop || stop > a.dyn.Len() {
		return 0, 0, fmt.Errorf("%w: window [%d, %d) of %d", ErrIterationOutOfRange, start, stop, a.dyn.Len())
	}
	return start, stop, nil
}

// OrderSeries returns the global order of snapshots [start, stop). A negative
// stop means the end of the dynamic.
func (a *Analyzer) OrderSeries(start, stop int) ([]float64, error) {
	start, stop, err := a.window(start, stop)
	if err != nil {
		return nil, err
	}

	series := make([]float64, 0, stop-start)
	for i := start; i < stop; i++ {
		series = append(series, a.formula.Order(a.dyn.Phases[i]))
	}
	return series, nil
}

// LocalOrderSeries returns the local order of snapshots [start, stop).
func (a *Analyzer) LocalOrderSeries(g Neighborhood, start, stop int) ([]float64, error) {
	start, stop, err := a.window(start, stop)
	if err != nil {
		return nil, err
	}

	series := make([]float64, 0, stop-start)
	for i := start; i < stop; i++ {
		series = append(series, LocalOrder(a.dyn.Phases[i], g))
	}
	return series, nil
}

// AllocateSyncEnsembles groups oscillators whose phases at iteration are
// within tolerance. Oscillators are scanned in index order and join the first
// ensemble whose first member matches; the result therefore depends on
// processing order when tolerance is coarse. If indexes is non-nil, member i
// is reported as indexes[i].
//
// Cost is O(N·C) for C ensembles.
func (a *Analyzer) AllocateSyncEnsembles(tolerance float64, indexes []int, iteration int) ([][]int, error) {
	if a.dyn.Len() == 0 {
		return [][]int{}, nil
	}

	phases, err := a.Snapshot(iteration)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return [][]int{}, nil
	}
	if indexes != nil && len(indexes) != len(phases) {
		return nil, fmt.Errorf("%w: %d indexes for %d oscillators", dynamo.ErrConfiguration, len(indexes), len(phases))
	}

	ensembles := [][]int{{0}}
	for i := 1; i < len(phases); i++ {
		placed := false
		for e, members := range ensembles {
			if withinTolerance(phases[i], phases[members[0]], tolerance) {
				ensembles[e] = append(members, i)
				placed = true
				break
			}
		}
		if !placed {
			ensembles = append(ensembles, []int{i})
		}
	}

	if indexes != nil {
		for _, members := range ensembles {
			for k, idx := range members {
				members[k] = indexes[idx]
			}
		}
	}
	return ensembles, nil
}

// CorrelationMatrix returns the N×N matrix |sin(θ_i − θ_j)| at iteration.
func (a *Analyzer) CorrelationMatrix(iteration int) ([][]float64, error) {
	phases, err := a.Snapshot(iteration)
	if err != nil {
		return nil, err
	}

	n := len(phases)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			matrix[i][j] = math.Abs(math.Sin(phases[i] - phases[j]))
		}
	}
	return matrix, nil
}

// PhaseMatrix reshapes the phases at iteration row-major into height rows
// of width columns.
func (a *Analyzer) PhaseMatrix(width, height, iteration int) ([][]float64, error) {
	phases, err := a.Snapshot(iteration)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || width*height != len(phases) {
		return nil, fmt.Errorf("%w: %dx%d grid for %d oscillators", dynamo.ErrConfiguration, width, height, len(phases))
	}

	matrix := make([][]float64, height)
	for row := range matrix {
		matrix[row] = append([]float64(nil), phases[row*width:(row+1)*width]...)
	}
	return matrix, nil
}
