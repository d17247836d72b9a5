package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/sim"
	"github.com/san-kum/oscnet/internal/syncnet"
)

// Parameters a grid search can vary on a syncnet.Config.
const (
	ParamCoupling       = "coupling"
	ParamFrequencyScale = "frequency_scale"
	ParamRadius         = "radius"
	ParamSeed           = "seed"
)

// Objective scores one finished run. Higher is better.
type Objective func(net *syncnet.Network, dyn *dynamo.Dynamic) float64

// FinalGlobalOrder scores a run by the global order of its last snapshot.
func FinalGlobalOrder(_ *syncnet.Network, dyn *dynamo.Dynamic) float64 {
	_, last := dyn.Last()
	return analysis.GlobalOrder(last)
}

// FinalLocalOrder scores a run by the local order of its last snapshot.
func FinalLocalOrder(net *syncnet.Network, dyn *dynamo.Dynamic) float64 {
	_, last := dyn.Last()
	return analysis.LocalOrder(last, net.Graph())
}

// Point is one evaluated parameter combination.
type Point struct {
	Params      map[string]float64
	Score       float64
	Termination dynamo.Termination
	Steps       int
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters with %d ranges", dynamo.ErrConfiguration, len(params), len(ranges))
	}
	for i, name := range params {
		if err := apply(&syncnet.Config{}, name, 0); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", dynamo.ErrConfiguration, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search builds a network for every combination on the grid, runs it and
// returns the best scoring point along with every point in visit order.
func (g *GridSearch) Search(ctx context.Context, base syncnet.Config, run sim.RunFunc, score Objective, opts ...syncnet.Option) (Point, []Point, error) {
	best := Point{Score: math.Inf(-1)}
	var all []Point

	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), run, score, opts, &best, &all)
	if err != nil {
		return Point{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg syncnet.Config,
	current map[string]float64,
	run sim.RunFunc,
	score Objective,
	opts []syncnet.Option,
	best *Point,
	all *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		net, err := syncnet.New(cfg, opts...)
		if err != nil {
			return fmt.Errorf("grid point %v: %w", current, err)
		}
		dyn, err := run(net)
		if err != nil {
			return fmt.Errorf("grid point %v: %w", current, err)
		}

		p := Point{
			Params:      maps.Clone(current),
			Score:       score(net, dyn),
			Termination: dyn.Termination,
			Steps:       dyn.StepsTaken,
		}
		*all = append(*all, p)
		if p.Score > best.Score {
			*best = p
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := cfg
		if err := apply(&next, name, val); err != nil {
			return err
		}
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, current, run, score, opts, best, all); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

func apply(cfg *syncnet.Config, name string, val float64) error {
	switch name {
	case ParamCoupling:
		cfg.CouplingWeight = val
	case ParamFrequencyScale:
		cfg.FrequencyScale = val
	case ParamRadius:
		cfg.Radius = val
	case ParamSeed:
		cfg.Seed = int64(val)
	default:
		return fmt.Errorf("%w: unknown sweep parameter %q", dynamo.ErrConfiguration, name)
	}
	return nil
}
