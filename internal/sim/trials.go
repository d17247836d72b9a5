package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/logging"
	"github.com/san-kum/oscnet/internal/syncnet"
)

// RunFunc simulates one freshly constructed network.
type RunFunc func(net *syncnet.Network) (*dynamo.Dynamic, error)

// Trials runs independent networks that differ only in their seed. Each
// network is simulated on its own goroutine; a single simulation is never
// split across goroutines.
type Trials struct {
	Base      syncnet.Config
	Runs      int
	SeedStart int64
	// Parallelism bounds concurrent runs; 0 means runtime.NumCPU().
	Parallelism int
	Logger      *logging.Logger
}

func NewTrials(base syncnet.Config, runs int, seedStart int64) *Trials {
	return &Trials{Base: base, Runs: runs, SeedStart: seedStart}
}

// Run executes fn for seeds SeedStart .. SeedStart+Runs-1 and returns the
// results in seed order. The first failure cancels runs that have not
// started yet.
func (tr *Trials) Run(ctx context.Context, fn RunFunc) ([]*dynamo.Dynamic, error) {
	if tr.Runs <= 0 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", dynamo.ErrConfiguration, tr.Runs)
	}
	log := tr.Logger
	if log == nil {
		log = logging.NoopLogger()
	}

	limit := tr.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	start := time.Now()
	results := make([]*dynamo.Dynamic, tr.Runs)
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < tr.Runs; i++ {
		seed := tr.SeedStart + int64(i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			cfg := tr.Base
			cfg.Seed = seed
			net, err := syncnet.New(cfg, syncnet.WithLogger(log.WithSeed(seed)))
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, seed, err)
			}

			dyn, err := fn(net)
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, seed, err)
			}
			results[i] = dyn
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		for _, r := range results {
			if r == nil {
				failed++
			}
		}
	}
	log.LogTrials(tr.Runs, failed, time.Since(start))

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates the final global order over a set of runs.
type Summary struct {
	Runs      int
	Converged int
	MeanOrder float64
	MinOrder  float64
	MaxOrder  float64
	MeanSteps float64
}

func Summarize(results []*dynamo.Dynamic) Summary {
	s := Summary{MinOrder: math.Inf(1), MaxOrder: math.Inf(-1)}

	for _, dyn := range results {
		if dyn == nil || dyn.Len() == 0 {
			continue
		}
		_, last := dyn.Last()
		r := analysis.GlobalOrder(last)

		s.Runs++
		s.MeanOrder += r
		s.MeanSteps += float64(dyn.StepsTaken)
		s.MinOrder = math.Min(s.MinOrder, r)
		s.MaxOrder = math.Max(s.MaxOrder, r)
		if dyn.Termination == dynamo.Converged {
			s.Converged++
		}
	}

	if s.Runs == 0 {
		return Summary{}
	}
	s.MeanOrder /= float64(s.Runs)
	s.MeanSteps /= float64(s.Runs)
	return s
}
