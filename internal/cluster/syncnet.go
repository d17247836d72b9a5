// Package cluster groups points by simulating a distance-threshold
// oscillator network until it synchronizes and reading phase-locked
// oscillators out as clusters.
package cluster

import (
	"fmt"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/logging"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/topology"
)

// DefaultTolerance is the phase tolerance used to allocate clusters.
const DefaultTolerance = 0.1

// SyncNet clusters points connected within a radius.
type SyncNet struct {
	net            *syncnet.Network
	minClusterSize int
}

type options struct {
	cfg            syncnet.Config
	logger         *logging.Logger
	minClusterSize int
}

type Option func(*options)

func WithRepresentation(r topology.Representation) Option {
	return func(o *options) { o.cfg.Representation = r }
}

func WithWeightedCoupling(enabled bool) Option {
	return func(o *options) { o.cfg.WeightedCoupling = enabled }
}

func WithInitialPhase(p syncnet.InitialPhase) Option {
	return func(o *options) { o.cfg.InitialPhase = p }
}

func WithCouplingWeight(k float64) Option {
	return func(o *options) { o.cfg.CouplingWeight = k }
}

func WithSeed(seed int64) Option {
	return func(o *options) { o.cfg.Seed = seed }
}

func WithBackend(name string) Option {
	return func(o *options) { o.cfg.Backend = name }
}

func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMinClusterSize reports ensembles smaller than size as noise.
func WithMinClusterSize(size int) Option {
	return func(o *options) { o.minClusterSize = size }
}

// New builds the oscillator network for points. Two points are coupled when
// their euclidean distance is at most radius.
func New(points [][]float64, radius float64, opts ...Option) (*SyncNet, error) {
	o := options{cfg: syncnet.DefaultConfig(), minClusterSize: 1}
	o.cfg.N = len(points)
	o.cfg.Topology = topology.DistanceThreshold
	o.cfg.Points = points
	o.cfg.Radius = radius
	for _, opt := range opts {
		opt(&o)
	}
	if o.minClusterSize < 1 {
		return nil, fmt.Errorf("%w: minimum cluster size must be at least 1", dynamo.ErrConfiguration)
	}

	var netOpts []syncnet.Option
	if o.logger != nil {
		netOpts = append(netOpts, syncnet.WithLogger(o.logger))
	}
	net, err := syncnet.New(o.cfg, netOpts...)
	if err != nil {
		return nil, err
	}
	return &SyncNet{net: net, minClusterSize: o.minClusterSize}, nil
}

func (s *SyncNet) Network() *syncnet.Network { return s.net }

// Process simulates until the local order reaches order or stagnates.
func (s *SyncNet) Process(order float64, solver dynamo.Solver, collect bool) (*Result, error) {
	cfg := syncnet.DefaultDynamicConfig()
	cfg.Order = order
	cfg.Solver = solver
	cfg.Collect = collect
	return s.ProcessWith(cfg)
}

// ProcessWith is Process with full control over the dynamic run.
func (s *SyncNet) ProcessWith(cfg syncnet.DynamicConfig) (*Result, error) {
	dyn, err := s.net.SimulateDynamic(cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		analyzer:       analysis.New(dyn),
		minClusterSize: s.minClusterSize,
	}, nil
}

// Result holds the recorded dynamic of one Process call.
type Result struct {
	analyzer       *analysis.Analyzer
	minClusterSize int
}

func (r *Result) Dynamic() *dynamo.Dynamic { return r.analyzer.Dynamic() }

func (r *Result) Termination() dynamo.Termination { return r.analyzer.Dynamic().Termination }

func (r *Result) Analyzer() *analysis.Analyzer { return r.analyzer }

// Clusters returns the ensembles of the final snapshot that hold at least
// the minimum cluster size.
func (r *Result) Clusters(tolerance float64) ([][]int, error) {
	ensembles, err := r.analyzer.AllocateSyncEnsembles(tolerance, nil, analysis.Last)
	if err != nil {
		return nil, err
	}

	clusters := make([][]int, 0, len(ensembles))
	for _, e := range ensembles {
		if len(e) >= r.minClusterSize {
			clusters = append(clusters, e)
		}
	}
	return clusters, nil
}

// Noise returns the points of ensembles below the minimum cluster size, in
// ascending order of ensemble discovery.
func (r *Result) Noise(tolerance float64) ([]int, error) {
	ensembles, err := r.analyzer.AllocateSyncEnsembles(tolerance, nil, analysis.Last)
	if err != nil {
		return nil, err
	}

	var noise []int
	for _, e := range ensembles {
		if len(e) < r.minClusterSize {
			noise = append(noise, e...)
		}
	}
	return noise, nil
}

// Labels assigns each point its cluster number, or -1 for noise.
func (r *Result) Labels(tolerance float64) ([]int, error) {
	ensembles, err := r.analyzer.AllocateSyncEnsembles(tolerance, nil, analysis.Last)
	if err != nil {
		return nil, err
	}

	labels := make([]int, r.analyzer.Dynamic().Oscillators())
	for i := range labels {
		labels[i] = -1
	}
	next := 0
	for _, e := range ensembles {
		if len(e) < r.minClusterSize {
			continue
		}
		for _, idx := range e {
			labels[idx] = next
		}
		next++
	}
	return labels, nil
}
