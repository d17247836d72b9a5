package syncnet

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/compute"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/logging"
	"github.com/san-kum/oscnet/internal/topology"
)

// Network is a coupled phase oscillator network.
type Network struct {
	cfg   Config
	graph *topology.Graph

	phases dynamo.State
	freq   []float64
	// weights[i] is aligned with graph.Neighbors(i); nil when unweighted.
	weights [][]float64

	backend compute.Backend
	log     *logging.Logger
	metrics []dynamo.Metric
}

type Option func(*Network)

func WithLogger(l *logging.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.log = l
		}
	}
}

// WithBackend overrides the backend named in Config.
func WithBackend(b compute.Backend) Option {
	return func(n *Network) {
		if b != nil {
			n.backend = b
		}
	}
}

// New validates cfg, builds the topology and seeds phases and frequencies.
// Every configuration error is reported here.
func New(cfg Config, opts ...Option) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := &Network{cfg: cfg, log: logging.NoopLogger()}
	for _, opt := range opts {
		opt(n)
	}

	if n.backend == nil {
		b, err := compute.New(cfg.Backend)
		if err != nil {
			return nil, err
		}
		n.backend = b
	}
	if !n.backend.Available() {
		return nil, fmt.Errorf("%w: backend %q unavailable", dynamo.ErrConfiguration, n.backend.Name())
	}

	var topts []topology.Option
	if cfg.Points != nil {
		topts = append(topts, topology.WithPoints(cfg.Points))
	}
	if cfg.Topology == topology.DistanceThreshold {
		topts = append(topts, topology.WithRadius(cfg.Radius))
	}
	g, err := topology.Construct(cfg.N, cfg.Topology, cfg.Representation, topts...)
	if err != nil {
		return nil, err
	}
	n.graph = g
	n.log = n.log.WithNetwork(cfg.N, cfg.Topology.String())

	n.seed()
	n.computeWeights()

	n.log.Debug("network constructed",
		"edges", g.EdgeCount(),
		"representation", cfg.Representation.String(),
		"backend", n.backend.Name(),
		"coupling", cfg.CouplingWeight,
	)
	return n, nil
}

func (n *Network) seed() {
	size := n.cfg.N
	rng := rand.New(rand.NewSource(n.cfg.Seed))

	n.phases = make(dynamo.State, size)
	n.freq = make([]float64, size)
	for i := 0; i < size; i++ {
		switch n.cfg.InitialPhase {
		case Equipartition:
			n.phases[i] = math.Pi * float64(i) / float64(size)
		default:
			n.phases[i] = rng.Float64() * dynamo.TwoPi
		}
		n.freq[i] = rng.Float64() * n.cfg.FrequencyScale
	}
}

// computeWeights rescales edge distances to [0, 1] using the min and max
// over all edges. Equal extremes leave distances unscaled.
func (n *Network) computeWeights() {
	if !n.cfg.WeightedCoupling {
		n.weights = nil
		return
	}

	size := n.graph.Size()
	minDist, maxDist := math.Inf(1), math.Inf(-1)
	for i := 0; i < size; i++ {
		for _, j := range n.graph.Neighbors(i) {
			d := n.graph.Distance(i, j)
			minDist = math.Min(minDist, d)
			maxDist = math.Max(maxDist, d)
		}
	}

	multiplier, subtractor := 1.0, 0.0
	if n.graph.EdgeCount() > 0 && maxDist != minDist {
		multiplier = maxDist - minDist
		subtractor = minDist
	}

	n.weights = make([][]float64, size)
	for i := 0; i < size; i++ {
		nbrs := n.graph.Neighbors(i)
		w := make([]float64, len(nbrs))
		for k, j := range nbrs {
			w[k] = (n.graph.Distance(i, j) - subtractor) / multiplier
		}
		n.weights[i] = w
	}
}

// Derive returns the phase velocities at x.
func (n *Network) Derive(x dynamo.State, t float64) dynamo.State {
	size := len(x)
	dx := make(dynamo.State, size)
	scale := n.cfg.CouplingWeight / float64(size)

	for i := 0; i < size; i++ {
		var w []float64
		if n.weights != nil {
			w = n.weights[i]
		}
		dx[i] = n.freq[i] + scale*n.backend.Coupling(x, i, n.graph.Neighbors(i), w)
	}
	return dx
}

func (n *Network) StateDim() int { return n.cfg.N }

// AddMetric attaches an observer evaluated at every macro step of later runs.
func (n *Network) AddMetric(m dynamo.Metric) { n.metrics = append(n.metrics, m) }

func (n *Network) Size() int { return n.cfg.N }

func (n *Network) Config() Config { return n.cfg }

// Phases returns a copy of the current phases.
func (n *Network) Phases() dynamo.State { return n.phases.Clone() }

// Frequencies returns a copy of the natural frequencies.
func (n *Network) Frequencies() []float64 {
	out := make([]float64, len(n.freq))
	copy(out, n.freq)
	return out
}

// Weights returns the coupling weights of i aligned with Neighbors(i), or
// nil when coupling is unweighted.
func (n *Network) Weights(i int) []float64 {
	if n.weights == nil || i < 0 || i >= len(n.weights) {
		return nil
	}
	return slices.Clone(n.weights[i])
}

// Graph returns a read-only view of the network's connectivity. Changes to
// the topology go through Rebuild so the coupling weights stay aligned.
func (n *Network) Graph() GraphView { return GraphView{g: n.graph} }

func (n *Network) Backend() compute.Backend { return n.backend }

func (n *Network) HasConnection(i, j int) bool { return n.graph.HasConnection(i, j) }

func (n *Network) Neighbors(i int) []int { return slices.Clone(n.graph.Neighbors(i)) }

// LocalOrder is the local order parameter of the current phases.
func (n *Network) LocalOrder() float64 {
	return analysis.LocalOrder(n.phases, n.graph)
}

// GlobalOrder is the Kuramoto order parameter of the current phases.
func (n *Network) GlobalOrder() float64 {
	return analysis.GlobalOrder(n.phases)
}

// Rebuild recomputes a distance-threshold topology for radius and refreshes
// the coupling weights.
func (n *Network) Rebuild(radius float64) error {
	err := n.graph.Rebuild(radius)
	n.log.LogRebuild(radius, n.graph.EdgeCount(), err)
	if err != nil {
		return err
	}
	n.cfg.Radius = radius
	n.computeWeights()
	return nil
}
