package topology

import (
	"fmt"
	"math"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// Graph is an undirected connectivity relation over oscillators 0..N-1.
// A Graph is not safe for concurrent use: Neighbors fills a lazy cache.
type Graph struct {
	n      int
	kind   Kind
	repr   Representation
	store  storage
	points [][]float64
	radius float64
	edges  int

	// views caches Neighbors results; nil entries are filled lazily.
	views [][]int
}

type Option func(*Graph)

// WithPoints sets the feature vectors used by DistanceThreshold. The slice is
// copied.
func WithPoints(points [][]float64) Option {
	return func(g *Graph) {
		g.points = make([][]float64, len(points))
		for i, p := range points {
			g.points[i] = append([]float64(nil), p...)
		}
	}
}

// WithRadius sets the connectivity radius used by DistanceThreshold.
func WithRadius(radius float64) Option {
	return func(g *Graph) {
		g.radius = radius
	}
}

// Construct builds a graph of n oscillators connected according to kind.
func Construct(n int, kind Kind, repr Representation, opts ...Option) (*Graph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d oscillators", dynamo.ErrEmptyNetwork, n)
	}
	if repr != DenseMatrix && repr != AdjacencyList {
		return nil, fmt.Errorf("%w: unknown representation %v", dynamo.ErrConfiguration, repr)
	}

	g := &Graph{n: n, kind: kind, repr: repr}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}

	g.store = newStorage(repr, n)
	g.build()
	return g, nil
}

func (g *Graph) validate() error {
	switch g.kind {
	case None, AllToAll, BidirectionalChain:
		return nil
	case GridFour, GridEight:
		side := gridSide(g.n)
		if side*side != g.n {
			return fmt.Errorf("%w: %v requires a square number of oscillators, got %d", dynamo.ErrInvalidTopology, g.kind, g.n)
		}
		return nil
	case DistanceThreshold:
		return g.validatePoints()
	default:
		return fmt.Errorf("%w: unknown topology %v", dynamo.ErrInvalidTopology, g.kind)
	}
}

func (g *Graph) validatePoints() error {
	if len(g.points) != g.n {
		return fmt.Errorf("%w: distance topology needs %d points, got %d", dynamo.ErrInvalidTopology, g.n, len(g.points))
	}
	dim := len(g.points[0])
	if dim == 0 {
		return fmt.Errorf("%w: points must have at least one dimension", dynamo.ErrInvalidTopology)
	}
	for i, p := range g.points {
		if len(p) != dim {
			return fmt.Errorf("%w: point %d has %d dimensions, expected %d", dynamo.ErrInvalidTopology, i, len(p), dim)
		}
	}
	return validateRadius(g.radius)
}

func validateRadius(radius float64) error {
	if radius < 0 || math.IsNaN(radius) {
		return fmt.Errorf("%w: radius must be non-negative, got %v", dynamo.ErrInvalidTopology, radius)
	}
	return nil
}

func gridSide(n int) int {
	side := int(math.Sqrt(float64(n)))
	for side*side > n {
		side--
	}
	for (side+1)*(side+1) <= n {
		side++
	}
	return side
}

// grid offsets as (row, column) deltas
var (
	fourOffsets  = [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
	eightOffsets = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

func (g *Graph) build() {
	g.edges = 0
	g.views = nil

	switch g.kind {
	case AllToAll:
		for i := 0; i < g.n; i++ {
			for j := i + 1; j < g.n; j++ {
				g.connect(i, j)
			}
		}
	case GridFour:
		g.buildGrid(fourOffsets)
	case GridEight:
		g.buildGrid(eightOffsets)
	case BidirectionalChain:
		for i := 1; i < g.n; i++ {
			g.connect(i-1, i)
		}
	case DistanceThreshold:
		g.buildDistance()
	}
}

func (g *Graph) buildGrid(offsets [][2]int) {
	side := gridSide(g.n)
	for idx := 0; idx < g.n; idx++ {
		row, col := idx/side, idx%side
		for _, off := range offsets {
			r, c := row+off[0], col+off[1]
			if r < 0 || r >= side || c < 0 || c >= side {
				continue
			}
			if j := r*side + c; j > idx {
				g.connect(idx, j)
			}
		}
	}
}

// buildDistance compares every pair of points. There is no spatial index:
// construction is O(N²·d).
func (g *Graph) buildDistance() {
	for i := 0; i < g.n; i++ {
		for j := i + 1; j < g.n; j++ {
			if euclidean(g.points[i], g.points[j]) <= g.radius {
				g.connect(i, j)
			}
		}
	}
}

func (g *Graph) connect(i, j int) {
	if i == j || g.store.has(i, j) {
		return
	}
	g.store.connect(i, j)
	g.edges++
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for k := range a {
		d := a[k] - b[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Rebuild reconnects a DistanceThreshold graph using a new radius. Cached
// neighbor views are invalidated.
func (g *Graph) Rebuild(radius float64) error {
	if g.kind != DistanceThreshold {
		return fmt.Errorf("%w: rebuild requires %v, graph is %v", dynamo.ErrTopology, DistanceThreshold, g.kind)
	}
	if err := validateRadius(radius); err != nil {
		return err
	}

	g.radius = radius
	g.store.reset()
	g.build()
	return nil
}

func (g *Graph) Size() int                      { return g.n }
func (g *Graph) Kind() Kind                     { return g.kind }
func (g *Graph) Representation() Representation { return g.repr }
func (g *Graph) Radius() float64                { return g.radius }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// HasConnection reports whether i and j are coupled. Out-of-range indices
// are never connected.
func (g *Graph) HasConnection(i, j int) bool {
	if i < 0 || j < 0 || i >= g.n || j >= g.n {
		return false
	}
	return g.store.has(i, j)
}

// Neighbors returns the neighbors of i in ascending order. The returned
// slice is shared with the graph and must not be modified; it stays valid
// until the next Rebuild.
func (g *Graph) Neighbors(i int) []int {
	if i < 0 || i >= g.n {
		return nil
	}
	if g.views == nil {
		g.views = make([][]int, g.n)
	}
	if g.views[i] == nil {
		g.views[i] = g.store.neighbors(i)
	}
	return g.views[i]
}

func (g *Graph) Degree(i int) int {
	if i < 0 || i >= g.n {
		return 0
	}
	return g.store.degree(i)
}

// Points returns a copy of the source feature vectors.
func (g *Graph) Points() [][]float64 {
	if g.points == nil {
		return nil
	}
	out := make([][]float64, len(g.points))
	for i, p := range g.points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

// Distance returns the euclidean distance between the points of i and j,
// or 0 when the graph carries no points.
func (g *Graph) Distance(i, j int) float64 {
	if len(g.points) != g.n || i < 0 || j < 0 || i >= g.n || j >= g.n {
		return 0
	}
	return euclidean(g.points[i], g.points[j])
}
