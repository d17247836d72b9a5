package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// Neighborhood is the read side of a connectivity graph.
type Neighborhood interface {
	Size() int
	Neighbors(i int) []int
}

// OrderFormula selects how the global order parameter is computed.
type OrderFormula int

const (
	// Standard is the Kuramoto order parameter r = |mean(e^{iθ})|.
	Standard OrderFormula = iota
	// Literal reproduces the expm1-based measure of the reference implementation.
	Literal
)

func (f OrderFormula) String() string {
	if f == Literal {
		return "literal"
	}
	return "standard"
}

func ParseOrderFormula(name string) (OrderFormula, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "kuramoto":
		return Standard, nil
	case "literal":
		return Literal, nil
	default:
		return 0, fmt.Errorf("%w: unknown order formula %q", dynamo.ErrConfiguration, name)
	}
}

// GlobalOrder returns r = |(1/N)·Σ e^{iθ_j}| in [0, 1]. It is 0 for an
// empty phase vector.
func GlobalOrder(phases []float64) float64 {
	if len(phases) == 0 {
		return 0
	}

	re, im := 0.0, 0.0
	for _, theta := range phases {
		s, c := math.Sincos(theta)
		re += c
		im += s
	}

	r := math.Hypot(re, im) / float64(len(phases))
	return math.Min(r, 1)
}

// LiteralGlobalOrder returns expm1(|mean θ|) / mean(expm1(|θ|)). It tracks
// the same synchrony trend as GlobalOrder but with different values. When all
// phases are zero it returns 1.
func LiteralGlobalOrder(phases []float64) float64 {
	if len(phases) == 0 {
		return 0
	}

	expAmount := 0.0
	average := 0.0
	for _, theta := range phases {
		expAmount += math.Expm1(math.Abs(theta))
		average += theta
	}

	n := float64(len(phases))
	expAmount /= n
	average = math.Expm1(math.Abs(average / n))

	if expAmount == 0 {
		return 1
	}
	return math.Abs(average) / math.Abs(expAmount)
}

// Order evaluates the global order of phases with formula f.
func (f OrderFormula) Order(phases []float64) float64 {
	if f == Literal {
		return LiteralGlobalOrder(phases)
	}
	return GlobalOrder(phases)
}

// LocalOrder returns (1/E)·Σ exp(−|θ_j − θ_i|) over every neighbor pair of g,
// each undirected edge counted in both directions. A graph without edges
// yields 0.
func LocalOrder(phases []float64, g Neighborhood) float64 {
	sum := 0.0
	pairs := 0

	n := g.Size()
	if len(phases) < n {
		n = len(phases)
	}
	for i := 0; i < n; i++ {
		for _, j := range g.Neighbors(i) {
			sum += math.Exp(-math.Abs(phases[j] - phases[i]))
			pairs++
		}
	}

	if pairs == 0 {
		pairs = 1
	}
	return sum / float64(pairs)
}

// withinTolerance reports whether a and b lie within tolerance of each other,
// also comparing a shifted by ±2π.
func withinTolerance(a, b, tolerance float64) bool {
	d := a - b
	if d == 0 {
		return true
	}
	return math.Abs(d) < tolerance ||
		math.Abs(d+dynamo.TwoPi) < tolerance ||
		math.Abs(d-dynamo.TwoPi) < tolerance
}
