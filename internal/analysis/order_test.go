package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/topology"
)

func TestGlobalOrder(t *testing.T) {
	tests := []struct {
		name   string
		phases []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1.3}, 1},
		{"identical", []float64{2, 2, 2, 2}, 1},
		{"opposite", []float64{0, math.Pi}, 0},
		{"equidistant", []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GlobalOrder(tt.phases), 1e-12)
		})
	}
}

func TestGlobalOrderRange(t *testing.T) {
	phases := []float64{0.1, 5.9, 3.2, 1.7, 4.4}
	r := GlobalOrder(phases)
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestLiteralGlobalOrder(t *testing.T) {
	assert.Equal(t, 0.0, LiteralGlobalOrder(nil))
	assert.Equal(t, 1.0, LiteralGlobalOrder([]float64{0, 0}))
	assert.InDelta(t, 1.0, LiteralGlobalOrder([]float64{1.5, 1.5, 1.5}), 1e-12)

	phases := []float64{0.5, 2.5}
	want := math.Expm1(1.5) / ((math.Expm1(0.5) + math.Expm1(2.5)) / 2)
	assert.InDelta(t, want, LiteralGlobalOrder(phases), 1e-12)

	assert.Equal(t, "literal", Literal.String())
	assert.InDelta(t, want, Literal.Order(phases), 1e-12)
	assert.InDelta(t, GlobalOrder(phases), Standard.Order(phases), 1e-12)
}

func TestLocalOrder(t *testing.T) {
	g, err := topology.Construct(3, topology.BidirectionalChain, topology.AdjacencyList)
	require.NoError(t, err)

	phases := []float64{0, 1, 3}
	// pairs (0,1),(1,0),(1,2),(2,1)
	want := (2*math.Exp(-1) + 2*math.Exp(-2)) / 4
	assert.InDelta(t, want, LocalOrder(phases, g), 1e-12)

	assert.InDelta(t, 1.0, LocalOrder([]float64{2, 2, 2}, g), 1e-12)
}

func TestLocalOrderNoEdges(t *testing.T) {
	g, err := topology.Construct(4, topology.None, topology.DenseMatrix)
	require.NoError(t, err)
	assert.Equal(t, 0.0, LocalOrder([]float64{1, 2, 3, 4}, g))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, withinTolerance(0.05, 6.25, 0.1))
	assert.True(t, withinTolerance(6.25, 0.05, 0.1))
	assert.False(t, withinTolerance(1, 2, 0.5))
	assert.True(t, withinTolerance(1, 1, 0))
	assert.False(t, withinTolerance(1, 1.0000001, 0))
}

func TestParseOrderFormula(t *testing.T) {
	f, err := ParseOrderFormula("Literal")
	require.NoError(t, err)
	assert.Equal(t, Literal, f)

	f, err = ParseOrderFormula("")
	require.NoError(t, err)
	assert.Equal(t, Standard, f)

	_, err = ParseOrderFormula("mean")
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}
