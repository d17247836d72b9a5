package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/topology"
)

func newDynamic(snapshots ...dynamo.State) *dynamo.Dynamic {
	dyn := dynamo.NewDynamic(dynamo.RK4, len(snapshots))
	for i, s := range snapshots {
		dyn.Append(float64(i)*0.1, s)
	}
	return dyn
}

func TestAllocateSyncEnsembles(t *testing.T) {
	a := New(newDynamic(dynamo.State{0.01, 3.14, 6.27, 3.15, 1.0}))

	got, err := a.AllocateSyncEnsembles(0.1, nil, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 2}, {1, 3}, {4}}, got)
}

func TestAllocateSyncEnsemblesPartition(t *testing.T) {
	phases := dynamo.State{0.3, 2.9, 0.35, 4.1, 2.95, 6.2, 0.31, 4.0}
	a := New(newDynamic(phases))

	got, err := a.AllocateSyncEnsembles(0.2, nil, 0)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, ensemble := range got {
		require.NotEmpty(t, ensemble)
		for _, idx := range ensemble {
			seen[idx]++
		}
	}
	assert.Len(t, seen, len(phases))
	for idx, count := range seen {
		assert.Equal(t, 1, count, "oscillator %d", idx)
	}
}

func TestAllocateSyncEnsemblesTolerance(t *testing.T) {
	phases := dynamo.State{0.5, 1.7, 3.1, 5.9}
	a := New(newDynamic(phases))

	all, err := a.AllocateSyncEnsembles(dynamo.TwoPi, nil, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, all)

	singles, err := a.AllocateSyncEnsembles(0, nil, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}, {2}, {3}}, singles)

	same := New(newDynamic(dynamo.State{1, 1, 2}))
	got, err := same.AllocateSyncEnsembles(0, nil, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {2}}, got)
}

func TestAllocateSyncEnsemblesIndexes(t *testing.T) {
	a := New(newDynamic(dynamo.State{1, 4, 1.01}))

	got, err := a.AllocateSyncEnsembles(0.1, []int{10, 20, 30}, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{10, 30}, {20}}, got)

	_, err = a.AllocateSyncEnsembles(0.1, []int{1, 2}, Last)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestAllocateSyncEnsemblesEmpty(t *testing.T) {
	got, err := New(nil).AllocateSyncEnsembles(0.1, nil, Last)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = New(newDynamic(dynamo.State{})).AllocateSyncEnsembles(0.1, nil, Last)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIterationSelection(t *testing.T) {
	a := New(newDynamic(dynamo.State{0, 0}, dynamo.State{0, math.Pi}))
	assert.Equal(t, 2, a.Len())

	first, err := a.GlobalOrder(0)
	require.NoError(t, err)
	assert.InDelta(t, 1, first, 1e-12)

	last, err := a.GlobalOrder(Last)
	require.NoError(t, err)
	assert.InDelta(t, 0, last, 1e-12)

	_, err = a.Snapshot(2)
	assert.ErrorIs(t, err, ErrIterationOutOfRange)
	_, err = a.Snapshot(-2)
	assert.ErrorIs(t, err, ErrIterationOutOfRange)
	_, err = New(nil).GlobalOrder(Last)
	assert.ErrorIs(t, err, ErrIterationOutOfRange)
}

func TestOrderSeries(t *testing.T) {
	a := New(newDynamic(
		dynamo.State{0, math.Pi},
		dynamo.State{0, math.Pi / 2},
		dynamo.State{1, 1},
	))

	series, err := a.OrderSeries(0, -1)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 0, series[0], 1e-12)
	assert.InDelta(t, math.Sqrt2/2, series[1], 1e-12)
	assert.InDelta(t, 1, series[2], 1e-12)

	tail, err := a.OrderSeries(1, 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	_, err = a.OrderSeries(2, 1)
	assert.ErrorIs(t, err, ErrIterationOutOfRange)
	_, err = a.OrderSeries(0, 4)
	assert.ErrorIs(t, err, ErrIterationOutOfRange)

	g, err := topology.Construct(2, topology.AllToAll, topology.DenseMatrix)
	require.NoError(t, err)
	local, err := a.LocalOrderSeries(g, 0, -1)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-math.Pi), local[0], 1e-12)
	assert.InDelta(t, 1, local[2], 1e-12)

	lo, err := a.LocalOrder(g, Last)
	require.NoError(t, err)
	assert.InDelta(t, 1, lo, 1e-12)
}

func TestLiteralFormulaOption(t *testing.T) {
	phases := dynamo.State{0.5, 2.5}
	a := New(newDynamic(phases), WithOrderFormula(Literal))

	r, err := a.GlobalOrder(Last)
	require.NoError(t, err)
	assert.InDelta(t, LiteralGlobalOrder(phases), r, 1e-12)
}

func TestCorrelationMatrix(t *testing.T) {
	a := New(newDynamic(dynamo.State{0, math.Pi / 2, math.Pi}))

	m, err := a.CorrelationMatrix(Last)
	require.NoError(t, err)
	require.Len(t, m, 3)

	for i := range m {
		assert.InDelta(t, 0, m[i][i], 1e-12)
		for j := range m[i] {
			assert.InDelta(t, m[i][j], m[j][i], 1e-12)
			assert.GreaterOrEqual(t, m[i][j], 0.0)
			assert.LessOrEqual(t, m[i][j], 1.0)
		}
	}
	assert.InDelta(t, 1, m[0][1], 1e-12)
	assert.InDelta(t, 0, m[0][2], 1e-12)
}

func TestPhaseMatrix(t *testing.T) {
	a := New(newDynamic(dynamo.State{0, 1, 2, 3, 4, 5}))

	m, err := a.PhaseMatrix(3, 2, Last)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 2}, {3, 4, 5}}, m)

	_, err = a.PhaseMatrix(4, 2, Last)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}
