package topology

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// storage is the backing store of a Graph. connect is only called during
// construction; neighbors must return indices in ascending order.
type storage interface {
	connect(i, j int)
	has(i, j int) bool
	neighbors(i int) []int
	degree(i int) int
	reset()
}

func newStorage(repr Representation, n int) storage {
	if repr == AdjacencyList {
		return newListStorage(n)
	}
	return newMatrixStorage(n)
}

type matrixStorage struct {
	rows []*bitset.BitSet
}

func newMatrixStorage(n int) *matrixStorage {
	rows := make([]*bitset.BitSet, n)
	for i := range rows {
		rows[i] = bitset.New(uint(n))
	}
	return &matrixStorage{rows: rows}
}

func (m *matrixStorage) connect(i, j int) {
	m.rows[i].Set(uint(j))
	m.rows[j].Set(uint(i))
}

func (m *matrixStorage) has(i, j int) bool {
	return m.rows[i].Test(uint(j))
}

func (m *matrixStorage) neighbors(i int) []int {
	row := m.rows[i]
	out := make([]int, 0, row.Count())
	for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
		out = append(out, int(j))
	}
	return out
}

func (m *matrixStorage) degree(i int) int {
	return int(m.rows[i].Count())
}

func (m *matrixStorage) reset() {
	for _, row := range m.rows {
		row.ClearAll()
	}
}

type listStorage struct {
	adj [][]int
}

func newListStorage(n int) *listStorage {
	return &listStorage{adj: make([][]int, n)}
}

func (l *listStorage) connect(i, j int) {
	l.adj[i] = insertSorted(l.adj[i], j)
	l.adj[j] = insertSorted(l.adj[j], i)
}

func insertSorted(s []int, v int) []int {
	pos, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, pos, v)
}

func (l *listStorage) has(i, j int) bool {
	_, found := slices.BinarySearch(l.adj[i], j)
	return found
}

func (l *listStorage) neighbors(i int) []int {
	return slices.Clone(l.adj[i])
}

func (l *listStorage) degree(i int) int {
	return len(l.adj[i])
}

func (l *listStorage) reset() {
	for i := range l.adj {
		l.adj[i] = l.adj[i][:0]
	}
}
