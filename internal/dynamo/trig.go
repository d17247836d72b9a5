package dynamo

import "math"

// TrigTable provides precomputed sin values for fast lookup.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	n   int
}

// NewTrigTable creates a precomputed lookup table with n entries over [0, 2π).
func NewTrigTable(n int) *TrigTable {
	if n < 2 {
		n = 2
	}
	t := &TrigTable{
		sin: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * TwoPi / float64(n)
		t.sin[i] = math.Sin(angle)
	}

	return t
}

// Size returns the number of table entries.
func (t *TrigTable) Size() int { return t.n }

// Sin returns approximate sin using table lookup with interpolation
func (t *TrigTable) Sin(x float64) float64 {
	x = math.Mod(x, TwoPi)
	if x < 0 {
		x += TwoPi
	}

	// Map to table index
	idx := x * float64(t.n) / TwoPi
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}
