package integrators

import "github.com/san-kum/oscnet/internal/dynamo"

// RK4 integrates [t, t+dt] with Substeps classical Runge-Kutta steps of
// dt/Substeps and wraps the result into [0, 2π).
type RK4 struct {
	Substeps int

	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4(substeps int) *RK4 {
	if substeps < 1 {
		substeps = 1
	}
	return &RK4{Substeps: substeps}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	substeps := r.Substeps
	if substeps < 1 {
		substeps = 1
	}
	h := dt / float64(substeps)

	result := x.Clone()
	for s := 0; s < substeps; s++ {
		r.step(sys, result, t+float64(s)*h, h)
	}
	return result.Wrap()
}

// step advances x in place by one classical RK4 step of size h.
func (r *RK4) step(sys dynamo.System, x dynamo.State, t, h float64) {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+h*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, t+h*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, t+h))

	h6 := h / 6.0
	for i := 0; i < n; i++ {
		x[i] += h6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
}
