package integrators

import "github.com/san-kum/oscnet/internal/dynamo"

// Fast applies one explicit update x + f(x) per call. The step size is not
// applied to the derivative: one call advances the network by one unit of
// phase velocity regardless of dt.
type Fast struct{}

func NewFast() *Fast {
	return &Fast{}
}

func (f *Fast) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dx[i]
	}
	return result.Wrap()
}
