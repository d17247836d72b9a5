package integrators

import (
	"fmt"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// DefaultSubsteps is the number of sub-steps RK4 and RKF45 use per macro step.
const DefaultSubsteps = 10

// New returns a fresh integrator for solver. substeps is ignored by Fast.
func New(solver dynamo.Solver, substeps int) (dynamo.Integrator, error) {
	if !solver.Valid() {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedSolver, solver)
	}
	switch solver {
	case dynamo.Fast:
		return NewFast(), nil
	case dynamo.RK4:
		return NewRK4(substeps), nil
	case dynamo.RKF45:
		return NewRKF45(substeps), nil
	default:
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedSolver, solver)
	}
}
