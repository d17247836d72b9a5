package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for network construction and simulation.
var (
	// ErrConfiguration is the root of every construction-time configuration failure.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrEmptyNetwork indicates a network with zero oscillators.
	ErrEmptyNetwork = fmt.Errorf("%w: network must contain at least one oscillator", ErrConfiguration)

	// ErrInvalidTopology indicates a topology that cannot be built for the given size or parameters.
	ErrInvalidTopology = fmt.Errorf("%w: invalid topology", ErrConfiguration)

	// ErrUnsupportedSolver indicates an unknown integrator was requested.
	ErrUnsupportedSolver = errors.New("dynamo: unsupported solver")

	// ErrTopology indicates an operation the current topology kind does not support.
	ErrTopology = errors.New("dynamo: operation not supported by topology")

	// ErrInvalidState indicates a phase vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
