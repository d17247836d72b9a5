package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// TwoPi is the length of the canonical phase interval [0, 2π).
const TwoPi = 2 * math.Pi

// State is a phase vector, one entry per oscillator.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Wrap folds every phase back into [0, 2π) in place and returns s.
func (s State) Wrap() State {
	for i, v := range s {
		s[i] = WrapPhase(v)
	}
	return s
}

// WrapPhase folds theta into [0, 2π) by repeated ±2π adjustment.
func WrapPhase(theta float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return theta
	}
	// Large overshoots are reduced in one go; the loops below settle the rest.
	if theta >= 4*TwoPi || theta <= -4*TwoPi {
		theta = math.Mod(theta, TwoPi)
	}
	for theta < 0 {
		theta += TwoPi
	}
	// theta+2π rounds up to exactly 2π for tiny negative inputs; this loop folds it to 0.
	for theta >= TwoPi {
		theta -= TwoPi
	}
	return theta
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a System from t to t+dt.
type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, h, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Solver selects the numerical integrator used for one simulation call.
type Solver int

const (
	Fast Solver = iota
	RK4
	RKF45
)

func (s Solver) String() string {
	switch s {
	case Fast:
		return "fast"
	case RK4:
		return "rk4"
	case RKF45:
		return "rkf45"
	default:
		return fmt.Sprintf("solver(%d)", int(s))
	}
}

func (s Solver) Valid() bool {
	return s == Fast || s == RK4 || s == RKF45
}

// ParseSolver maps a solver name to its Solver.
func ParseSolver(name string) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fast":
		return Fast, nil
	case "rk4":
		return RK4, nil
	case "rkf45", "rk45":
		return RKF45, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedSolver, name)
	}
}

// Termination records why a simulation call returned.
type Termination int

const (
	// Completed marks a fixed-length run.
	Completed Termination = iota
	// Converged marks a dynamic run that reached the target local order.
	Converged
	// Stagnated marks a dynamic run whose local order stopped changing.
	Stagnated
)

func (t Termination) String() string {
	switch t {
	case Completed:
		return "completed"
	case Converged:
		return "converged"
	case Stagnated:
		return "stagnated"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// ParseTermination maps a termination name back to its value.
func ParseTermination(name string) (Termination, error) {
	for _, t := range []Termination{Completed, Converged, Stagnated} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("dynamo: unknown termination %q", name)
}

// Dynamic is the output of one simulation call: an ordered sequence of
// (time, phases) snapshots. It is not modified after the call returns.
type Dynamic struct {
	Times       []float64
	Phases      []State
	Solver      Solver
	Termination Termination
	Metrics     map[string]float64
	StepsTaken  int
	// UncheckedSteps counts adaptive steps that fell back to a single
	// step without meeting the error tolerance.
	UncheckedSteps int
}

func NewDynamic(solver Solver, capacity int) *Dynamic {
	if capacity < 1 {
		capacity = 1
	}
	return &Dynamic{
		Times:   make([]float64, 0, capacity),
		Phases:  make([]State, 0, capacity),
		Solver:  solver,
		Metrics: make(map[string]float64),
	}
}

// Append records a copy of x at time t.
func (d *Dynamic) Append(t float64, x State) {
	d.Times = append(d.Times, t)
	d.Phases = append(d.Phases, x.Clone())
}

func (d *Dynamic) Len() int { return len(d.Phases) }

// Oscillators returns the phase vector width, 0 for an empty dynamic.
func (d *Dynamic) Oscillators() int {
	if len(d.Phases) == 0 {
		return 0
	}
	return len(d.Phases[0])
}

func (d *Dynamic) Last() (float64, State) {
	if len(d.Phases) == 0 {
		return 0, nil
	}
	i := len(d.Phases) - 1
	return d.Times[i], d.Phases[i]
}
