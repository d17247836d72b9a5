package syncnet

import (
	"fmt"
	"strings"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/topology"
)

// InitialPhase selects how oscillator phases are seeded.
type InitialPhase int

const (
	// RandomGaussian draws θ_i uniformly from [0, 2π). The name is historical.
	RandomGaussian InitialPhase = iota
	// Equipartition places θ_i = π·i/N.
	Equipartition
)

func (p InitialPhase) String() string {
	switch p {
	case RandomGaussian:
		return "random"
	case Equipartition:
		return "equipartition"
	default:
		return fmt.Sprintf("initial_phase(%d)", int(p))
	}
}

func ParseInitialPhase(name string) (InitialPhase, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "random_gauss", "random_gaussian", "":
		return RandomGaussian, nil
	case "equipartition":
		return Equipartition, nil
	default:
		return 0, fmt.Errorf("%w: unknown initial phase %q", dynamo.ErrConfiguration, name)
	}
}

// Config describes a network at construction time.
type Config struct {
	N              int
	Topology       topology.Kind
	Representation topology.Representation
	InitialPhase   InitialPhase

	// CouplingWeight is K. Negative values drive neighbors apart.
	CouplingWeight float64
	// FrequencyScale scales the seeded natural frequencies ω_i ~ U(0,1).
	FrequencyScale float64

	// WeightedCoupling rescales edge distances into coupling weights.
	// Only meaningful with source points.
	WeightedCoupling bool
	Points           [][]float64
	Radius           float64

	Seed    int64
	Backend string
}

func DefaultConfig() Config {
	return Config{
		N:              10,
		Topology:       topology.AllToAll,
		Representation: topology.DenseMatrix,
		InitialPhase:   RandomGaussian,
		CouplingWeight: 1,
		FrequencyScale: 0,
		Seed:           1,
		Backend:        "cpu",
	}
}

func (c Config) validate() error {
	if c.InitialPhase != RandomGaussian && c.InitialPhase != Equipartition {
		return fmt.Errorf("%w: unknown initial phase %d", dynamo.ErrConfiguration, int(c.InitialPhase))
	}
	if c.WeightedCoupling {
		if len(c.Points) == 0 {
			return fmt.Errorf("%w: weighted coupling requires source points", dynamo.ErrConfiguration)
		}
		if len(c.Points) != c.N {
			return fmt.Errorf("%w: weighted coupling needs %d points, got %d", dynamo.ErrConfiguration, c.N, len(c.Points))
		}
		dim := len(c.Points[0])
		for i, p := range c.Points {
			if len(p) == 0 || len(p) != dim {
				return fmt.Errorf("%w: point %d has %d dimensions, expected %d", dynamo.ErrConfiguration, i, len(p), dim)
			}
		}
	}
	return nil
}

// DynamicConfig controls SimulateDynamic.
type DynamicConfig struct {
	// Order is the local order parameter at which the run converges, in (0, 1].
	Order  float64
	Solver dynamo.Solver
	// Collect records every macro step instead of only the final state.
	Collect bool
	// Step is the macro step Δ; IntStep is the integrator sub-step.
	Step    float64
	IntStep float64
	// StagnationThreshold ends the run once the local order changes by less
	// than this between macro steps.
	StagnationThreshold float64
	// MaxSteps bounds the number of macro steps; 0 means unbounded.
	MaxSteps int
}

func DefaultDynamicConfig() DynamicConfig {
	return DynamicConfig{
		Order:               0.998,
		Solver:              dynamo.RK4,
		Collect:             true,
		Step:                0.1,
		IntStep:             0.01,
		StagnationThreshold: 1e-7,
	}
}

func (c DynamicConfig) validate() error {
	if !(c.Order > 0 && c.Order <= 1) {
		return fmt.Errorf("%w: order must be in (0, 1], got %v", dynamo.ErrConfiguration, c.Order)
	}
	if !(c.Step > 0) {
		return fmt.Errorf("%w: step must be positive, got %v", dynamo.ErrConfiguration, c.Step)
	}
	if !(c.IntStep > 0 && c.IntStep <= c.Step) {
		return fmt.Errorf("%w: int_step must be in (0, step], got %v", dynamo.ErrConfiguration, c.IntStep)
	}
	if c.StagnationThreshold < 0 {
		return fmt.Errorf("%w: stagnation threshold must not be negative", dynamo.ErrConfiguration)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative", dynamo.ErrConfiguration)
	}
	return nil
}

// substeps returns the number of integrator sub-steps per macro step.
func (c DynamicConfig) substeps() int {
	s := int(c.Step/c.IntStep + 0.5)
	if s < 1 {
		s = 1
	}
	return s
}
