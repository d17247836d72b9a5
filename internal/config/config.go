package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/topology"
)

const (
	DefaultN         = 25
	DefaultSteps     = 100
	DefaultTime      = 10.0
	DefaultOrder     = 0.998
	DefaultStep      = 0.1
	DefaultIntStep   = 0.01
	DefaultStagnant  = 1e-7
	DefaultTolerance = 0.1
)

const (
	ModeStatic  = "static"
	ModeDynamic = "dynamic"
)

type Config struct {
	Network    NetworkConfig    `yaml:"network"`
	Simulation SimulationConfig `yaml:"simulation"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
}

type NetworkConfig struct {
	N              int         `yaml:"n"`
	Topology       string      `yaml:"topology"`
	Representation string      `yaml:"representation"`
	InitialPhase   string      `yaml:"initial_phase"`
	Coupling       float64     `yaml:"coupling"`
	FrequencyScale float64     `yaml:"frequency_scale"`
	Weighted       bool        `yaml:"weighted"`
	Radius         float64     `yaml:"radius"`
	Points         [][]float64 `yaml:"points,omitempty"`
	Seed           int64       `yaml:"seed"`
	Backend        string      `yaml:"backend"`
}

type SimulationConfig struct {
	Mode       string  `yaml:"mode"`
	Steps      int     `yaml:"steps"`
	Time       float64 `yaml:"time"`
	Solver     string  `yaml:"solver"`
	Collect    bool    `yaml:"collect"`
	Order      float64 `yaml:"order"`
	Step       float64 `yaml:"step"`
	IntStep    float64 `yaml:"int_step"`
	Stagnation float64 `yaml:"stagnation"`
	MaxSteps   int     `yaml:"max_steps"`
}

type AnalysisConfig struct {
	Tolerance    float64 `yaml:"tolerance"`
	OrderFormula string  `yaml:"order_formula"`
}

func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			N:              DefaultN,
			Topology:       topology.GridFour.String(),
			Representation: topology.DenseMatrix.String(),
			InitialPhase:   syncnet.RandomGaussian.String(),
			Coupling:       1,
			Seed:           1,
			Backend:        "cpu",
		},
		Simulation: SimulationConfig{
			Mode:       ModeDynamic,
			Steps:      DefaultSteps,
			Time:       DefaultTime,
			Solver:     dynamo.RK4.String(),
			Collect:    true,
			Order:      DefaultOrder,
			Step:       DefaultStep,
			IntStep:    DefaultIntStep,
			Stagnation: DefaultStagnant,
		},
		Analysis: AnalysisConfig{
			Tolerance:    DefaultTolerance,
			OrderFormula: analysis.Standard.String(),
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field that can be checked without building the
// network. Topology-specific constraints are reported by syncnet.New.
func (c *Config) Validate() error {
	if _, err := c.SyncnetConfig(); err != nil {
		return err
	}
	if _, err := c.Solver(); err != nil {
		return err
	}
	if _, err := c.OrderFormula(); err != nil {
		return err
	}
	if c.Analysis.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", dynamo.ErrConfiguration)
	}

	switch c.Mode() {
	case ModeStatic:
		if c.Simulation.Steps <= 0 {
			return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrConfiguration, c.Simulation.Steps)
		}
		if !(c.Simulation.Time > 0) {
			return fmt.Errorf("%w: time must be positive, got %v", dynamo.ErrConfiguration, c.Simulation.Time)
		}
	case ModeDynamic:
		s := c.Simulation
		if !(s.Order > 0 && s.Order <= 1) {
			return fmt.Errorf("%w: order must be in (0, 1], got %v", dynamo.ErrConfiguration, s.Order)
		}
		if !(s.Step > 0) || !(s.IntStep > 0 && s.IntStep <= s.Step) {
			return fmt.Errorf("%w: need 0 < int_step <= step, got %v and %v", dynamo.ErrConfiguration, s.IntStep, s.Step)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", dynamo.ErrConfiguration, c.Simulation.Mode)
	}
	return nil
}

func (c *Config) Mode() string {
	return strings.ToLower(strings.TrimSpace(c.Simulation.Mode))
}

func (c *Config) Solver() (dynamo.Solver, error) {
	return dynamo.ParseSolver(c.Simulation.Solver)
}

func (c *Config) OrderFormula() (analysis.OrderFormula, error) {
	return analysis.ParseOrderFormula(c.Analysis.OrderFormula)
}

// SyncnetConfig translates the network section for syncnet.New. A
// distance topology with points and no explicit n takes n from the points.
func (c *Config) SyncnetConfig() (syncnet.Config, error) {
	n := c.Network
	kind, err := topology.ParseKind(n.Topology)
	if err != nil {
		return syncnet.Config{}, err
	}
	repr, err := topology.ParseRepresentation(n.Representation)
	if err != nil {
		return syncnet.Config{}, err
	}
	phase, err := syncnet.ParseInitialPhase(n.InitialPhase)
	if err != nil {
		return syncnet.Config{}, err
	}

	size := n.N
	if kind == topology.DistanceThreshold && len(n.Points) > 0 {
		size = len(n.Points)
	}

	return syncnet.Config{
		N:                size,
		Topology:         kind,
		Representation:   repr,
		InitialPhase:     phase,
		CouplingWeight:   n.Coupling,
		FrequencyScale:   n.FrequencyScale,
		WeightedCoupling: n.Weighted,
		Points:           n.Points,
		Radius:           n.Radius,
		Seed:             n.Seed,
		Backend:          n.Backend,
	}, nil
}

func (c *Config) DynamicConfig() (syncnet.DynamicConfig, error) {
	solver, err := c.Solver()
	if err != nil {
		return syncnet.DynamicConfig{}, err
	}
	s := c.Simulation
	return syncnet.DynamicConfig{
		Order:               s.Order,
		Solver:              solver,
		Collect:             s.Collect,
		Step:                s.Step,
		IntStep:             s.IntStep,
		StagnationThreshold: s.Stagnation,
		MaxSteps:            s.MaxSteps,
	}, nil
}
