package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscnet/internal/config"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/logging"
	"github.com/san-kum/oscnet/internal/syncnet"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. The preset, or the default
// configuration when none is named, is decoded over by the config block so
// a step only lists the keys it changes.
type ScenarioStep struct {
	Label  string    `yaml:"label"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Label   string
	Config  *config.Config
	Network *syncnet.Network
	Dynamic *dynamo.Dynamic
	Elapsed time.Duration
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrConfiguration, scenario.Name)
	}
	return &scenario, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

// Resolve builds the validated configuration of one step.
func (s *ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrConfiguration, s.Preset)
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Simulate runs net according to the simulation section of cfg.
func Simulate(net *syncnet.Network, cfg *config.Config, solver dynamo.Solver) (*dynamo.Dynamic, error) {
	if cfg.Mode() == config.ModeStatic {
		return net.SimulateStatic(cfg.Simulation.Steps, cfg.Simulation.Time, solver, cfg.Simulation.Collect)
	}
	dc, err := cfg.DynamicConfig()
	if err != nil {
		return nil, err
	}
	dc.Solver = solver
	return net.SimulateDynamic(dc)
}

// RunScenario executes all steps in order. Results of the steps that
// finished are returned along with the first error.
func RunScenario(ctx context.Context, scenario *Scenario, log *logging.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.NoopLogger()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		step := &scenario.Steps[i]

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		nc, err := cfg.SyncnetConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		solver, err := cfg.Solver()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		label := step.Label
		if label == "" {
			label = fmt.Sprintf("%s-%d", nc.Topology, i+1)
		}

		net, err := syncnet.New(nc, syncnet.WithLogger(log.WithStep(label)))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		start := time.Now()
		dyn, err := Simulate(net, cfg, solver)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Label:   label,
			Config:  cfg,
			Network: net,
			Dynamic: dyn,
			Elapsed: time.Since(start),
		})
	}

	return results, nil
}
