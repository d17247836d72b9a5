package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscnet/internal/config"
	"github.com/san-kum/oscnet/internal/dynamo"
)

const twoStep = `
name: coupling-ramp
description: weak then strong coupling on a chain
steps:
  - label: weak
    preset: chain-wave
    config:
      network:
        coupling: 0
      simulation:
        steps: 10
        time: 1
  - config:
      network:
        n: 4
        topology: all_to_all
        initial_phase: equipartition
      simulation:
        mode: static
        steps: 5
        time: 1
        collect: false
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(twoStep))
	require.NoError(t, err)
	assert.Equal(t, "coupling-ramp", sc.Name)
	require.Len(t, sc.Steps, 2)

	cfg, err := sc.Steps[0].Resolve()
	require.NoError(t, err)
	assert.Equal(t, "bidir_chain", cfg.Network.Topology)
	assert.Equal(t, 16, cfg.Network.N)
	assert.Equal(t, 0.0, cfg.Network.Coupling)
	assert.Equal(t, 10, cfg.Simulation.Steps)

	cfg, err = sc.Steps[1].Resolve()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Network.Seed, cfg.Network.Seed)
	assert.Equal(t, 4, cfg.Network.N)
}

func TestParseScenarioErrors(t *testing.T) {
	_, err := ParseScenario([]byte("name: empty\n"))
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	_, err = ParseScenario([]byte("steps: [\n"))
	assert.Error(t, err)
}

func TestResolveUnknownPreset(t *testing.T) {
	step := ScenarioStep{Preset: "nope"}
	_, err := step.Resolve()
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoStep), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	results, err := RunScenario(context.Background(), sc, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "weak", results[0].Label)
	assert.Equal(t, dynamo.Completed, results[0].Dynamic.Termination)
	assert.Equal(t, 11, results[0].Dynamic.Len())

	assert.Equal(t, "all_to_all-2", results[1].Label)
	assert.Equal(t, 1, results[1].Dynamic.Len())
	assert.Equal(t, 4, results[1].Network.Size())
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Label: "ok", Preset: "chain-wave"}, {Preset: "missing"}}}

	results, err := RunScenario(context.Background(), sc, nil)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
	assert.Len(t, results, 1)
}

func TestRunScenarioCancelled(t *testing.T) {
	sc, err := ParseScenario([]byte(twoStep))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunScenario(ctx, sc, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
