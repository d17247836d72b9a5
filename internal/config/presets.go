package config

import "sort"

// Presets are named starting points for common network setups.
var Presets = map[string]*Config{
	"grid-sync": {
		Network: NetworkConfig{
			N: 25, Topology: "grid_four", Representation: "matrix", InitialPhase: "random",
			Coupling: 1, Seed: 1, Backend: "cpu",
		},
		Simulation: SimulationConfig{
			Mode: ModeDynamic, Solver: "rk4", Collect: true,
			Order: 0.998, Step: 0.1, IntStep: 0.01, Stagnation: 1e-7,
		},
		Analysis: AnalysisConfig{Tolerance: 0.1, OrderFormula: "standard"},
	},
	"grid-eight": {
		Network: NetworkConfig{
			N: 36, Topology: "grid_eight", Representation: "list", InitialPhase: "random",
			Coupling: 2, Seed: 1, Backend: "cpu",
		},
		Simulation: SimulationConfig{
			Mode: ModeDynamic, Solver: "rkf45", Collect: true,
			Order: 0.99, Step: 0.1, IntStep: 0.01, Stagnation: 1e-7,
		},
		Analysis: AnalysisConfig{Tolerance: 0.1, OrderFormula: "standard"},
	},
	"chain-wave": {
		Network: NetworkConfig{
			N: 16, Topology: "bidir_chain", Representation: "list", InitialPhase: "equipartition",
			Coupling: 1, Seed: 1, Backend: "cpu",
		},
		Simulation: SimulationConfig{
			Mode: ModeStatic, Steps: 200, Time: 20, Solver: "rk4", Collect: true,
		},
		Analysis: AnalysisConfig{Tolerance: 0.1, OrderFormula: "standard"},
	},
	"all-to-all": {
		Network: NetworkConfig{
			N: 50, Topology: "all_to_all", Representation: "matrix", InitialPhase: "random",
			Coupling: 2, FrequencyScale: 0.5, Seed: 1, Backend: "cpu",
		},
		Simulation: SimulationConfig{
			Mode: ModeStatic, Steps: 100, Time: 10, Solver: "rk4", Collect: true,
		},
		Analysis: AnalysisConfig{Tolerance: 0.1, OrderFormula: "standard"},
	},
	"anti-phase": {
		Network: NetworkConfig{
			N: 16, Topology: "grid_four", Representation: "matrix", InitialPhase: "random",
			Coupling: -1, Seed: 1, Backend: "cpu",
		},
		Simulation: SimulationConfig{
			Mode: ModeStatic, Steps: 300, Time: 30, Solver: "rk4", Collect: true,
		},
		Analysis: AnalysisConfig{Tolerance: 0.2, OrderFormula: "standard"},
	},
	"fast-table": {
		Network: NetworkConfig{
			N: 100, Topology: "all_to_all", Representation: "matrix", InitialPhase: "random",
			Coupling: 0.05, Seed: 1, Backend: "table",
		},
		Simulation: SimulationConfig{
			Mode: ModeStatic, Steps: 50, Time: 50, Solver: "fast", Collect: true,
		},
		Analysis: AnalysisConfig{Tolerance: 0.1, OrderFormula: "literal"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	if p.Network.Points != nil {
		cfg.Network.Points = make([][]float64, len(p.Network.Points))
		for i, pt := range p.Network.Points {
			cfg.Network.Points[i] = append([]float64(nil), pt...)
		}
	}
	return &cfg
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
