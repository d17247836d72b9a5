package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/oscnet/internal/logging"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile string
	preset     string
	label      string
	noSave     bool

	n              int
	topologyName   string
	representation string
	initialPhase   string
	coupling       float64
	frequencyScale float64
	weighted       bool
	radius         float64
	seed           int64
	backendName    string

	mode       string
	steps      int
	totalTime  float64
	solverName string
	collect    bool
	order      float64
	macroStep  float64
	intStep    float64
	maxSteps   int

	tolerance    float64
	orderFormula string
	iteration    int
	gridWidth    int
	gridHeight   int
	showRing     bool
	outPath      string

	runs        int
	parallelism int
	minSize     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "oscnet",
		Short:        "oscillatory network synchronization and clustering",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".oscnet", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a network and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addNetworkFlags(runCmd)
	addSimulationFlags(runCmd)
	runCmd.Flags().StringVar(&label, "label", "", "run label (default: topology name)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showRing, "ring", false, "draw the final phases on the unit circle")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the order parameter of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&orderFormula, "formula", "standard", "order formula (standard, literal)")
	plotCmd.Flags().BoolVar(&showRing, "ring", false, "draw the final phases on the unit circle")

	ensemblesCmd := &cobra.Command{
		Use:   "ensembles [run_id]",
		Short: "allocate synchronization ensembles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showEnsembles,
	}
	ensemblesCmd.Flags().Float64Var(&tolerance, "tolerance", 0.1, "phase tolerance")
	ensemblesCmd.Flags().IntVar(&iteration, "iteration", -1, "snapshot index (-1 for last)")
	ensemblesCmd.Flags().IntVar(&gridWidth, "grid-width", 0, "render the phase matrix with this width")
	ensemblesCmd.Flags().IntVar(&gridHeight, "grid-height", 0, "render the phase matrix with this height")

	frequenciesCmd := &cobra.Command{
		Use:   "frequencies [run_id]",
		Short: "estimate the dominant frequency of every oscillator of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showFrequencies,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "animate a network in the terminal",
		Args:  cobra.NoArgs,
		RunE:  watchNetwork,
	}
	addNetworkFlags(watchCmd)
	addSimulationFlags(watchCmd)

	clusterCmd := &cobra.Command{
		Use:   "cluster [points.csv]",
		Short: "cluster points with a distance-threshold network",
		Args:  cobra.ExactArgs(1),
		RunE:  clusterPoints,
	}
	clusterCmd.Flags().Float64Var(&radius, "radius", 1.0, "connection radius")
	clusterCmd.Flags().Float64Var(&order, "order", 0.998, "target local order")
	clusterCmd.Flags().StringVar(&solverName, "solver", "rk4", "solver (fast, rk4, rkf45)")
	clusterCmd.Flags().Float64Var(&tolerance, "tolerance", 0.1, "phase tolerance")
	clusterCmd.Flags().IntVar(&minSize, "min-size", 1, "minimum cluster size; smaller ensembles are noise")
	clusterCmd.Flags().BoolVar(&weighted, "weighted", false, "weight coupling by distance")
	clusterCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	clusterCmd.Flags().StringVar(&representation, "repr", "matrix", "connectivity storage (matrix, list)")
	clusterCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run phases to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().Float64Var(&tolerance, "tolerance", 0.1, "phase tolerance for ensembles (0 to skip)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [solver1] [solver2] ...",
		Short: "compare solvers on the same network",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareSolvers,
	}
	addNetworkFlags(compareCmd)
	addSimulationFlags(compareCmd)

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "run independent seeds of one network concurrently",
		Args:  cobra.NoArgs,
		RunE:  runTrials,
	}
	addNetworkFlags(trialsCmd)
	addSimulationFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	trialsCmd.Flags().IntVar(&parallelism, "parallel", 0, "concurrent runs (default: CPU count)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one network parameter and report the final order",
		Args:  cobra.NoArgs,
		RunE:  sweepParameter,
	}
	addNetworkFlags(sweepCmd)
	addSimulationFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "coupling", "parameter (coupling, frequency_scale, radius, seed)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 4, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 9, "number of values")
	sweepCmd.Flags().StringVar(&sweepObjective, "objective", "global", "order to maximize (global, local)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the order series or final phases of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "order", "what to draw (order, ring, canvas)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 200, "image height (order only)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, ensemblesCmd, clusterCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, compareCmd, trialsCmd, sweepCmd, scenarioCmd, frequenciesCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addNetworkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&n, "n", 25, "number of oscillators")
	f.StringVar(&topologyName, "topology", "grid_four", "topology (none, all_to_all, grid_four, grid_eight, bidir_chain)")
	f.StringVar(&representation, "repr", "matrix", "connectivity storage (matrix, list)")
	f.StringVar(&initialPhase, "initial", "random", "initial phases (random, equipartition)")
	f.Float64Var(&coupling, "coupling", 1, "coupling strength K")
	f.Float64Var(&frequencyScale, "freq", 0, "natural frequency scale")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.StringVar(&backendName, "backend", "cpu", "coupling backend (cpu, table)")
}

func addSimulationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&mode, "mode", "dynamic", "simulation mode (static, dynamic)")
	f.IntVar(&steps, "steps", 100, "macro steps (static)")
	f.Float64Var(&totalTime, "time", 10, "total time (static)")
	f.StringVar(&solverName, "solver", "rk4", "solver (fast, rk4, rkf45)")
	f.BoolVar(&collect, "collect", true, "record every macro step")
	f.Float64Var(&order, "order", 0.998, "target local order (dynamic)")
	f.Float64Var(&macroStep, "step", 0.1, "macro step (dynamic)")
	f.Float64Var(&intStep, "int-step", 0.01, "integrator step (dynamic)")
	f.IntVar(&maxSteps, "max-steps", 0, "macro step bound (dynamic, 0 for none)")
}

func newLogger() *logging.Logger {
	level := logging.ParseLevel(logLevel)
	if logJSON {
		return logging.NewJSONLogger(os.Stderr, level)
	}
	return logging.NewTextLogger(os.Stderr, level)
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
