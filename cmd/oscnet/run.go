package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/automation"
	"github.com/san-kum/oscnet/internal/config"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/metrics"
	"github.com/san-kum/oscnet/internal/sim"
	"github.com/san-kum/oscnet/internal/storage"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/viz"
)

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("n") {
		cfg.Network.N = n
	}
	if changed("topology") {
		cfg.Network.Topology = topologyName
	}
	if changed("repr") {
		cfg.Network.Representation = representation
	}
	if changed("initial") {
		cfg.Network.InitialPhase = initialPhase
	}
	if changed("coupling") {
		cfg.Network.Coupling = coupling
	}
	if changed("freq") {
		cfg.Network.FrequencyScale = frequencyScale
	}
	if changed("seed") {
		cfg.Network.Seed = seed
	}
	if changed("backend") {
		cfg.Network.Backend = backendName
	}
	if changed("mode") {
		cfg.Simulation.Mode = mode
	}
	if changed("steps") {
		cfg.Simulation.Steps = steps
	}
	if changed("time") {
		cfg.Simulation.Time = totalTime
	}
	if changed("solver") {
		cfg.Simulation.Solver = solverName
	}
	if changed("collect") {
		cfg.Simulation.Collect = collect
	}
	if changed("order") {
		cfg.Simulation.Order = order
	}
	if changed("step") {
		cfg.Simulation.Step = macroStep
	}
	if changed("int-step") {
		cfg.Simulation.IntStep = intStep
	}
	if changed("max-steps") {
		cfg.Simulation.MaxSteps = maxSteps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nc, err := cfg.SyncnetConfig()
	if err != nil {
		return err
	}
	solver, err := cfg.Solver()
	if err != nil {
		return err
	}
	formula, err := cfg.OrderFormula()
	if err != nil {
		return err
	}

	net, err := syncnet.New(nc, syncnet.WithLogger(newLogger()))
	if err != nil {
		return err
	}
	net.AddMetric(metrics.NewOrderParameter(formula))
	net.AddMetric(metrics.NewMeanOrder())
	net.AddMetric(metrics.NewLocalOrder(net.Graph()))
	net.AddMetric(metrics.NewSyncTime(0.95))

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s network, %d oscillators", nc.Topology, nc.N)))
	start := time.Now()

	dyn, err := automation.Simulate(net, cfg, solver)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Metric("termination", viz.Status(dyn.Termination.String())))
	fmt.Println(viz.Metric("elapsed", elapsed.String()))
	fmt.Println(viz.Metric("steps", humanize.Comma(int64(dyn.StepsTaken))))
	fmt.Println(viz.Metric("snapshots", humanize.Comma(int64(dyn.Len()))))
	fmt.Println(viz.Metric("local order", fmt.Sprintf("%.6f", net.LocalOrder())))
	fmt.Println(viz.Metric("global order", fmt.Sprintf("%.6f", formula.Order(net.Phases()))))

	if series, err := analysis.New(dyn, analysis.WithOrderFormula(formula)).OrderSeries(0, -1); err == nil && len(series) > 1 {
		fmt.Println(viz.Metric("order", viz.Sparkline(series, 60)))
	}

	fmt.Println(viz.Separator(60))
	fmt.Println(viz.HeaderStyle.Render("metrics"))
	for _, name := range sortedKeys(dyn.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, dyn.Metrics[name])
	}

	if showRing {
		fmt.Println()
		fmt.Print(viz.PhaseRing(net.Phases(), 20, 10))
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runLabel := label
	if runLabel == "" {
		runLabel = nc.Topology.String()
	}
	runID, err := st.Save(storage.RunMetadata{
		Label:          runLabel,
		Oscillators:    nc.N,
		Topology:       nc.Topology.String(),
		Representation: nc.Representation.String(),
		Seed:           nc.Seed,
		Coupling:       nc.CouplingWeight,
		Mode:           cfg.Mode(),
		FinalOrder:     formula.Order(net.Phases()),
	}, dyn)
	if err != nil {
		return err
	}

	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nc, err := cfg.SyncnetConfig()
	if err != nil {
		return err
	}

	fmt.Printf("comparing solvers on %s (n=%d, mode=%s)\n\n", nc.Topology, nc.N, cfg.Mode())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tTERMINATION\tSTEPS\tLOCAL\tGLOBAL\tTIME")

	for _, name := range args {
		solver, err := dynamo.ParseSolver(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, err)
			continue
		}

		net, err := syncnet.New(nc, syncnet.WithLogger(newLogger()))
		if err != nil {
			return err
		}

		start := time.Now()
		dyn, err := automation.Simulate(net, cfg, solver)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\t%.6f\t%s\n",
			solver,
			dyn.Termination,
			dyn.StepsTaken,
			net.LocalOrder(),
			net.GlobalOrder(),
			elapsed.Round(time.Microsecond),
		)
	}

	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nc, err := cfg.SyncnetConfig()
	if err != nil {
		return err
	}
	solver, err := cfg.Solver()
	if err != nil {
		return err
	}

	tr := sim.NewTrials(nc, runs, nc.Seed)
	tr.Parallelism = parallelism
	tr.Logger = newLogger()

	start := time.Now()
	results, err := tr.Run(context.Background(), func(net *syncnet.Network) (*dynamo.Dynamic, error) {
		return automation.Simulate(net, cfg, solver)
	})
	if err != nil {
		return err
	}

	s := sim.Summarize(results)
	fmt.Println(viz.Title.Render(fmt.Sprintf("%d trials of %s, seeds %d..%d", s.Runs, nc.Topology, nc.Seed, nc.Seed+int64(runs)-1)))
	fmt.Println(viz.Metric("converged", fmt.Sprintf("%d/%d", s.Converged, s.Runs)))
	fmt.Println(viz.Metric("global order", fmt.Sprintf("mean %.4f  min %.4f  max %.4f", s.MeanOrder, s.MinOrder, s.MaxOrder)))
	fmt.Println(viz.Metric("mean steps", fmt.Sprintf("%.1f", s.MeanSteps)))
	fmt.Println(viz.Metric("elapsed", time.Since(start).String()))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tN\tTOPOLOGY\tMODE\tSOLVER\tCOUPLING")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%g\n",
			name,
			p.Network.N,
			p.Network.Topology,
			p.Simulation.Mode,
			strings.ToLower(p.Simulation.Solver),
			p.Network.Coupling,
		)
	}
	return w.Flush()
}
