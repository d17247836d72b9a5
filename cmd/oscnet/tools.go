package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/automation"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/export"
	"github.com/san-kum/oscnet/internal/optim"
	"github.com/san-kum/oscnet/internal/storage"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/tui"
	"github.com/san-kum/oscnet/internal/viz"
)

var (
	sweepParam     string
	sweepFrom      float64
	sweepTo        float64
	sweepPoints    int
	sweepObjective string

	svgKind   string
	svgWidth  int
	svgHeight int
)

func sweepParameter(cmd *cobra.Command, args []string) error {
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

	var score optim.Objective
	switch sweepObjective {
	case "global":
		score = optim.FinalGlobalOrder
	case "local":
		score = optim.FinalLocalOrder
	default:
		return fmt.Errorf("unknown objective %q (global, local)", sweepObjective)
	}

	gs, err := optim.NewGridSearch([]string{sweepParam}, [][]float64{optim.Linspace(sweepFrom, sweepTo, sweepPoints)})
	if err != nil {
		return err
	}

	start := time.Now()
	best, all, err := gs.Search(context.Background(), nc, func(net *syncnet.Network) (*dynamo.Dynamic, error) {
		return automation.Simulate(net, cfg, solver)
	}, score, syncnet.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s sweep on %s (n=%d)", sweepParam, nc.Topology, nc.N)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTERMINATION\tSTEPS\t%s ORDER\n", sweepParam, sweepObjective)
	series := make([]float64, 0, len(all))
	for _, p := range all {
		fmt.Fprintf(w, "%g\t%s\t%d\t%.6f\n", p.Params[sweepParam], p.Termination, p.Steps, p.Score)
		series = append(series, p.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if len(series) > 1 {
		fmt.Println(viz.Metric("order", viz.Sparkline(series, 60)))
	}
	fmt.Println(viz.Metric("best", fmt.Sprintf("%s=%g (%.6f)", sweepParam, best.Params[sweepParam], best.Score)))
	fmt.Println(viz.Metric("elapsed", time.Since(start).String()))
	return nil
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	name := sc.Name
	if name == "" {
		name = args[0]
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("scenario %s, %d steps", name, len(sc.Steps))))
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}

	results, runErr := automation.RunScenario(context.Background(), sc, newLogger())

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTOPOLOGY\tN\tTERMINATION\tSTEPS\tGLOBAL\tTIME\tRUN")
	for _, r := range results {
		formula, _ := r.Config.OrderFormula()
		nc := r.Network.Config()
		final := formula.Order(r.Network.Phases())

		runID := "-"
		if st != nil {
			runID, err = st.Save(storage.RunMetadata{
				Label:          r.Label,
				Oscillators:    nc.N,
				Topology:       nc.Topology.String(),
				Representation: nc.Representation.String(),
				Seed:           nc.Seed,
				Coupling:       nc.CouplingWeight,
				Mode:           r.Config.Mode(),
				FinalOrder:     final,
			}, r.Dynamic)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.6f\t%s\t%s\n",
			r.Label,
			nc.Topology,
			nc.N,
			r.Dynamic.Termination,
			humanize.Comma(int64(r.Dynamic.StepsTaken)),
			final,
			r.Elapsed.Round(time.Microsecond),
			runID,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}
	_, last := dyn.Last()

	var svg string
	switch svgKind {
	case "order":
		series, err := analysis.New(dyn).OrderSeries(0, -1)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(dyn.Times, series, svgWidth, svgHeight, "#00ffff")
		if svg == "" {
			return fmt.Errorf("run %s has fewer than two snapshots", args[0])
		}
	case "ring":
		svg = export.PhaseRingSVG(last, svgWidth)
	case "canvas":
		svg = export.CanvasToSVG(viz.PhaseRingCanvas(last, 20, 10), 4)
	default:
		return fmt.Errorf("unknown svg kind %q (order, ring, canvas)", svgKind)
	}

	out, done, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer done()
	_, err = fmt.Fprintln(out, svg)
	return err
}

func watchNetwork(cmd *cobra.Command, args []string) error {
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

	return tui.Run(tui.WatchConfig{
		Network: nc,
		Solver:  solver,
		Step:    cfg.Simulation.Step,
		Order:   cfg.Simulation.Order,
	})
}
