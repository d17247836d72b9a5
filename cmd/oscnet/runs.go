package main

import (
	"encoding/csv"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/cluster"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/storage"
	"github.com/san-kum/oscnet/internal/topology"
	"github.com/san-kum/oscnet/internal/viz"
)

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tN\tTOPOLOGY\tSOLVER\tRESULT\tSTEPS\tORDER\tSIZE")

	for _, run := range runs {
		size := "?"
		if b, err := st.Size(run.ID); err == nil {
			size = humanize.Bytes(uint64(b))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%.4f\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			run.Oscillators,
			run.Topology,
			run.Solver,
			run.Termination,
			humanize.Comma(int64(run.Steps)),
			run.FinalOrder,
			size,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Dynamic, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	dyn, err := st.LoadDynamic(runID)
	if err != nil {
		return nil, nil, err
	}
	if dyn.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no snapshots", runID)
	}
	return meta, dyn, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	formula, err := analysis.ParseOrderFormula(orderFormula)
	if err != nil {
		return err
	}
	meta, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("network: %d oscillators, %s\n", meta.Oscillators, meta.Topology)
	fmt.Printf("samples: %d\n\n", dyn.Len())

	a := analysis.New(dyn, analysis.WithOrderFormula(formula))
	series, err := a.OrderSeries(0, -1)
	if err != nil {
		return err
	}
	if len(series) < 2 {
		fmt.Printf("%s order: %.6f\n", formula, series[0])
	} else {
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s order parameter", formula)),
		)
		fmt.Println(graph)
	}

	if showRing {
		_, last := dyn.Last()
		fmt.Println()
		fmt.Print(viz.PhaseRing(last, 20, 10))
	}
	return nil
}

func showEnsembles(cmd *cobra.Command, args []string) error {
	_, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}

	a := analysis.New(dyn)
	ensembles, err := a.AllocateSyncEnsembles(tolerance, nil, iteration)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%d ensembles (tolerance %g)", len(ensembles), tolerance)))
	for i, e := range ensembles {
		fmt.Printf("  %3d  size %-4d %v\n", i, len(e), e)
	}

	if gridWidth > 0 || gridHeight > 0 {
		matrix, err := a.PhaseMatrix(gridWidth, gridHeight, iteration)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(viz.PhaseGrid(matrix))
	}
	return nil
}

func showFrequencies(cmd *cobra.Command, args []string) error {
	_, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}

	freqs, err := analysis.New(dyn).DominantFrequencies()
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("dominant frequencies over %d snapshots", dyn.Len())))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OSCILLATOR\tFREQUENCY\tFINAL PHASE")
	_, last := dyn.Last()
	for i, f := range freqs {
		fmt.Fprintf(w, "%d\t%.4f\t%s\n", i, f, viz.MetricValue.Foreground(viz.PhaseColor(last[i])).Render(fmt.Sprintf("%.4f", last[i])))
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, done, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer done()

	return storage.WriteCSV(out, dyn)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, dyn, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, done, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer done()

	return storage.ExportJSON(out, meta, dyn, tolerance)
}

// readPoints parses one point per CSV row. A leading non-numeric row is
// treated as a header.
func readPoints(path string) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([][]float64, 0, len(records))
	for i, record := range records {
		p := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				if i == 0 {
					p = nil
					break
				}
				return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
			}
			p = append(p, v)
		}
		if p != nil {
			points = append(points, p)
		}
	}
	return points, nil
}

func clusterPoints(cmd *cobra.Command, args []string) error {
	points, err := readPoints(args[0])
	if err != nil {
		return err
	}
	solver, err := dynamo.ParseSolver(solverName)
	if err != nil {
		return err
	}
	repr, err := topology.ParseRepresentation(representation)
	if err != nil {
		return err
	}

	s, err := cluster.New(points, radius,
		cluster.WithRepresentation(repr),
		cluster.WithWeightedCoupling(weighted),
		cluster.WithSeed(seed),
		cluster.WithMinClusterSize(minSize),
		cluster.WithLogger(newLogger()),
	)
	if err != nil {
		return err
	}

	res, err := s.Process(order, solver, true)
	if err != nil {
		return err
	}

	clusters, err := res.Clusters(tolerance)
	if err != nil {
		return err
	}
	noise, err := res.Noise(tolerance)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%d points, radius %g", len(points), radius)))
	fmt.Println(viz.Metric("termination", viz.Status(res.Termination().String())))
	fmt.Println(viz.Metric("steps", humanize.Comma(int64(res.Dynamic().StepsTaken))))
	fmt.Println(viz.Metric("clusters", strconv.Itoa(len(clusters))))
	for i, c := range clusters {
		fmt.Printf("  %3d  size %-4d %v\n", i, len(c), c)
	}
	if len(noise) > 0 {
		fmt.Println(viz.Metric("noise", fmt.Sprint(noise)))
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	net := s.Network()
	runID, err := st.Save(storage.RunMetadata{
		Label:          "cluster",
		Oscillators:    net.Size(),
		Topology:       topology.DistanceThreshold.String(),
		Representation: repr.String(),
		Seed:           seed,
		Coupling:       net.Config().CouplingWeight,
		Mode:           "dynamic",
		FinalOrder:     net.GlobalOrder(),
	}, res.Dynamic())
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}
