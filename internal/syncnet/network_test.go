package syncnet_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/compute"
	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/syncnet"
	"github.com/san-kum/oscnet/internal/topology"
)

// circularDiff is the signed distance between two phases folded into (−π, π].
func circularDiff(a, b float64) float64 {
	d := math.Mod(a-b, dynamo.TwoPi)
	if d > math.Pi {
		d -= dynamo.TwoPi
	} else if d <= -math.Pi {
		d += dynamo.TwoPi
	}
	return d
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                     { return "count" }
func (c *countingMetric) Observe(x dynamo.State, t float64) { c.count++ }
func (c *countingMetric) Value() float64                    { return float64(c.count) }
func (c *countingMetric) Reset()                            { c.count = 0 }

var _ = Describe("Network", func() {
	var cfg syncnet.Config

	BeforeEach(func() {
		cfg = syncnet.DefaultConfig()
	})

	Describe("construction", func() {
		It("rejects an empty network", func() {
			cfg.N = 0
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrEmptyNetwork))
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects a non-square grid", func() {
			cfg.N = 10
			cfg.Topology = topology.GridFour
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidTopology))
		})

		It("rejects an unknown backend", func() {
			cfg.Backend = "quantum"
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(compute.ErrUnknownBackend))
		})

		It("rejects weighted coupling without points", func() {
			cfg.WeightedCoupling = true
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects weighted coupling with a point count that differs from N", func() {
			cfg.N = 4
			cfg.WeightedCoupling = true
			cfg.Points = [][]float64{{0}, {1}}
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects weighted coupling with ragged points", func() {
			cfg.N = 2
			cfg.WeightedCoupling = true
			cfg.Points = [][]float64{{0}, {1, 2}}
			_, err := syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))

			cfg.Points = [][]float64{{0}, {}}
			_, err = syncnet.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("keeps seeded phases in [0, 2π)", func() {
			cfg.N = 50
			cfg.FrequencyScale = 2
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, theta := range net.Phases() {
				Expect(theta).To(BeNumerically(">=", 0))
				Expect(theta).To(BeNumerically("<", dynamo.TwoPi))
			}
			for _, w := range net.Frequencies() {
				Expect(w).To(BeNumerically(">=", 0))
				Expect(w).To(BeNumerically("<", 2))
			}
		})

		It("places equipartition phases at π·i/N", func() {
			cfg.N = 4
			cfg.InitialPhase = syncnet.Equipartition
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			phases := net.Phases()
			for i, theta := range phases {
				Expect(theta).To(BeNumerically("~", math.Pi*float64(i)/4, 1e-12))
			}
		})

		It("returns copies of its state", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			phases := net.Phases()
			phases[0] = 42
			Expect(net.Phases()[0]).NotTo(Equal(42.0))
		})
	})

	Describe("Derive", func() {
		It("divides the coupling sum by the network size", func() {
			cfg.N = 2
			cfg.CouplingWeight = 2
			cfg.InitialPhase = syncnet.Equipartition
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dx := net.Derive(net.Phases(), 0)
			Expect(dx[0]).To(BeNumerically("~", 1, 1e-12))
			Expect(dx[1]).To(BeNumerically("~", -1, 1e-12))
		})

		It("agrees between the exact and table backends", func() {
			cfg.N = 16
			cfg.Topology = topology.GridEight
			exact, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Backend = "table"
			approx, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(approx.Backend().Name()).To(Equal("table"))

			a := exact.Derive(exact.Phases(), 0)
			b := approx.Derive(approx.Phases(), 0)
			for i := range a {
				Expect(b[i]).To(BeNumerically("~", a[i], 1e-5))
			}
		})
	})

	Describe("SimulateStatic", func() {
		It("validates its arguments", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = net.SimulateStatic(0, 1, dynamo.RK4, true)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			_, err = net.SimulateStatic(10, 0, dynamo.RK4, true)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects an unsupported solver without touching state", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			before := net.Phases()

			_, err = net.SimulateStatic(10, 1, dynamo.Solver(42), true)
			Expect(err).To(MatchError(dynamo.ErrUnsupportedSolver))
			Expect(net.Phases()).To(Equal(before))
		})

		It("records steps+1 snapshots when collecting", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := net.SimulateStatic(20, 2, dynamo.RK4, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Len()).To(Equal(21))
			Expect(dyn.Times[0]).To(Equal(0.0))
			Expect(dyn.Times[20]).To(BeNumerically("~", 2, 1e-12))
			Expect(dyn.Termination).To(Equal(dynamo.Completed))
			Expect(dyn.StepsTaken).To(Equal(20))
		})

		It("records only the final state otherwise", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := net.SimulateStatic(20, 2, dynamo.RK4, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Len()).To(Equal(1))

			t, last := dyn.Last()
			Expect(t).To(Equal(2.0))
			Expect(last).To(Equal(net.Phases()))
		})

		DescribeTable("advances uncoupled oscillators at their natural frequency",
			func(kind topology.Kind, coupling float64, solver dynamo.Solver) {
				cfg.N = 8
				cfg.Topology = kind
				cfg.CouplingWeight = coupling
				cfg.FrequencyScale = 3
				net, err := syncnet.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				theta0 := net.Phases()
				omega := net.Frequencies()

				_, err = net.SimulateStatic(10, 1.5, solver, false)
				Expect(err).NotTo(HaveOccurred())

				for i, theta := range net.Phases() {
					Expect(circularDiff(theta, theta0[i]+omega[i]*1.5)).To(BeNumerically("~", 0, 1e-8))
				}
			},
			Entry("zero coupling rk4", topology.AllToAll, 0.0, dynamo.RK4),
			Entry("zero coupling rkf45", topology.AllToAll, 0.0, dynamo.RKF45),
			Entry("no connections rk4", topology.None, 1.0, dynamo.RK4),
			Entry("no connections rkf45", topology.None, 1.0, dynamo.RKF45),
		)

		It("reports no unchecked steps for a smooth adaptive run", func() {
			cfg.N = 6
			cfg.FrequencyScale = 1
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := net.SimulateStatic(10, 1, dynamo.RKF45, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.UncheckedSteps).To(BeZero())
		})

		It("applies FAST without scaling by the step length", func() {
			cfg.N = 4
			cfg.CouplingWeight = 0
			cfg.FrequencyScale = 0.5
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			theta0 := net.Phases()
			omega := net.Frequencies()

			_, err = net.SimulateStatic(4, 0.4, dynamo.Fast, false)
			Expect(err).NotTo(HaveOccurred())

			for i, theta := range net.Phases() {
				Expect(circularDiff(theta, theta0[i]+4*omega[i])).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("is deterministic for a fixed seed", func() {
			cfg.N = 9
			cfg.Topology = topology.GridFour
			cfg.FrequencyScale = 1
			cfg.Seed = 7

			a, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			da, err := a.SimulateStatic(30, 3, dynamo.RKF45, true)
			Expect(err).NotTo(HaveOccurred())
			db, err := b.SimulateStatic(30, 3, dynamo.RKF45, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(da.Phases).To(Equal(db.Phases))
			Expect(da.Times).To(Equal(db.Times))
		})

		It("observes attached metrics at every macro step", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			m := &countingMetric{}
			net.AddMetric(m)

			dyn, err := net.SimulateStatic(5, 1, dynamo.RK4, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Metrics).To(HaveKeyWithValue("count", 6.0))
		})
	})

	Describe("SimulateDynamic", func() {
		It("validates its configuration", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, bad := range []func(*syncnet.DynamicConfig){
				func(c *syncnet.DynamicConfig) { c.Order = 0 },
				func(c *syncnet.DynamicConfig) { c.Order = 1.5 },
				func(c *syncnet.DynamicConfig) { c.Step = 0 },
				func(c *syncnet.DynamicConfig) { c.IntStep = 0 },
				func(c *syncnet.DynamicConfig) { c.IntStep = 1 },
			} {
				dc := syncnet.DefaultDynamicConfig()
				bad(&dc)
				_, err := net.SimulateDynamic(dc)
				Expect(err).To(MatchError(dynamo.ErrConfiguration))
			}
		})

		It("rejects an unsupported solver", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dc := syncnet.DefaultDynamicConfig()
			dc.Solver = dynamo.Solver(-1)
			_, err = net.SimulateDynamic(dc)
			Expect(err).To(MatchError(dynamo.ErrUnsupportedSolver))
		})

		It("converges a small all-to-all network", func() {
			cfg.N = 5
			cfg.InitialPhase = syncnet.Equipartition
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := net.SimulateDynamic(syncnet.DefaultDynamicConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Termination).To(Equal(dynamo.Converged))
			Expect(net.LocalOrder()).To(BeNumerically(">=", 0.998))
			Expect(dyn.Len()).To(Equal(dyn.StepsTaken + 1))
		})

		It("synchronizes five equipartitioned oscillators into one ensemble", func() {
			cfg.N = 5
			cfg.Topology = topology.AllToAll
			cfg.InitialPhase = syncnet.Equipartition
			cfg.FrequencyScale = 0
			cfg.CouplingWeight = 1
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dc := syncnet.DefaultDynamicConfig()
			dc.Order = 0.99
			dc.Solver = dynamo.RK4
			dyn, err := net.SimulateDynamic(dc)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Termination).To(Equal(dynamo.Converged))
			Expect(net.LocalOrder()).To(BeNumerically(">=", 0.99))

			ensembles, err := analysis.New(dyn).AllocateSyncEnsembles(0.1, nil, analysis.Last)
			Expect(err).NotTo(HaveOccurred())
			Expect(ensembles).To(Equal([][]int{{0, 1, 2, 3, 4}}))
		})

		It("returns immediately when already ordered", func() {
			cfg.N = 4
			cfg.InitialPhase = syncnet.Equipartition
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dc := syncnet.DefaultDynamicConfig()
			dc.Order = 0.1
			dyn, err := net.SimulateDynamic(dc)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Termination).To(Equal(dynamo.Converged))
			Expect(dyn.StepsTaken).To(BeZero())
			Expect(dyn.Len()).To(Equal(1))
		})

		It("stops when the local order stagnates", func() {
			cfg.N = 3
			cfg.Topology = topology.None
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := net.SimulateDynamic(syncnet.DefaultDynamicConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Termination).To(Equal(dynamo.Stagnated))
			Expect(dyn.StepsTaken).To(Equal(1))
		})

		It("honours the step bound", func() {
			cfg.N = 3
			cfg.Topology = topology.None
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			dc := syncnet.DefaultDynamicConfig()
			dc.StagnationThreshold = 0
			dc.MaxSteps = 3
			dc.Collect = false
			dyn, err := net.SimulateDynamic(dc)
			Expect(err).NotTo(HaveOccurred())
			Expect(dyn.Termination).To(Equal(dynamo.Completed))
			Expect(dyn.StepsTaken).To(Equal(3))
			Expect(dyn.Len()).To(Equal(1))
			Expect(dyn.Times[0]).To(BeNumerically("~", 0.3, 1e-12))
		})
	})

	Describe("weighted coupling", func() {
		BeforeEach(func() {
			cfg.N = 3
			cfg.Topology = topology.DistanceThreshold
			cfg.Points = [][]float64{{0}, {1}, {3}}
			cfg.Radius = 3
			cfg.WeightedCoupling = true
		})

		It("rescales distances to [0, 1]", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(net.Neighbors(0)).To(Equal([]int{1, 2}))
			Expect(net.Weights(0)).To(Equal([]float64{0, 1}))
			Expect(net.Weights(1)).To(Equal([]float64{0, 0.5}))
			Expect(net.Weights(2)).To(Equal([]float64{1, 0.5}))
		})

		It("leaves distances unscaled when all edges are equal", func() {
			cfg.N = 2
			cfg.Points = [][]float64{{0}, {2}}
			cfg.Radius = 5
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(net.Weights(0)).To(Equal([]float64{2}))
		})

		It("recomputes weights on rebuild", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(net.Rebuild(2)).To(Succeed())
			Expect(net.HasConnection(0, 2)).To(BeFalse())
			Expect(net.Weights(0)).To(Equal([]float64{0}))
			Expect(net.Weights(1)).To(Equal([]float64{0, 1}))
		})

		It("keeps weights aligned with the graph view after rebuild", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			view := net.Graph()
			Expect(view.EdgeCount()).To(Equal(3))

			Expect(net.Rebuild(2)).To(Succeed())
			Expect(view.EdgeCount()).To(Equal(2))
			for i := 0; i < view.Size(); i++ {
				Expect(net.Weights(i)).To(HaveLen(len(view.Neighbors(i))))
			}
			_, err = net.SimulateStatic(2, 1, dynamo.RK4, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("hands out copies of neighbors and weights", func() {
			net, err := syncnet.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			net.Graph().Neighbors(0)[0] = 2
			net.Neighbors(0)[1] = 0
			net.Weights(0)[0] = 42

			Expect(net.Neighbors(0)).To(Equal([]int{1, 2}))
			Expect(net.Graph().Neighbors(0)).To(Equal([]int{1, 2}))
			Expect(net.Weights(0)).To(Equal([]float64{0, 1}))
		})
	})

	It("refuses to rebuild a fixed topology", func() {
		net, err := syncnet.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(net.Rebuild(1)).To(MatchError(dynamo.ErrTopology))
	})
})
