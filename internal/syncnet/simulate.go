package syncnet

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/oscnet/internal/dynamo"
	"github.com/san-kum/oscnet/internal/integrators"
)

// SimulateStatic advances the network over totalTime in steps macro steps.
// With collect set the output holds steps+1 snapshots starting at t=0;
// otherwise it holds only the final state at totalTime.
//
// RK4 and RKF45 sub-step each macro step ten times. FAST applies
// θ ← wrap(θ + f(θ)) once per macro step and ignores the step length.
func (n *Network) SimulateStatic(steps int, totalTime float64, solver dynamo.Solver, collect bool) (*dynamo.Dynamic, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrConfiguration, steps)
	}
	if !(totalTime > 0) {
		return nil, fmt.Errorf("%w: total time must be positive, got %v", dynamo.ErrConfiguration, totalTime)
	}
	integ, err := integrators.New(solver, integrators.DefaultSubsteps)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	capacity := 1
	if collect {
		capacity = steps + 1
	}
	dyn := dynamo.NewDynamic(solver, capacity)
	n.resetMetrics()

	dt := totalTime / float64(steps)
	x := n.phases
	n.observe(x, 0)
	if collect {
		dyn.Append(0, x)
	}

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		next := integ.Step(n, x, t, dt)
		if !next.IsValid() {
			n.phases = x
			return nil, &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		t = float64(i+1) * dt
		n.observe(x, t)
		if collect {
			dyn.Append(t, x)
		}
	}

	n.phases = x
	if !collect {
		dyn.Append(totalTime, x)
	}
	dyn.StepsTaken = steps
	dyn.Termination = dynamo.Completed
	n.collectMetrics(dyn)
	n.recordFallbacks(dyn, integ)

	n.log.LogSimulation("static", solver.String(), dyn.Termination.String(), steps, n.LocalOrder(), time.Since(start))
	return dyn, nil
}

// SimulateDynamic advances the network in macro steps of cfg.Step until the
// local order reaches cfg.Order or changes by less than
// cfg.StagnationThreshold between steps. The returned dynamic records which
// condition ended the run.
func (n *Network) SimulateDynamic(cfg DynamicConfig) (*dynamo.Dynamic, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Solver, cfg.substeps())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dyn := dynamo.NewDynamic(cfg.Solver, 64)
	n.resetMetrics()

	x := n.phases
	t := 0.0
	n.observe(x, t)
	if cfg.Collect {
		dyn.Append(t, x)
	}

	current := n.LocalOrder()
	termination := dynamo.Converged
	steps := 0

	for current < cfg.Order {
		if cfg.MaxSteps > 0 && steps >= cfg.MaxSteps {
			termination = dynamo.Completed
			break
		}

		next := integ.Step(n, x, t, cfg.Step)
		if !next.IsValid() {
			return nil, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		n.phases = x
		steps++
		t = float64(steps) * cfg.Step
		n.observe(x, t)
		if cfg.Collect {
			dyn.Append(t, x)
		}

		previous := current
		current = n.LocalOrder()
		if current >= cfg.Order {
			break
		}
		if math.Abs(current-previous) < cfg.StagnationThreshold {
			termination = dynamo.Stagnated
			break
		}
	}

	if !cfg.Collect {
		dyn.Append(t, x)
	}
	dyn.StepsTaken = steps
	dyn.Termination = termination
	n.collectMetrics(dyn)
	n.recordFallbacks(dyn, integ)

	n.log.LogSimulation("dynamic", cfg.Solver.String(), termination.String(), steps, current, time.Since(start))
	return dyn, nil
}

func (n *Network) resetMetrics() {
	for _, m := range n.metrics {
		m.Reset()
	}
}

func (n *Network) observe(x dynamo.State, t float64) {
	for _, m := range n.metrics {
		m.Observe(x, t)
	}
}

func (n *Network) collectMetrics(dyn *dynamo.Dynamic) {
	for _, m := range n.metrics {
		dyn.Metrics[m.Name()] = m.Value()
	}
}

func (n *Network) recordFallbacks(dyn *dynamo.Dynamic, integ dynamo.Integrator) {
	r, ok := integ.(*integrators.RKF45)
	if !ok {
		return
	}
	dyn.UncheckedSteps = r.Fallbacks
	n.log.LogAccuracyFallback(dyn.Solver.String(), r.Fallbacks)
}
