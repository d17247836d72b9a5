// Package dynamo provides core primitives for simulating phase oscillator networks.
//
// The package defines the fundamental interfaces and types shared by the
// engine, the integrators and the analyzer:
//
//   - [State]: phase vector, one entry per oscillator, kept in [0, 2π)
//   - [System]: interface for ODE systems (dθ/dt = f(θ, t))
//   - [Integrator]: numerical integrator interface
//   - [Solver]: selects FAST, RK4 or RKF45 for one simulation call
//   - [Dynamic]: recorded (time, phases) snapshots of one simulation call
//   - [Metric]: observer evaluated on every recorded snapshot
//
// # Example
//
//	net, _ := syncnet.New(cfg)
//	dyn, _ := net.SimulateStatic(100, 10, dynamo.RK4, true)
//	_, last := dyn.Last()
//
// # Thread Safety
//
// A [Dynamic] is immutable once returned and may be read concurrently.
// Integrators keep scratch buffers and must not be shared between goroutines.
package dynamo
