// Package compute provides interchangeable evaluators for the Kuramoto
// coupling sum, the hot path of every simulation step.
//
//   - cpu: exact, uses math.Sin
//   - table: interpolated sin lookup table, slightly approximate
//
// A backend is chosen once when a network is built:
//
//	backend, err := compute.New("table")
//	net, err := syncnet.New(cfg, syncnet.WithBackend(backend))
//
// Backends hold no shared state; each network may use its own instance.
package compute
