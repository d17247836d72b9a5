// Package syncnet implements the phase oscillator network: N Kuramoto
// oscillators coupled over a [topology.Graph] and advanced by one of the
// [dynamo.Solver] integrators.
//
// The phase of oscillator i evolves as
//
//	dθ_i/dt = ω_i + (K/N)·Σ_{j∈nbrs(i)} w_ij·sin(θ_j − θ_i)
//
// The coupling sum is divided by the network size, not by the degree of i.
// Weights w_ij are 1 unless weighted coupling is enabled, in which case they
// are source-point distances rescaled to [0, 1].
//
// # Example
//
//	cfg := syncnet.DefaultConfig()
//	cfg.N = 25
//	cfg.Topology = topology.GridFour
//	net, err := syncnet.New(cfg)
//	if err != nil {
//		return err
//	}
//	dyn, err := net.SimulateDynamic(syncnet.DefaultDynamicConfig())
//
// # Thread Safety
//
// A Network is not safe for concurrent use. Independent networks may be
// simulated in parallel (see package sim).
package syncnet
