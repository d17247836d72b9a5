// Package analysis derives synchronization metrics from recorded phase
// dynamics and extracts synchronization ensembles (clusters).
//
// The package includes:
//
//   - [GlobalOrder]: Kuramoto order parameter r = |mean(e^{iθ})|
//   - [LiteralGlobalOrder]: expm1-based order measure kept for output parity
//   - [LocalOrder]: coherence over topology-defined neighbor pairs
//   - [Analyzer]: ensemble allocation, correlation and phase matrices over a [dynamo.Dynamic]
//
// # Ensembles
//
// Ensembles are allocated first-match: each oscillator joins the first
// existing ensemble whose first member is within tolerance (2π wrap aware),
// otherwise it starts a new one:
//
//	a := analysis.New(dyn)
//	clusters, err := a.AllocateSyncEnsembles(0.1, nil, analysis.Last)
package analysis
