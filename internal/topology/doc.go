// Package topology builds the connectivity graph that couples oscillators.
//
// A [Graph] is an undirected relation over oscillator indices 0..N-1. It can
// be stored as a dense bit matrix ([DenseMatrix]) or as sorted adjacency
// lists ([AdjacencyList]); both answer [Graph.HasConnection] and
// [Graph.Neighbors] identically.
//
// Supported kinds:
//
//   - [None]: no edges
//   - [AllToAll]: every distinct pair is connected
//   - [GridFour], [GridEight]: √N×√N grid with 4- or 8-neighborhood
//   - [BidirectionalChain]: i is connected to i-1 and i+1
//   - [DistanceThreshold]: i and j are connected when their points are within a radius
//
// # Example
//
//	g, err := topology.Construct(9, topology.GridFour, topology.AdjacencyList)
//	if err != nil {
//	    return err
//	}
//	for _, j := range g.Neighbors(4) {
//	    ...
//	}
package topology
