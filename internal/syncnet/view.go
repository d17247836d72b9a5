package syncnet

import (
	"slices"

	"github.com/san-kum/oscnet/internal/topology"
)

// GraphView exposes the read side of a Network's topology. Neighbor lists
// are returned as copies.
type GraphView struct {
	g *topology.Graph
}

func (v GraphView) Size() int                               { return v.g.Size() }
func (v GraphView) Kind() topology.Kind                     { return v.g.Kind() }
func (v GraphView) Representation() topology.Representation { return v.g.Representation() }
func (v GraphView) Radius() float64                         { return v.g.Radius() }
func (v GraphView) EdgeCount() int                          { return v.g.EdgeCount() }
func (v GraphView) Degree(i int) int                        { return v.g.Degree(i) }
func (v GraphView) HasConnection(i, j int) bool             { return v.g.HasConnection(i, j) }
func (v GraphView) Distance(i, j int) float64               { return v.g.Distance(i, j) }

func (v GraphView) Neighbors(i int) []int { return slices.Clone(v.g.Neighbors(i)) }
