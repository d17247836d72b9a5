package metrics

import (
	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
)

// LocalOrder reports the local order of the last observed snapshot over a
// fixed neighborhood.
type LocalOrder struct {
	name string
	g    analysis.Neighborhood
	last float64
}

func NewLocalOrder(g analysis.Neighborhood) *LocalOrder {
	return &LocalOrder{
		name: "local_order",
		g:    g,
	}
}

func (l *LocalOrder) Name() string {
	return l.name
}

func (l *LocalOrder) Observe(x dynamo.State, t float64) {
	l.last = analysis.LocalOrder(x, l.g)
}

func (l *LocalOrder) Value() float64 {
	return l.last
}

func (l *LocalOrder) Reset() {
	l.last = 0
}
