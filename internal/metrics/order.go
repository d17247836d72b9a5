package metrics

import (
	"github.com/san-kum/oscnet/internal/analysis"
	"github.com/san-kum/oscnet/internal/dynamo"
)

// OrderParameter reports the global order of the last observed snapshot.
type OrderParameter struct {
	name    string
	formula analysis.OrderFormula
	last    float64
}

func NewOrderParameter(formula analysis.OrderFormula) *OrderParameter {
	return &OrderParameter{
		name:    "order_parameter",
		formula: formula,
	}
}

func (o *OrderParameter) Name() string { return o.name }

func (o *OrderParameter) Observe(x dynamo.State, t float64) {
	o.last = o.formula.Order(x)
}

func (o *OrderParameter) Value() float64 { return o.last }

func (o *OrderParameter) Reset() { o.last = 0 }

// MeanOrder averages the global order over every observed snapshot.
type MeanOrder struct {
	name    string
	total   float64
	samples int
}

func NewMeanOrder() *MeanOrder {
	return &MeanOrder{name: "mean_order"}
}

func (m *MeanOrder) Name() string { return m.name }

func (m *MeanOrder) Observe(x dynamo.State, t float64) {
	m.total += analysis.GlobalOrder(x)
	m.samples++
}

func (m *MeanOrder) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanOrder) Reset() {
	m.total = 0
	m.samples = 0
}
