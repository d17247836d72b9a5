package compute

import "math"

// CPUBackend evaluates the coupling sum with math.Sin, serially.
type CPUBackend struct{}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Coupling(phases []float64, i int, neighbors []int, weights []float64) float64 {
	theta := phases[i]
	sum := 0.0

	if weights == nil {
		for _, j := range neighbors {
			sum += math.Sin(phases[j] - theta)
		}
		return sum
	}

	for k, j := range neighbors {
		sum += weights[k] * math.Sin(phases[j]-theta)
	}
	return sum
}
