package compute

import (
	"fmt"
	"strings"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// ErrUnknownBackend indicates a backend name with no implementation.
var ErrUnknownBackend = fmt.Errorf("%w: unknown compute backend", dynamo.ErrConfiguration)

// Backend evaluates the coupling term of the phase equation. A network picks
// one backend at construction and keeps it for its lifetime.
type Backend interface {
	Name() string
	Available() bool
	// Coupling returns Σ_k weights[k]·sin(phases[neighbors[k]] − phases[i]).
	// A nil weights slice means unit weights.
	Coupling(phases []float64, i int, neighbors []int, weights []float64) float64
	Cleanup()
}

// New returns the backend registered under name. An empty name selects the
// exact CPU backend.
func New(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cpu":
		return NewCPUBackend(), nil
	case "table":
		return NewTableBackend(DefaultTableSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Names lists the selectable backends.
func Names() []string {
	return []string{"cpu", "table"}
}
