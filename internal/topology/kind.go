package topology

import (
	"fmt"
	"strings"

	"github.com/san-kum/oscnet/internal/dynamo"
)

// Kind selects how oscillators are connected.
type Kind int

const (
	None Kind = iota
	AllToAll
	GridFour
	GridEight
	BidirectionalChain
	DistanceThreshold
)

var kindNames = map[Kind]string{
	None:               "none",
	AllToAll:           "all_to_all",
	GridFour:           "grid_four",
	GridEight:          "grid_eight",
	BidirectionalChain: "bidir_chain",
	DistanceThreshold:  "distance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a topology name to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown topology %q", dynamo.ErrInvalidTopology, name)
}

// Representation selects the storage used for the connectivity relation.
type Representation int

const (
	// DenseMatrix keeps one bit row per oscillator: O(N²) bits, O(1) lookup.
	DenseMatrix Representation = iota
	// AdjacencyList keeps a sorted neighbor slice per oscillator: O(E) space.
	AdjacencyList
)

func (r Representation) String() string {
	switch r {
	case DenseMatrix:
		return "matrix"
	case AdjacencyList:
		return "list"
	default:
		return fmt.Sprintf("representation(%d)", int(r))
	}
}

// ParseRepresentation maps a storage name to its Representation.
func ParseRepresentation(name string) (Representation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "matrix", "dense":
		return DenseMatrix, nil
	case "list", "adjacency":
		return AdjacencyList, nil
	default:
		return 0, fmt.Errorf("%w: unknown representation %q", dynamo.ErrConfiguration, name)
	}
}
