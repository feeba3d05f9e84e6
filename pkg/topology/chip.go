package topology

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/corral/pkg/graph"
)

// ErrInvalidChip is returned when a chip description is inconsistent.
var ErrInvalidChip = errors.New("invalid chip")

// Chip describes fabricated hardware: qubits, couplers, and which qubit is
// wired to which coupler.
type Chip struct {
	Qubits   []string    `json:"qubits"`
	Couplers []string    `json:"couplers"`
	Wiring   [][2]string `json:"wiring"` // qubit, coupler (either order)
}

// Build returns the bipartite graph of the chip.
func (c Chip) Build() (*graph.Graph, error) {
	g := graph.New(nil)
	for _, q := range c.Qubits {
		if err := g.AddNode(graph.Node{ID: q, Kind: graph.NodeKindQubit}); err != nil {
			return nil, fmt.Errorf("%w: qubit %q: %v", ErrInvalidChip, q, err)
		}
	}
	for _, s := range c.Couplers {
		if err := g.AddNode(graph.Node{ID: s, Kind: graph.NodeKindCoupler}); err != nil {
			return nil, fmt.Errorf("%w: coupler %q: %v", ErrInvalidChip, s, err)
		}
	}
	for _, w := range c.Wiring {
		if err := g.AddEdge(w[0], w[1]); err != nil {
			return nil, fmt.Errorf("%w: wire %s-%s: %v", ErrInvalidChip, w[0], w[1], err)
		}
	}
	if err := g.ValidateBipartite(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChip, err)
	}
	return g, nil
}

// FromChip returns the coupling pattern a chip provides: its qubit
// projection.
func FromChip(c Chip) (*graph.Graph, error) {
	g, err := c.Build()
	if err != nil {
		return nil, err
	}
	return graph.Project(g, graph.NodeKindQubit), nil
}

// CorralChip returns a ring of n couplers with an inner and an outer ring of
// qubits. Coupler i holds inner qubits i and i+1 and outer qubits i and
// i+1, so each coupler couples four qubits and neighboring couplers share
// two. Inner qubits are q0..q(n-1), outer qubits qn..q(2n-1).
func CorralChip(n int) (Chip, error) {
	if err := atLeast(n, 3); err != nil {
		return Chip{}, err
	}
	var c Chip
	for i := 0; i < 2*n; i++ {
		c.Qubits = append(c.Qubits, QubitID(i))
	}
	for i := 0; i < n; i++ {
		s := "s" + strconv.Itoa(i)
		c.Couplers = append(c.Couplers, s)
		next := (i + 1) % n
		for _, q := range []int{i, next, n + i, n + next} {
			c.Wiring = append(c.Wiring, [2]string{QubitID(q), s})
		}
	}
	return c, nil
}

// RingChip returns n qubits and n two-qubit couplers alternating in a cycle.
func RingChip(n int) (Chip, error) {
	if err := atLeast(n, 3); err != nil {
		return Chip{}, err
	}
	var c Chip
	for i := 0; i < n; i++ {
		c.Qubits = append(c.Qubits, QubitID(i))
	}
	for i := 0; i < n; i++ {
		s := "s" + strconv.Itoa(i)
		c.Couplers = append(c.Couplers, s)
		c.Wiring = append(c.Wiring,
			[2]string{QubitID(i), s},
			[2]string{QubitID((i + 1) % n), s})
	}
	return c, nil
}
