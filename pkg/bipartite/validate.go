package bipartite

import (
	"fmt"

	"github.com/matzehuels/corral/pkg/graph"
)

// Verify checks a bipartite graph against the pattern it claims to realize:
// every edge joins a qubit to a coupler, degrees respect the caps in cfg, no
// coupler is empty, and the qubit projection matches the pattern pair for
// pair. All failures wrap ErrInvariant.
//
// Verify runs at the end of every construction and can be used on stored
// realizations.
func Verify(pattern, bip *graph.Graph, cfg Config) error {
	if pattern == nil || bip == nil {
		return fmt.Errorf("%w: nil graph", ErrInvariant)
	}
	if err := bip.ValidateBipartite(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}

	for _, n := range bip.Nodes() {
		d := bip.Degree(n.ID)
		switch {
		case n.IsQubit() && cfg.MaxQubitDegree > 0 && d > cfg.MaxQubitDegree:
			return fmt.Errorf("%w: qubit %s has degree %d > %d", ErrInvariant, n.ID, d, cfg.MaxQubitDegree)
		case n.IsCoupler() && cfg.MaxCouplerDegree > 0 && d > cfg.MaxCouplerDegree:
			return fmt.Errorf("%w: coupler %s has degree %d > %d", ErrInvariant, n.ID, d, cfg.MaxCouplerDegree)
		case n.IsCoupler() && d == 0:
			return fmt.Errorf("%w: coupler %s has no qubits", ErrInvariant, n.ID)
		}
	}

	qp := graph.Project(bip, graph.NodeKindQubit)
	if qp.NodeCount() != pattern.NodeCount() {
		return fmt.Errorf("%w: %d qubits for a pattern of %d", ErrInvariant, qp.NodeCount(), pattern.NodeCount())
	}
	for _, e := range pattern.Edges() {
		if !qp.HasEdge(e.U, e.V) {
			return fmt.Errorf("%w: required pair %s-%s is not coupled", ErrInvariant, e.U, e.V)
		}
	}
	for _, e := range qp.Edges() {
		if !pattern.HasEdge(e.U, e.V) {
			return fmt.Errorf("%w: spurious pair %s-%s", ErrInvariant, e.U, e.V)
		}
	}
	if !graph.Isomorphic(qp, pattern) {
		return fmt.Errorf("%w: qubit projection is not isomorphic to the pattern", ErrInvariant)
	}
	return nil
}
