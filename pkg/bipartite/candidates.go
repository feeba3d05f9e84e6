package bipartite

import "github.com/matzehuels/corral/pkg/graph"

// Candidate is a qubit/coupler attachment that both sides have capacity for.
type Candidate struct {
	Qubit   string
	Coupler string
}

// Candidates lists every attachment of a qubit in qubits to a coupler in
// couplers where the qubit has fewer than maxQubit couplers, the coupler has
// fewer than maxCoupler qubits, and the two are not already attached.
//
// The result is ordered by qubit first, then coupler, following the input
// slices. It does not consider the induced-projection rule.
func Candidates(g *graph.Graph, qubits, couplers []string, maxQubit, maxCoupler int) []Candidate {
	var open []string
	for _, c := range couplers {
		if g.Degree(c) < maxCoupler {
			open = append(open, c)
		}
	}
	var out []Candidate
	for _, q := range qubits {
		if g.Degree(q) >= maxQubit {
			continue
		}
		for _, c := range open {
			if !g.HasEdge(q, c) {
				out = append(out, Candidate{Qubit: q, Coupler: c})
			}
		}
	}
	return out
}

// InducedPairs returns the qubit pairs that attaching q to c would create:
// q paired with each qubit already on c.
func InducedPairs(g *graph.Graph, q, c string) []Relationship {
	var out []Relationship
	for _, other := range g.Neighbors(c) {
		if other != q {
			out = append(out, Relationship{A: q, B: other})
		}
	}
	return out
}

// inducedValid reports whether attaching q to c creates only required pairs.
func (b *Builder) inducedValid(q, c string) bool {
	for _, other := range b.g.Neighbors(c) {
		if other != q && !b.isRequired(q, other) {
			return false
		}
	}
	return true
}
