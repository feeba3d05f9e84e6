package graph

import "slices"

// Isomorphic reports whether a and b are isomorphic as unlabeled graphs.
// Node kinds and metadata are ignored.
//
// Cheap invariants (node count, edge count, degree sequence) are checked
// first, then the identity mapping is tried, and finally a backtracking
// search maps the nodes of a in breadth-first order onto degree-compatible
// nodes of b. The search is exponential in the worst case but fast for
// the sparse, tens-of-nodes graphs that describe chips.
func Isomorphic(a, b *Graph) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	if !slices.Equal(degreeSequence(a), degreeSequence(b)) {
		return false
	}
	if sameLabels(a, b) {
		return true
	}

	m := &matcher{
		a:       a,
		b:       b,
		order:   searchOrder(a),
		forward: make(map[string]string, a.NodeCount()),
		used:    make(map[string]bool, b.NodeCount()),
		targets: IDs(b.Nodes()),
	}
	return m.match(0)
}

// Equal reports whether a and b have the same node IDs and the same edges.
func Equal(a, b *Graph) bool {
	return a.NodeCount() == b.NodeCount() && a.EdgeCount() == b.EdgeCount() && sameLabels(a, b)
}

func sameLabels(a, b *Graph) bool {
	for _, n := range a.Nodes() {
		if !b.HasNode(n.ID) || a.Degree(n.ID) != b.Degree(n.ID) {
			return false
		}
	}
	for _, e := range a.Edges() {
		if !b.HasEdge(e.U, e.V) {
			return false
		}
	}
	return true
}

func degreeSequence(g *Graph) []int {
	seq := make([]int, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		seq = append(seq, g.Degree(n.ID))
	}
	slices.Sort(seq)
	return seq
}

// searchOrder lists a's nodes component by component, starting each
// component at its highest-degree node and expanding breadth-first, so every
// node after the first in a component has an already-mapped neighbor.
func searchOrder(g *Graph) []string {
	nodes := IDs(g.Nodes())
	slices.SortStableFunc(nodes, func(x, y string) int { return g.Degree(y) - g.Degree(x) })

	seen := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, start := range nodes {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue := []string{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			order = append(order, cur)
			for _, nb := range g.Neighbors(cur) {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}
	return order
}

type matcher struct {
	a, b    *Graph
	order   []string
	targets []string
	forward map[string]string
	used    map[string]bool
}

func (m *matcher) match(i int) bool {
	if i == len(m.order) {
		return true
	}
	u := m.order[i]
	for _, v := range m.targets {
		if m.used[v] || m.a.Degree(u) != m.b.Degree(v) || !m.consistent(u, v) {
			continue
		}
		m.forward[u] = v
		m.used[v] = true
		if m.match(i + 1) {
			return true
		}
		delete(m.forward, u)
		m.used[v] = false
	}
	return false
}

// consistent checks that mapping u to v preserves adjacency with every node
// mapped so far.
func (m *matcher) consistent(u, v string) bool {
	for x, y := range m.forward {
		if m.a.HasEdge(u, x) != m.b.HasEdge(v, y) {
			return false
		}
	}
	return true
}
