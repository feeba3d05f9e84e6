package graph

// Project returns the projection of g onto the nodes of one kind: two such
// nodes are adjacent in the result whenever they share a neighbor in g.
// Node order follows g; edges are added in the order their shared neighbors
// appear in g.
//
// For a coupler-free pattern, Project(g, NodeKindCoupler) is an empty graph.
func Project(g *Graph, kind NodeKind) *Graph {
	p := New(nil)
	for _, n := range g.NodesOfKind(kind) {
		_ = p.AddNode(Node{ID: n.ID, Kind: n.Kind, Meta: cloneMeta(n.Meta)})
	}

	for _, via := range g.Nodes() {
		if via.Kind == kind {
			continue
		}
		nbs := g.Neighbors(via.ID)
		for i, a := range nbs {
			if !p.HasNode(a) {
				continue
			}
			for _, b := range nbs[i+1:] {
				if p.HasNode(b) && !p.HasEdge(a, b) {
					_ = p.AddEdge(a, b)
				}
			}
		}
	}
	return p
}

// SharedNeighbors returns the neighbors common to u and v, in the order they
// appear around u.
func SharedNeighbors(g *Graph, u, v string) []string {
	var shared []string
	for _, x := range g.Neighbors(u) {
		if g.HasEdge(x, v) {
			shared = append(shared, x)
		}
	}
	return shared
}
