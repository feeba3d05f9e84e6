package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint
	// does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. Coupling graphs are simple graphs.
	ErrSelfLoop = errors.New("self loops are not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the edge already
	// exists in either orientation.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrAsymmetricAdjacency is returned by [Graph.Validate] when an
	// adjacency entry has no mirror entry. This indicates graph corruption.
	ErrAsymmetricAdjacency = errors.New("asymmetric adjacency")

	// ErrNotBipartite is returned by [Graph.ValidateBipartite] when an edge
	// joins two nodes of the same kind.
	ErrNotBipartite = errors.New("edge joins nodes of the same kind")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after [Graph.AddNode] or [New].
type Metadata map[string]any

// NodeKind identifies the partition a node belongs to.
type NodeKind int

const (
	// NodeKindQubit is a physical qubit (A-node). Patterns contain only qubits.
	NodeKindQubit NodeKind = iota
	// NodeKindCoupler is a coupling element (B-node) shared by the qubits it
	// connects.
	NodeKindCoupler
)

// String returns "qubit" or "coupler".
func (k NodeKind) String() string {
	if k == NodeKindCoupler {
		return "coupler"
	}
	return "qubit"
}

// Node is a vertex of a coupling graph.
type Node struct {
	ID   string   // Unique identifier (also used as display label)
	Kind NodeKind // Partition the node belongs to
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsQubit reports whether the node is a qubit.
func (n Node) IsQubit() bool { return n.Kind == NodeKindQubit }

// IsCoupler reports whether the node is a coupler.
func (n Node) IsCoupler() bool { return n.Kind == NodeKindCoupler }

// Edge is an unordered pair of node IDs. Edges returned by [Graph.Edges]
// are canonical: U was inserted before V.
type Edge struct {
	U string
	V string
}

// Graph is an undirected simple graph with insertion-ordered accessors.
//
// The zero value is not usable - use New to create a valid Graph instance.
type Graph struct {
	nodes map[string]*Node
	order []string
	rank  map[string]int
	adj   map[string][]string            // neighbors in attachment order
	nbrs  map[string]map[string]struct{} // same neighbors, for HasEdge
	edges int
	next  int
	meta  Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes: make(map[string]*Node),
		rank:  make(map[string]int),
		adj:   make(map[string][]string),
		nbrs:  make(map[string]map[string]struct{}),
		meta:  meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the ID is empty or ErrDuplicateNodeID if it is
// already in use.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[n.ID] = node
	g.order = append(g.order, n.ID)
	g.rank[n.ID] = g.next
	g.next++
	return nil
}

// AddEdge connects u and v.
// Returns ErrUnknownNode if either endpoint is missing, ErrSelfLoop if u == v,
// or ErrDuplicateEdge if the edge already exists.
//
// AddEdge does not check the bipartite partition - use ValidateBipartite.
func (g *Graph) AddEdge(u, v string) error {
	if _, ok := g.nodes[u]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.nodes[v]; !ok {
		return ErrUnknownNode
	}
	if u == v {
		return ErrSelfLoop
	}
	if g.HasEdge(u, v) {
		return ErrDuplicateEdge
	}
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.link(u, v)
	g.link(v, u)
	g.edges++
	return nil
}

// RemoveNode deletes a node and all of its edges.
// No error is returned if the node does not exist.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, nb := range g.adj[id] {
		g.adj[nb] = slices.DeleteFunc(g.adj[nb], func(s string) bool { return s == id })
		delete(g.nbrs[nb], id)
	}
	g.edges -= len(g.adj[id])
	delete(g.adj, id)
	delete(g.nbrs, id)
	delete(g.nodes, id)
	delete(g.rank, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.nbrs[u][v]
	return ok
}

func (g *Graph) link(u, v string) {
	set, ok := g.nbrs[u]
	if !ok {
		set = make(map[string]struct{})
		g.nbrs[u] = set
	}
	set[v] = struct{}{}
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Neighbors returns the IDs adjacent to id in the order the edges were added.
// The returned slice should not be modified.
func (g *Graph) Neighbors(id string) []string { return g.adj[id] }

// Degree returns the number of edges incident to id, or 0 if it doesn't exist.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Rank returns the insertion rank of a node. Ranks are stable across
// RemoveNode calls and serve as the numeric ordering key of a node.
func (g *Graph) Rank(id string) (int, bool) {
	r, ok := g.rank[id]
	return r, ok
}

// Nodes returns all nodes in insertion order.
// The returned pointers refer to the graph's nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodesOfKind returns the nodes of one partition in insertion order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	var nodes []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns all edges in canonical order: sorted by the rank of U, then
// by the order V was attached to U, with rank(U) < rank(V).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, u := range g.order {
		ru := g.rank[u]
		for _, v := range g.adj[u] {
			if ru < g.rank[v] {
				edges = append(edges, Edge{U: u, V: v})
			}
		}
	}
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return g.edges }

// Clone returns a deep copy of the graph structure. Metadata maps are copied
// shallowly.
func (g *Graph) Clone() *Graph {
	c := New(cloneMeta(g.meta))
	for _, id := range g.order {
		n := g.nodes[id]
		_ = c.AddNode(Node{ID: n.ID, Kind: n.Kind, Meta: cloneMeta(n.Meta)})
	}
	for _, e := range g.Edges() {
		_ = c.AddEdge(e.U, e.V)
	}
	return c
}

// Validate checks that every adjacency entry references an existing node
// and is mirrored on the other endpoint.
func (g *Graph) Validate() error {
	for u, nbs := range g.adj {
		if _, ok := g.nodes[u]; !ok {
			return ErrUnknownNode
		}
		for _, v := range nbs {
			if _, ok := g.nodes[v]; !ok {
				return ErrUnknownNode
			}
			if !g.HasEdge(v, u) {
				return ErrAsymmetricAdjacency
			}
		}
	}
	return nil
}

// ValidateBipartite runs Validate and then checks that every edge joins a
// qubit to a coupler.
func (g *Graph) ValidateBipartite() error {
	if err := g.Validate(); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		if g.nodes[e.U].Kind == g.nodes[e.V].Kind {
			return ErrNotBipartite
		}
	}
	return nil
}

// IDs extracts the ID of each node, preserving order.
func IDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func cloneMeta(m Metadata) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
