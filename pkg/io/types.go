package io

import (
	"fmt"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/graph"
)

// Node kinds as written to documents.
const (
	KindQubit   = "qubit"
	KindCoupler = "coupler"
)

// Graph is the serialized form of a [graph.Graph].
type Graph struct {
	Nodes []Node         `json:"nodes" bson:"nodes"`
	Edges []Edge         `json:"edges" bson:"edges"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is a serialized node. An empty Kind means qubit.
type Node struct {
	ID   string         `json:"id" bson:"id"`
	Kind string         `json:"kind,omitempty" bson:"kind,omitempty"`
	Meta map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Edge is a serialized undirected edge.
type Edge struct {
	U string `json:"u" bson:"u"`
	V string `json:"v" bson:"v"`
}

// FromGraph converts g into its serialized form. Nodes and edges keep the
// graph's canonical order.
func FromGraph(g *graph.Graph) Graph {
	if g == nil {
		return Graph{}
	}
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}
	for _, n := range g.Nodes() {
		nd := Node{ID: n.ID}
		if n.IsCoupler() {
			nd.Kind = KindCoupler
		}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{U: e.U, V: e.V})
	}
	return out
}

// ToGraph builds a [graph.Graph] from the serialized form. Errors are
// wrapped with the node or edge that caused them.
func (d Graph) ToGraph() (*graph.Graph, error) {
	g := graph.New(d.Meta)
	for _, n := range d.Nodes {
		nd := graph.Node{ID: n.ID, Meta: n.Meta}
		switch n.Kind {
		case "", KindQubit:
		case KindCoupler:
			nd.Kind = graph.NodeKindCoupler
		default:
			return nil, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
		}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.U, e.V, err)
		}
	}
	return g, nil
}

// Realization is the serialized form of a [bipartite.Result] together with
// the config that produced it.
type Realization struct {
	Feasible          bool                    `json:"feasible" bson:"feasible"`
	Config            RealizationConfig       `json:"config" bson:"config"`
	Bipartite         *Graph                  `json:"bipartite,omitempty" bson:"bipartite,omitempty"`
	QubitProjection   *Graph                  `json:"qubit_projection,omitempty" bson:"qubit_projection,omitempty"`
	CouplerProjection *Graph                  `json:"coupler_projection,omitempty" bson:"coupler_projection,omitempty"`
	Blocked           *bipartite.Relationship `json:"blocked,omitempty" bson:"blocked,omitempty"`
	Stats             bipartite.Stats         `json:"stats" bson:"stats"`
}

// RealizationConfig is the serializable part of [bipartite.Config].
type RealizationConfig struct {
	MaxQubitDegree   int    `json:"max_qubit_degree" bson:"max_qubit_degree"`
	MaxCouplerDegree int    `json:"max_coupler_degree" bson:"max_coupler_degree"`
	SkipFill         bool   `json:"skip_fill,omitempty" bson:"skip_fill,omitempty"`
	CouplerPrefix    string `json:"coupler_prefix,omitempty" bson:"coupler_prefix,omitempty"`
}

// Bipartite returns the config as a [bipartite.Config] without a logger.
func (c RealizationConfig) Bipartite() bipartite.Config {
	return bipartite.Config{
		MaxQubitDegree:   c.MaxQubitDegree,
		MaxCouplerDegree: c.MaxCouplerDegree,
		SkipFill:         c.SkipFill,
		CouplerPrefix:    c.CouplerPrefix,
	}
}

// NewRealization serializes res as produced under cfg.
func NewRealization(res *bipartite.Result, cfg bipartite.Config) Realization {
	doc := Realization{
		Feasible: res.Feasible(),
		Config: RealizationConfig{
			MaxQubitDegree:   cfg.MaxQubitDegree,
			MaxCouplerDegree: cfg.MaxCouplerDegree,
			SkipFill:         cfg.SkipFill,
			CouplerPrefix:    cfg.CouplerPrefix,
		},
		Stats: res.Stats,
	}
	if res.Blocked != nil {
		b := *res.Blocked
		doc.Blocked = &b
	}
	if doc.Feasible {
		bip := FromGraph(res.Bipartite)
		qp := FromGraph(res.QubitProjection)
		cp := FromGraph(res.CouplerProjection)
		doc.Bipartite, doc.QubitProjection, doc.CouplerProjection = &bip, &qp, &cp
	}
	return doc
}

// Result rebuilds the [bipartite.Result]. Projections are recomputed from
// the bipartite graph rather than trusted from the document.
func (d Realization) Result() (*bipartite.Result, error) {
	res := &bipartite.Result{Stats: d.Stats}
	if !d.Feasible {
		if d.Blocked != nil {
			b := *d.Blocked
			res.Blocked = &b
		}
		return res, nil
	}
	if d.Bipartite == nil {
		return nil, fmt.Errorf("feasible realization without bipartite graph")
	}
	g, err := d.Bipartite.ToGraph()
	if err != nil {
		return nil, fmt.Errorf("bipartite: %w", err)
	}
	if err := g.ValidateBipartite(); err != nil {
		return nil, fmt.Errorf("bipartite: %w", err)
	}
	res.Bipartite = g
	res.QubitProjection = graph.Project(g, graph.NodeKindQubit)
	res.CouplerProjection = graph.Project(g, graph.NodeKindCoupler)
	return res, nil
}
