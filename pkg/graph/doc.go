// Package graph provides the undirected graph used to describe qubit coupling
// patterns and their bipartite qubit/coupler realizations.
//
// # Overview
//
// Corral plans the physical coupling layout of superconducting chips. A chip is
// a bipartite graph: qubits on one side, couplers on the other, and every edge
// attaches one qubit to one coupler. The qubits that can run a two-qubit gate
// are the ones sharing a coupler, which is the qubit projection of the chip.
//
// This package holds both kinds of graph with a single type. Required coupling
// patterns contain only [NodeKindQubit] nodes with qubit-qubit edges, while a
// realization mixes [NodeKindQubit] and [NodeKindCoupler] nodes and must stay
// bipartite (see [Graph.ValidateBipartite]).
//
// # Basic Usage
//
//	g := graph.New(nil)
//	g.AddNode(graph.Node{ID: "q0"})
//	g.AddNode(graph.Node{ID: "q1"})
//	g.AddEdge("q0", "q1")
//
// # Determinism
//
// Every accessor returns nodes in insertion order and edges in canonical
// order (see [Graph.Edges]). Two graphs built by the same sequence of calls
// produce identical output, which keeps realizations reproducible and lets
// callers hash serialized graphs for caching.
//
// # Projections and Isomorphism
//
// [Project] computes the projection of a bipartite graph onto one partition.
// [Isomorphic] compares two graphs up to relabeling and is the correctness
// oracle for realizations: the qubit projection of a realization must be
// isomorphic to the pattern it was built from.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Read-only graphs can be
// shared between goroutines.
package graph
