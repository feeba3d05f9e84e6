// Package io provides JSON import and export for coupling patterns and
// realizations.
//
// # Pattern Format
//
// A pattern (or any qubit/coupler graph) is a JSON object with two arrays:
//
//	{
//	  "nodes": [
//	    {"id": "q0"},
//	    {"id": "q1"},
//	    {"id": "c0", "kind": "coupler"}
//	  ],
//	  "edges": [
//	    {"u": "q0", "v": "c0"},
//	    {"u": "q1", "v": "c0"}
//	  ]
//	}
//
// Nodes default to kind "qubit". A node may carry a freeform "meta" object
// that is preserved across import and export.
//
// # Realization Format
//
// A realization document records the caps, the outcome, and, when feasible,
// the bipartite graph with both projections:
//
//	{
//	  "feasible": true,
//	  "config": {"max_qubit_degree": 2, "max_coupler_degree": 2},
//	  "bipartite": {...},
//	  "qubit_projection": {...},
//	  "coupler_projection": {...},
//	  "stats": {...}
//	}
//
// An infeasible document has no graphs and names the blocked pair in
// "blocked". Documents carry bson tags so the same types are stored in
// MongoDB unchanged.
//
// # Import and Export
//
// [ReadGraph] and [WriteGraph] work on any reader or writer; [ImportGraph]
// and [ExportGraph] are file-path conveniences. The realization helpers
// follow the same pattern.
package io
