// Package pkg provides the core libraries for corral, a tool that realizes
// qubit coupling patterns as qubit/coupler hardware graphs.
//
// # Overview
//
// A coupling pattern says which qubit pairs must interact. Corral builds a
// bipartite graph of qubits and couplers in which two qubits share a coupler
// exactly when the pattern pairs them, while keeping every qubit and coupler
// under its degree cap. The pkg directory is organized into:
//
//  1. [graph] - Undirected graph model, projections, isomorphism
//  2. [bipartite] - Greedy realization (satisfy, fill, prune, verify)
//  3. [topology] - Catalogue of common coupling patterns
//  4. [io] - JSON documents for patterns and realizations
//  5. [render] - Graphviz diagrams and SVG conversion
//  6. [pipeline] - Orchestration (load → realize → render) with caching
//  7. [cache], [store], [server] - Infrastructure for the CLI and API
//
// # Architecture
//
// The typical data flow:
//
//	Pattern file / topology spec
//	         ↓
//	    [topology] or [io] package (load pattern)
//	         ↓
//	    [bipartite] package (realize under degree caps)
//	         ↓
//	    [render/nodelink] package (DOT + SVG)
//	         ↓
//	    JSON/DOT/SVG/PDF/PNG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/corral/pkg/bipartite"
//	    "github.com/matzehuels/corral/pkg/topology"
//	)
//
//	pattern, _ := topology.Parse("grid:3x3")
//	res, err := bipartite.Realize(pattern, bipartite.Config{
//	    MaxQubitDegree:   4,
//	    MaxCouplerDegree: 2,
//	})
//	if err != nil {
//	    return err // bad config or internal failure
//	}
//	if !res.Feasible() {
//	    fmt.Println("blocked at", res.Blocked)
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [graph] - Simple undirected graphs with qubit and coupler node kinds,
// deterministic accessors, [graph.Project] and [graph.Isomorphic].
//
// [bipartite] - The realization itself. [bipartite.Realize] runs the greedy
// satisfier, the capacity filler and the pruner, then verifies the result.
// An infeasible pattern is a normal outcome, not an error.
//
// [topology] - Path, ring, star, complete, grid, ladder and corral patterns,
// plus chip tables given as qubits, couplers and attachments.
//
// ## Serialization and Visualization
//
// [io] - JSON node-link documents for patterns and realization documents
// that round-trip a [bipartite.Result].
//
// [render/nodelink] - Graphviz DOT for a realization and its projections.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - The load → realize → render pipeline used by the CLI and API.
// Ensures consistent behavior across entry points.
//
// [cache] - Content-addressed caching of realizations and artifacts (file,
// Redis, or none).
//
// [store] - Saved realization records (memory, file, MongoDB).
//
// [server] - HTTP API on chi.
//
// [config] - TOML configuration. [errors] - Coded errors shared by all layers.
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                          # All tests
//	go test ./pkg/bipartite/...                # Specific package
//	go test -run Example ./pkg/...             # Examples only
//	CORRAL_REDIS_URL=redis://localhost:6379/0 \
//	CORRAL_MONGO_URI=mongodb://localhost \
//	    go test ./pkg/cache/... ./pkg/store/...  # Backend integration tests
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/graph
// [bipartite]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/bipartite
// [topology]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/topology
// [io]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/corral/pkg/observability
package pkg
