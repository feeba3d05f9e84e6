// Package nodelink renders realizations as node-link diagrams.
//
// # Overview
//
// Qubits are drawn as red circles and couplers as green boxes, joined by
// undirected edges. With [Options].Projections set, the diagram gains two
// more panels: the qubit projection (which qubits interact) and the coupler
// projection (which couplers share a qubit).
//
// # Usage
//
//	dot := nodelink.ToDOT(result, nodelink.Options{Projections: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [GraphDOT] draws a single graph, which is how coupling patterns are
// previewed before realization. For PDF or PNG output pass the SVG to
// render.Convert.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
