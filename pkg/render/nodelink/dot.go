package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/graph"
)

// Node colors.
const (
	QubitColor   = "#e06c75"
	CouplerColor = "#98c379"
)

// Options configures diagram generation.
type Options struct {
	// Projections adds the qubit and coupler projections as side panels.
	Projections bool

	// Detailed includes degrees and metadata in node labels.
	Detailed bool
}

// ToDOT converts a realization to Graphviz DOT source.
//
// Qubits are red circles and couplers green boxes; couplers holding a single
// qubit are drawn dashed. An infeasible result renders as a single note
// naming the blocked pair.
func ToDOT(res *bipartite.Result, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)

	if !res.Feasible() {
		msg := "infeasible"
		if res.Blocked != nil {
			msg += "\nblocked at " + res.Blocked.String()
		}
		fmt.Fprintf(&buf, "  infeasible [shape=note, label=%q];\n", msg)
		buf.WriteString("}\n")
		return buf.String()
	}

	if !opts.Projections {
		writeGraph(&buf, res.Bipartite, "", "  ", opts.Detailed)
		buf.WriteString("}\n")
		return buf.String()
	}

	writeCluster(&buf, "bipartite", "qubits and couplers", res.Bipartite, "", opts.Detailed)
	writeCluster(&buf, "qubits", "qubit projection", res.QubitProjection, "qp:", opts.Detailed)
	writeCluster(&buf, "couplers", "coupler projection", res.CouplerProjection, "cp:", opts.Detailed)
	buf.WriteString("}\n")
	return buf.String()
}

// GraphDOT converts a single graph, such as a coupling pattern, to DOT.
func GraphDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeGraph(&buf, g, "", "  ", opts.Detailed)
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("graph G {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=14, fontcolor=white, penwidth=0];\n")
	buf.WriteString("\n")
}

func writeCluster(buf *bytes.Buffer, name, label string, g *graph.Graph, prefix string, detailed bool) {
	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", name)
	fmt.Fprintf(buf, "    label=%q;\n", label)
	buf.WriteString("    style=rounded;\n")
	writeGraph(buf, g, prefix, "    ", detailed)
	buf.WriteString("  }\n")
}

func writeGraph(buf *bytes.Buffer, g *graph.Graph, prefix, indent string, detailed bool) {
	for _, n := range g.Nodes() {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, prefix+n.ID, strings.Join(fmtAttrs(g, n, detailed), ", "))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(buf, "%s%q -- %q;\n", indent, prefix+e.U, prefix+e.V)
	}
}

func fmtLabel(g *graph.Graph, n *graph.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{fmt.Sprintf("deg: %d", g.Degree(n.ID))}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(g *graph.Graph, n *graph.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, n, detailed))}
	if n.IsCoupler() {
		attrs = append(attrs, "shape=box", fmt.Sprintf("fillcolor=%q", CouplerColor))
		if g.Degree(n.ID) == 1 {
			attrs = append(attrs, "style=\"filled,dashed\"", "penwidth=1")
		}
		return attrs
	}
	return append(attrs, "shape=circle", fmt.Sprintf("fillcolor=%q", QubitColor))
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
