// Package topology generates coupling patterns for common chip layouts.
//
// Generators name their qubits q0..qN-1 in a fixed order, so the same call
// always yields the same pattern and, through the deterministic realizer,
// the same chip. [Parse] builds a pattern from a "name:size" string such as
// "ring:8" or "grid:3x4".
package topology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/corral/pkg/graph"
)

var (
	// ErrUnknownTopology is returned by Parse for names not in the catalogue.
	ErrUnknownTopology = errors.New("unknown topology")

	// ErrInvalidSize is returned when a generator size is out of range or
	// cannot be parsed.
	ErrInvalidSize = errors.New("invalid topology size")
)

// Info describes a catalogue entry.
type Info struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
}

type entry struct {
	Info
	dims  int // 1 for "N", 2 for "RxC"
	min   int
	size  func(d []int) (qubits, pairs int)
	build func(d []int) (*graph.Graph, error)
}

// maxDim bounds each size component so that pair counts cannot overflow.
const maxDim = 1 << 30

var catalogue = []entry{
	{Info{"path", "path:N", "N qubits in a line"}, 1, 1,
		func(d []int) (int, int) { return d[0], d[0] - 1 },
		func(d []int) (*graph.Graph, error) { return Path(d[0]) }},
	{Info{"ring", "ring:N", "N qubits in a cycle (N >= 3)"}, 1, 3,
		func(d []int) (int, int) { return d[0], d[0] },
		func(d []int) (*graph.Graph, error) { return Ring(d[0]) }},
	{Info{"star", "star:N", "a hub qubit paired with N leaves"}, 1, 1,
		func(d []int) (int, int) { return d[0] + 1, d[0] },
		func(d []int) (*graph.Graph, error) { return Star(d[0]) }},
	{Info{"complete", "complete:N", "every pair of N qubits coupled"}, 1, 1,
		func(d []int) (int, int) { return d[0], d[0] * (d[0] - 1) / 2 },
		func(d []int) (*graph.Graph, error) { return Complete(d[0]) }},
	{Info{"grid", "grid:RxC", "R by C square lattice"}, 2, 1,
		func(d []int) (int, int) { return d[0] * d[1], d[0]*(d[1]-1) + d[1]*(d[0]-1) },
		func(d []int) (*graph.Graph, error) { return Grid(d[0], d[1]) }},
	{Info{"ladder", "ladder:N", "two rails of N qubits joined by rungs"}, 1, 2,
		func(d []int) (int, int) { return 2 * d[0], 3*d[0] - 2 },
		func(d []int) (*graph.Graph, error) { return Ladder(d[0]) }},
	// Each cell adds an inner and an outer edge, two diagonals and one rung.
	{Info{"corral", "corral:N", "ring of N four-qubit cells sharing couplers (N >= 3)"}, 1, 3,
		func(d []int) (int, int) { return 2 * d[0], 5 * d[0] },
		func(d []int) (*graph.Graph, error) { return Corral(d[0]) }},
}

// List returns the catalogue in display order.
func List() []Info {
	out := make([]Info, len(catalogue))
	for i, e := range catalogue {
		out[i] = e.Info
	}
	return out
}

// Parse builds the pattern named by spec, e.g. "ring:8" or "grid:3x4".
// Callers that need to bound the work should check [Size] first.
func Parse(spec string) (*graph.Graph, error) {
	e, d, err := lookup(spec)
	if err != nil {
		return nil, err
	}
	g, err := e.build(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	g.Meta()["topology"] = e.Name + ":" + strings.Join(dimStrings(d), "x")
	return g, nil
}

// Size returns the number of qubits and coupled pairs the pattern named by
// spec would have, without generating it.
func Size(spec string) (qubits, pairs int, err error) {
	e, d, err := lookup(spec)
	if err != nil {
		return 0, 0, err
	}
	qubits, pairs = e.size(d)
	return qubits, pairs, nil
}

func lookup(spec string) (entry, []int, error) {
	name, size, ok := strings.Cut(strings.TrimSpace(spec), ":")
	if !ok {
		return entry{}, nil, fmt.Errorf("%w: %q (want name:size)", ErrInvalidSize, spec)
	}
	name = strings.ToLower(name)
	for _, e := range catalogue {
		if e.Name != name {
			continue
		}
		d, err := e.parseDims(size)
		if err != nil {
			return entry{}, nil, fmt.Errorf("%s: %w", name, err)
		}
		return e, d, nil
	}
	return entry{}, nil, fmt.Errorf("%w: %q", ErrUnknownTopology, name)
}

func (e entry) parseDims(size string) ([]int, error) {
	parts := []string{size}
	if e.dims == 2 {
		a, b, ok := strings.Cut(strings.ToLower(size), "x")
		if !ok {
			return nil, fmt.Errorf("%w: %q (want RxC)", ErrInvalidSize, size)
		}
		parts = []string{a, b}
	}
	d := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSize, size)
		}
		if err := atLeast(n, e.min); err != nil {
			return nil, err
		}
		if n > maxDim {
			return nil, fmt.Errorf("%w: %d (maximum %d)", ErrInvalidSize, n, maxDim)
		}
		d[i] = n
	}
	return d, nil
}

func dimStrings(d []int) []string {
	out := make([]string, len(d))
	for i, n := range d {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// QubitID returns the generator name of qubit i.
func QubitID(i int) string { return "q" + strconv.Itoa(i) }

func qubits(n int) *graph.Graph {
	g := graph.New(nil)
	for i := 0; i < n; i++ {
		_ = g.AddNode(graph.Node{ID: QubitID(i)})
	}
	return g
}

func couple(g *graph.Graph, i, j int) {
	u, v := QubitID(i), QubitID(j)
	if !g.HasEdge(u, v) {
		_ = g.AddEdge(u, v)
	}
}

func atLeast(n, min int) error {
	if n < min {
		return fmt.Errorf("%w: %d (minimum %d)", ErrInvalidSize, n, min)
	}
	return nil
}

// Path returns n qubits coupled in a line.
func Path(n int) (*graph.Graph, error) {
	if err := atLeast(n, 1); err != nil {
		return nil, err
	}
	g := qubits(n)
	for i := 0; i+1 < n; i++ {
		couple(g, i, i+1)
	}
	return g, nil
}

// Ring returns n qubits coupled in a cycle.
func Ring(n int) (*graph.Graph, error) {
	if err := atLeast(n, 3); err != nil {
		return nil, err
	}
	g, _ := Path(n)
	couple(g, n-1, 0)
	return g, nil
}

// Star returns hub q0 coupled to leaves q1..qN.
func Star(leaves int) (*graph.Graph, error) {
	if err := atLeast(leaves, 1); err != nil {
		return nil, err
	}
	g := qubits(leaves + 1)
	for i := 1; i <= leaves; i++ {
		couple(g, 0, i)
	}
	return g, nil
}

// Complete returns n qubits with every pair coupled.
func Complete(n int) (*graph.Graph, error) {
	if err := atLeast(n, 1); err != nil {
		return nil, err
	}
	g := qubits(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			couple(g, i, j)
		}
	}
	return g, nil
}

// Grid returns a rows x cols square lattice numbered row by row.
func Grid(rows, cols int) (*graph.Graph, error) {
	if err := atLeast(rows, 1); err != nil {
		return nil, err
	}
	if err := atLeast(cols, 1); err != nil {
		return nil, err
	}
	g := qubits(rows * cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if c+1 < cols {
				couple(g, i, i+1)
			}
			if r+1 < rows {
				couple(g, i, i+cols)
			}
		}
	}
	return g, nil
}

// Ladder returns two rails q0..q(n-1) and qn..q(2n-1) with a rung between
// matching positions.
func Ladder(n int) (*graph.Graph, error) {
	if err := atLeast(n, 2); err != nil {
		return nil, err
	}
	return Grid(2, n)
}

// Corral returns the qubit projection of [CorralChip].
func Corral(n int) (*graph.Graph, error) {
	chip, err := CorralChip(n)
	if err != nil {
		return nil, err
	}
	return FromChip(chip)
}
