package bipartite

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corral/pkg/graph"
)

type phase int

const (
	phaseNew phase = iota
	phaseSatisfied
	phaseBlocked
	phaseFinished
)

// pair is an unordered qubit pair keyed in rank order.
type pair struct{ lo, hi string }

// Builder runs a realization one phase at a time. It is not safe for
// concurrent use.
type Builder struct {
	cfg     Config
	pattern *graph.Graph
	logger  *log.Logger

	g        *graph.Graph
	qubits   []string       // pattern order
	rank     map[string]int // qubit rank
	couplers []string       // allocation order
	corder   map[string]int // coupler allocation index
	required map[pair]struct{}
	nextID   int

	phase   phase
	blocked *Relationship
	stats   Stats
}

// NewBuilder validates cfg and pattern and seeds a working graph holding
// every pattern node as a qubit.
func NewBuilder(pattern *graph.Graph, cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, fmt.Errorf("%w: nil pattern", ErrInvalidPattern)
	}
	if err := pattern.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if cfg.CouplerPrefix == "" {
		cfg.CouplerPrefix = DefaultCouplerPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b := &Builder{
		cfg:      cfg,
		pattern:  pattern,
		logger:   logger,
		g:        graph.New(graph.Metadata{"max_qubit_degree": cfg.MaxQubitDegree, "max_coupler_degree": cfg.MaxCouplerDegree}),
		rank:     make(map[string]int, pattern.NodeCount()),
		corder:   make(map[string]int),
		required: make(map[pair]struct{}, pattern.EdgeCount()),
	}
	for _, n := range pattern.Nodes() {
		if n.IsCoupler() {
			return nil, fmt.Errorf("%w: node %q is a coupler", ErrInvalidPattern, n.ID)
		}
		_ = b.g.AddNode(graph.Node{ID: n.ID, Kind: graph.NodeKindQubit, Meta: copyMeta(n.Meta)})
		b.rank[n.ID] = len(b.qubits)
		b.qubits = append(b.qubits, n.ID)
	}
	for _, e := range pattern.Edges() {
		b.required[b.key(e.U, e.V)] = struct{}{}
	}
	b.stats.Relationships = len(b.required)
	return b, nil
}

// Graph returns the working graph. It is owned by the builder and changes
// with every phase.
func (b *Builder) Graph() *graph.Graph { return b.g }

// Stats returns the counters accumulated so far.
func (b *Builder) Stats() Stats { return b.stats }

func (b *Builder) key(u, v string) pair {
	if b.rank[u] > b.rank[v] {
		u, v = v, u
	}
	return pair{lo: u, hi: v}
}

func (b *Builder) isRequired(u, v string) bool {
	_, ok := b.required[b.key(u, v)]
	return ok
}

func (b *Builder) couplerDegree(c string) int { return b.g.Degree(c) }

// allocate adds a fresh coupler and returns its ID. IDs that collide with
// existing nodes are skipped.
func (b *Builder) allocate() string {
	var id string
	for {
		id = b.cfg.CouplerPrefix + strconv.Itoa(b.nextID)
		b.nextID++
		if !b.g.HasNode(id) {
			break
		}
	}
	_ = b.g.AddNode(graph.Node{ID: id, Kind: graph.NodeKindCoupler})
	b.corder[id] = len(b.corder)
	b.couplers = append(b.couplers, id)
	b.stats.CouplersAllocated++
	b.logger.Debug("allocated coupler", "coupler", id)
	return id
}

func (b *Builder) attach(q, c string) {
	_ = b.g.AddEdge(q, c)
}

// Finish prunes unused couplers, computes both projections and verifies the
// result. Calling Finish on a blocked builder returns the infeasible result.
// The builder must not be used afterwards; a second Finish returns
// ErrBuilderFinished.
func (b *Builder) Finish() (*Result, error) {
	switch b.phase {
	case phaseBlocked:
		return &Result{Blocked: b.blocked, Stats: b.stats}, nil
	case phaseFinished:
		return nil, ErrBuilderFinished
	case phaseNew:
		if blocked := b.Satisfy(); blocked != nil {
			return &Result{Blocked: blocked, Stats: b.stats}, nil
		}
	}
	b.phase = phaseFinished

	b.prune()
	if err := Verify(b.pattern, b.g, b.cfg); err != nil {
		return nil, err
	}
	for _, c := range b.couplers {
		if b.g.Degree(c) == 1 {
			b.stats.HangingCouplers++
		}
	}

	b.logger.Debug("realization finished",
		"qubits", len(b.qubits),
		"couplers", len(b.couplers),
		"edges", b.g.EdgeCount())

	return &Result{
		Bipartite:         b.g,
		QubitProjection:   graph.Project(b.g, graph.NodeKindQubit),
		CouplerProjection: graph.Project(b.g, graph.NodeKindCoupler),
		Stats:             b.stats,
	}, nil
}

// prune removes couplers with no attached qubits.
func (b *Builder) prune() {
	kept := b.couplers[:0]
	for _, c := range b.couplers {
		if b.g.Degree(c) == 0 {
			b.g.RemoveNode(c)
			b.stats.CouplersPruned++
			continue
		}
		kept = append(kept, c)
	}
	b.couplers = kept
}

func copyMeta(m graph.Metadata) graph.Metadata {
	if m == nil {
		return nil
	}
	out := make(graph.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
