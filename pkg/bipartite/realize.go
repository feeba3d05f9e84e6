package bipartite

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corral/pkg/graph"
)

var (
	// ErrInvalidConfig is returned before construction when the degree caps
	// are unusable. MaxCouplerDegree must be at least 2 (a coupler joins a
	// pair) and MaxQubitDegree at least 1.
	ErrInvalidConfig = errors.New("invalid realization config")

	// ErrInvalidPattern is returned when the pattern graph is nil, corrupt,
	// or already contains coupler nodes.
	ErrInvalidPattern = errors.New("invalid coupling pattern")

	// ErrInfeasible marks a pattern the greedy construction could not
	// realize under the given caps. [Realize] does not return it; use
	// [Result.Err] to convert an infeasible result into an error.
	ErrInfeasible = errors.New("no realization under the given degree caps")

	// ErrInvariant is returned when a finished construction fails
	// verification. It signals a defect in the construction, never a
	// property of the input.
	ErrInvariant = errors.New("realization invariant violated")

	// ErrBuilderFinished is returned by [Builder.Finish] when called on a
	// builder that already produced its result.
	ErrBuilderFinished = errors.New("builder already finished")
)

// DefaultCouplerPrefix is the ID prefix of allocated couplers.
const DefaultCouplerPrefix = "c"

// Config holds the degree caps and construction options.
type Config struct {
	// MaxQubitDegree caps the number of couplers attached to a qubit.
	MaxQubitDegree int `json:"max_qubit_degree" bson:"max_qubit_degree"`

	// MaxCouplerDegree caps the number of qubits attached to a coupler.
	MaxCouplerDegree int `json:"max_coupler_degree" bson:"max_coupler_degree"`

	// SkipFill stops after the required pairs are joined, leaving spare
	// qubit capacity unused.
	SkipFill bool `json:"skip_fill,omitempty" bson:"skip_fill,omitempty"`

	// CouplerPrefix names allocated couplers (prefix + counter).
	// Defaults to DefaultCouplerPrefix.
	CouplerPrefix string `json:"coupler_prefix,omitempty" bson:"coupler_prefix,omitempty"`

	// Logger receives a debug trace of the construction. Optional.
	Logger *log.Logger `json:"-" bson:"-"`
}

// Validate rejects caps that make construction meaningless.
func (c Config) Validate() error {
	if c.MaxCouplerDegree < 2 {
		return fmt.Errorf("%w: max coupler degree must be at least 2, got %d", ErrInvalidConfig, c.MaxCouplerDegree)
	}
	if c.MaxQubitDegree < 1 {
		return fmt.Errorf("%w: max qubit degree must be at least 1, got %d", ErrInvalidConfig, c.MaxQubitDegree)
	}
	return nil
}

// Relationship is a qubit pair of the pattern. A is the qubit inserted
// first into the pattern.
type Relationship struct {
	A string `json:"a" bson:"a"`
	B string `json:"b" bson:"b"`
}

// String returns "A-B".
func (r Relationship) String() string { return r.A + "-" + r.B }

// Stats describes a construction run.
type Stats struct {
	Relationships     int `json:"relationships" bson:"relationships"`           // required pairs in the pattern
	AlreadySatisfied  int `json:"already_satisfied" bson:"already_satisfied"`   // pairs joined as a side effect of earlier pairs
	CouplersAllocated int `json:"couplers_allocated" bson:"couplers_allocated"` // couplers created, including pruned ones
	CouplersPruned    int `json:"couplers_pruned" bson:"couplers_pruned"`       // couplers removed with no attachments
	SatisfyEdges      int `json:"satisfy_edges" bson:"satisfy_edges"`           // attachments made while joining pairs
	FillEdges         int `json:"fill_edges" bson:"fill_edges"`                 // attachments made while filling capacity
	HangingCouplers   int `json:"hanging_couplers" bson:"hanging_couplers"`     // final couplers with a single qubit
}

// Result is the outcome of a construction.
//
// A feasible result carries the bipartite graph and both projections. An
// infeasible result has all three graphs nil and Blocked set.
type Result struct {
	Bipartite         *graph.Graph
	QubitProjection   *graph.Graph
	CouplerProjection *graph.Graph

	// Blocked is the first pair the satisfier could not join.
	Blocked *Relationship

	Stats Stats
}

// Feasible reports whether the result holds a realization.
func (r *Result) Feasible() bool { return r != nil && r.Bipartite != nil }

// Err returns nil for a feasible result and an error wrapping
// ErrInfeasible otherwise.
func (r *Result) Err() error {
	if r.Feasible() {
		return nil
	}
	if r == nil || r.Blocked == nil {
		return ErrInfeasible
	}
	return fmt.Errorf("%w: cannot join %s", ErrInfeasible, r.Blocked)
}

// Couplers returns the coupler IDs of a feasible result in allocation order.
func (r *Result) Couplers() []string {
	if !r.Feasible() {
		return nil
	}
	return graph.IDs(r.Bipartite.NodesOfKind(graph.NodeKindCoupler))
}

// Realize builds a bipartite qubit/coupler graph whose qubit projection
// equals pattern, honoring the caps in cfg.
//
// Every node of pattern is treated as a qubit. Configuration problems return
// ErrInvalidConfig or ErrInvalidPattern before any work is done. When the
// greedy construction gets stuck, Realize returns an infeasible Result and a
// nil error. ErrInvariant is returned only if verification of a finished
// construction fails.
func Realize(pattern *graph.Graph, cfg Config) (*Result, error) {
	b, err := NewBuilder(pattern, cfg)
	if err != nil {
		return nil, err
	}
	if blocked := b.Satisfy(); blocked != nil {
		return b.Finish()
	}
	if !cfg.SkipFill {
		b.Fill()
	}
	return b.Finish()
}
