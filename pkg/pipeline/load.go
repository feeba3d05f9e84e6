package pipeline

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/matzehuels/corral/pkg/cache"
	"github.com/matzehuels/corral/pkg/errors"
	"github.com/matzehuels/corral/pkg/graph"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/topology"
)

// LoadPattern reads the coupling pattern named by opts.
func LoadPattern(opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	var (
		g   *graph.Graph
		err error
	)
	switch {
	case opts.Pattern != nil:
		g = opts.Pattern
	case opts.PatternFile != "":
		g, err = corralio.ImportGraph(opts.PatternFile)
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pattern file %s", opts.PatternFile)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "pattern file %s", opts.PatternFile)
		}
	default:
		g, err = topology.Parse(opts.Topology)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "topology %q", opts.Topology)
		}
	}

	if err := validatePattern(g); err != nil {
		return nil, err
	}
	return g, nil
}

func validatePattern(g *graph.Graph) error {
	for _, n := range g.Nodes() {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if n.IsCoupler() {
			return errors.New(errors.ErrCodeInvalidPattern, "pattern contains coupler %q", n.ID)
		}
	}
	return nil
}

// PatternHash hashes the qubits and pairs of g in insertion order. Metadata
// is left out, so a file and a topology spec describing the same pattern
// share cache entries. Insertion order is kept because it decides the
// construction order.
func PatternHash(g *graph.Graph) (string, error) {
	doc := corralio.FromGraph(g)
	doc.Meta = nil
	for i := range doc.Nodes {
		doc.Nodes[i].Meta = nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hash pattern: %w", err)
	}
	return cache.Hash(data), nil
}
