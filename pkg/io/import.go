package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/graph"
)

// ReadGraph decodes a JSON graph from r.
//
// Each node must have an "id"; "kind" is "qubit" (default) or "coupler".
// Each edge must have "u" and "v" fields that reference node IDs.
//
// ReadGraph returns an error if the JSON is malformed, a node ID is empty or
// duplicated, or an edge references an unknown node, loops, or repeats.
// Errors are wrapped with the offending node or edge; use errors.Is to check
// for the graph package's sentinel errors. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.ToGraph()
}

// ImportGraph reads a JSON graph file at path.
func ImportGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// UnmarshalRealization decodes a realization document and rebuilds the
// result and the config it was produced under.
func UnmarshalRealization(data []byte) (*bipartite.Result, bipartite.Config, error) {
	var doc Realization
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, bipartite.Config{}, fmt.Errorf("decode: %w", err)
	}
	res, err := doc.Result()
	if err != nil {
		return nil, bipartite.Config{}, err
	}
	return res, doc.Config.Bipartite(), nil
}

// ReadRealization decodes a realization document from r.
func ReadRealization(r io.Reader) (*bipartite.Result, bipartite.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, bipartite.Config{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalRealization(data)
}

// ReadRealizationFile reads a realization document from the file at path.
func ReadRealizationFile(path string) (*bipartite.Result, bipartite.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bipartite.Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	return UnmarshalRealization(data)
}
