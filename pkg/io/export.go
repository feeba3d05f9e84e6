package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/graph"
)

// WriteGraph encodes g as indented JSON and writes it to w.
// The output can be re-imported with [ReadGraph].
func WriteGraph(g *graph.Graph, w io.Writer) error {
	return writeJSON(w, FromGraph(g))
}

// ExportGraph writes g to a JSON file at path.
func ExportGraph(g *graph.Graph, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteGraph(g, w) })
}

// MarshalRealization encodes res, produced under cfg, as compact JSON.
func MarshalRealization(res *bipartite.Result, cfg bipartite.Config) ([]byte, error) {
	data, err := json.Marshal(NewRealization(res, cfg))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteRealization encodes res as indented JSON and writes it to w.
func WriteRealization(res *bipartite.Result, cfg bipartite.Config, w io.Writer) error {
	return writeJSON(w, NewRealization(res, cfg))
}

// WriteRealizationFile writes res to a JSON file at path.
func WriteRealizationFile(res *bipartite.Result, cfg bipartite.Config, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteRealization(res, cfg, w) })
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
