package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stdoutPath as --output writes a single artifact to stdout.
const stdoutPath = "-"

// artifactWriteParams describes rendered artifacts and where they go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // default path without extension
	output    string // --output flag
	stdout    io.Writer
}

// artifactPaths maps each format to its output path.
//
// A single format goes to --output verbatim. Several formats share the
// --output stem (or the default base) with the format as extension.
func artifactPaths(formats []string, base, output string) (map[string]string, error) {
	if output == stdoutPath {
		if len(formats) != 1 {
			return nil, fmt.Errorf("--output - needs exactly one format, got %d", len(formats))
		}
		return map[string]string{formats[0]: stdoutPath}, nil
	}
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths, nil
	}
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths, nil
}

// writeArtifacts writes every artifact in format order and lists the files.
func writeArtifacts(p artifactWriteParams) error {
	paths, err := artifactPaths(p.formats, p.base, p.output)
	if err != nil {
		return err
	}
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := paths[format]
		if path == stdoutPath {
			w := p.stdout
			if w == nil {
				w = stdout
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write %s: %w", format, err)
			}
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// inputBase derives the default output base from a pattern file or a
// topology spec: "chip.json" becomes "chip.realized", "grid:3x4" becomes
// "grid-3x4.realized".
func inputBase(file, topology string) string {
	if file != "" {
		return strings.TrimSuffix(file, filepath.Ext(file)) + ".realized"
	}
	return strings.NewReplacer(":", "-", "/", "-").Replace(topology) + ".realized"
}
