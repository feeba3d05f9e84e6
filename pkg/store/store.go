// Package store keeps realization records for later retrieval.
//
// A [Record] pairs a coupling pattern with the realization built from it,
// under a generated UUID. Backends:
//   - [MemoryStore]: in-process, for tests and a single server instance
//   - [FileStore]: one JSON file per record, for CLI history
//   - [MongoStore]: a MongoDB collection, for shared server deployments
//
// Every backend lists records newest first.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/graph"
	corralio "github.com/matzehuels/corral/pkg/io"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("realization not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Record is a stored realization.
type Record struct {
	ID          string               `json:"id" bson:"_id"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	Source      string               `json:"source,omitempty" bson:"source,omitempty"`
	PatternHash string               `json:"pattern_hash" bson:"pattern_hash"`
	Pattern     corralio.Graph       `json:"pattern" bson:"pattern"`
	Realization corralio.Realization `json:"realization" bson:"realization"`
}

// NewRecord builds a record with a fresh ID.
func NewRecord(source, patternHash string, pattern *graph.Graph, res *bipartite.Result, cfg bipartite.Config) *Record {
	return &Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Source:      source,
		PatternHash: patternHash,
		Pattern:     corralio.FromGraph(pattern),
		Realization: corralio.NewRealization(res, cfg),
	}
}

// Result rebuilds the realization and the config it was produced under.
func (r *Record) Result() (*bipartite.Result, bipartite.Config, error) {
	res, err := r.Realization.Result()
	if err != nil {
		return nil, bipartite.Config{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return res, r.Realization.Config.Bipartite(), nil
}

// Store is the interface for record storage backends.
type Store interface {
	// Save stores rec. Saving an existing ID replaces the record.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit of zero or
	// less means DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id is a UUID as generated by NewRecord.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
