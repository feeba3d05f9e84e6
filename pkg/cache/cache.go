// Package cache stores realization results and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, never from user-chosen
// names. A realization is keyed by the hash of its pattern plus the degree
// caps; an artifact by the hash of its realization plus render options. Two
// requests for the same pattern under the same caps therefore share one
// entry, whatever file or topology spec they came from.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry type.
const (
	RealizationTTL = 7 * 24 * time.Hour
	ArtifactTTL    = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RealizeKeyOpts are the realization settings that change its output.
type RealizeKeyOpts struct {
	MaxQubitDegree   int    `json:"a"`
	MaxCouplerDegree int    `json:"b"`
	SkipFill         bool   `json:"skip_fill,omitempty"`
	CouplerPrefix    string `json:"prefix,omitempty"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Projections bool   `json:"projections,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// RealizationKey keys a realization by pattern hash and settings.
	RealizationKey(patternHash string, opts RealizeKeyOpts) string

	// ArtifactKey keys a rendered artifact by realization hash and settings.
	ArtifactKey(realizationHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "type:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RealizationKey implements Keyer.
func (DefaultKeyer) RealizationKey(patternHash string, opts RealizeKeyOpts) string {
	return hashKey("realization", patternHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(realizationHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", realizationHash, opts)
}
