// Package pipeline runs the load → realize → render pipeline for corral.
//
// The CLI and the API server both drive realizations through a [Runner], so
// caching, logging and output formats behave the same from either entry
// point.
//
// # Stages
//
//  1. Load: read a coupling pattern from a JSON file, a topology spec such
//     as "ring:8", or an in-memory graph
//  2. Realize: build the qubit/coupler graph under the degree caps
//  3. Render: produce artifacts (json, dot, svg, pdf, png)
//
// Realizations are cached by pattern hash and caps, artifacts by
// realization hash and render options. Infeasible results are cached like
// feasible ones; the construction is deterministic.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Topology: "grid:3x3",
//	    Formats:  []string{"json", "svg"},
//	})
//	if errors.Is(err, errors.ErrCodeInfeasible) {
//	    // result.Realization.Blocked names the pair that could not be joined
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/cache"
	"github.com/matzehuels/corral/pkg/errors"
	"github.com/matzehuels/corral/pkg/graph"
	"github.com/matzehuels/corral/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxQubitDegree is the default number of couplers per qubit.
	DefaultMaxQubitDegree = 4

	// DefaultMaxCouplerDegree is the default number of qubits per coupler.
	// Two gives the classic one-coupler-per-pair layout.
	DefaultMaxCouplerDegree = 2
)

// Output formats. FormatJSON is the realization document; the others are
// diagrams.
const (
	FormatJSON = "json"
	FormatDOT  = render.FormatDOT
	FormatSVG  = render.FormatSVG
	FormatPDF  = render.FormatPDF
	FormatPNG  = render.FormatPNG
)

// ValidFormats lists every format Render accepts.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. Exactly one pattern source must be
// set: Pattern, PatternFile or Topology.
type Options struct {
	// Pattern source
	Pattern     *graph.Graph // in-memory pattern (API requests)
	PatternFile string       // JSON graph file
	Topology    string       // catalogue spec, e.g. "ring:8"

	// Realization
	MaxQubitDegree   int
	MaxCouplerDegree int
	SkipFill         bool
	CouplerPrefix    string

	// Render
	Formats     []string
	Projections bool // add qubit and coupler projection panels
	Detailed    bool // degrees and metadata in node labels

	// Cache
	Refresh bool // bypass cache reads; results are still written

	Logger *log.Logger

	validated bool
}

// Result holds the output of a full pipeline run.
type Result struct {
	Pattern     *graph.Graph
	PatternHash string
	Realization *bipartite.Result
	Config      bipartite.Config
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats records timing and size for each stage.
type Stats struct {
	LoadTime    time.Duration
	RealizeTime time.Duration
	RenderTime  time.Duration
	Qubits      int
	Pairs       int
	Couplers    int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	RealizeHit bool // Whether the realization came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRealize(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one pattern source is set.
func (o *Options) ValidateForLoad() error {
	n := 0
	for _, set := range []bool{o.Pattern != nil, o.PatternFile != "", o.Topology != ""} {
		if set {
			n++
		}
	}
	switch n {
	case 0:
		return errors.New(errors.ErrCodeInvalidInput, "pattern, pattern file or topology is required")
	case 1:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "pattern, pattern file and topology are mutually exclusive")
	}
	o.setLoggerDefault()
	return nil
}

// SetRealizeDefaults fills in unset degree caps and the coupler prefix.
func (o *Options) SetRealizeDefaults() {
	if o.MaxQubitDegree == 0 {
		o.MaxQubitDegree = DefaultMaxQubitDegree
	}
	if o.MaxCouplerDegree == 0 {
		o.MaxCouplerDegree = DefaultMaxCouplerDegree
	}
	if o.CouplerPrefix == "" {
		o.CouplerPrefix = bipartite.DefaultCouplerPrefix
	}
	o.setLoggerDefault()
}

// ValidateForRealize applies realize defaults and checks the caps.
func (o *Options) ValidateForRealize() error {
	o.SetRealizeDefaults()
	if err := errors.ValidateDegrees(o.MaxQubitDegree, o.MaxCouplerDegree); err != nil {
		return err
	}
	return errors.ValidateNodeID(o.CouplerPrefix)
}

// SetRenderDefaults selects the JSON document when no format is given and
// lowercases format names.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
	}
	o.setLoggerDefault()
}

// ValidateForRender applies render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Bipartite returns the realization config. The logger is attached so the
// construction trace follows the pipeline's log level.
func (o *Options) Bipartite() bipartite.Config {
	return bipartite.Config{
		MaxQubitDegree:   o.MaxQubitDegree,
		MaxCouplerDegree: o.MaxCouplerDegree,
		SkipFill:         o.SkipFill,
		CouplerPrefix:    o.CouplerPrefix,
		Logger:           o.Logger,
	}
}

// RealizeKeyOpts returns cache key options for the realization.
func (o *Options) RealizeKeyOpts() cache.RealizeKeyOpts {
	return cache.RealizeKeyOpts{
		MaxQubitDegree:   o.MaxQubitDegree,
		MaxCouplerDegree: o.MaxCouplerDegree,
		SkipFill:         o.SkipFill,
		CouplerPrefix:    o.CouplerPrefix,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Projections: o.Projections,
		Detailed:    o.Detailed,
	}
}

// Source describes where the pattern comes from, for logs and hooks.
func (o *Options) Source() string {
	switch {
	case o.PatternFile != "":
		return o.PatternFile
	case o.Topology != "":
		return o.Topology
	default:
		return "inline"
	}
}

// infeasible converts an infeasible realization into a coded error.
func infeasible(res *bipartite.Result) error {
	if res.Feasible() {
		return nil
	}
	if res.Blocked == nil {
		return errors.Wrap(errors.ErrCodeInfeasible, res.Err(), "pattern cannot be realized under the degree caps")
	}
	return errors.Wrap(errors.ErrCodeInfeasible, res.Err(), "cannot join %s under the degree caps", res.Blocked)
}
