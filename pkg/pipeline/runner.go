package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/cache"
	"github.com/matzehuels/corral/pkg/errors"
	"github.com/matzehuels/corral/pkg/graph"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-entry default expiry when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → realize → render pipeline with caching.
//
// An infeasible pattern is not a pipeline failure: the result is returned
// with its artifacts together with an error coded
// [errors.ErrCodeInfeasible].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Config: opts.Bipartite()}

	// Stage 1: Load
	hooks := observability.Pipeline()
	source := opts.Source()
	hooks.OnLoadStart(ctx, source)
	loadStart := time.Now()
	pattern, err := LoadPattern(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Pattern = pattern
	result.Stats.Qubits = pattern.NodeCount()
	result.Stats.Pairs = pattern.EdgeCount()
	hooks.OnLoadComplete(ctx, source, result.Stats.Qubits, result.Stats.Pairs, result.Stats.LoadTime, nil)

	r.Logger.Info("loaded pattern",
		"source", source,
		"qubits", result.Stats.Qubits,
		"pairs", result.Stats.Pairs,
		"duration", result.Stats.LoadTime)

	// Stage 2: Realize
	realizeStart := time.Now()
	res, realizeHit, err := r.RealizeWithCacheInfo(ctx, pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("realize: %w", err)
	}
	result.Realization = res
	result.Stats.RealizeTime = time.Since(realizeStart)
	result.Stats.Couplers = len(res.Couplers())
	result.CacheInfo.RealizeHit = realizeHit
	result.PatternHash, _ = PatternHash(pattern)

	if res.Feasible() {
		r.Logger.Info("realized pattern",
			"couplers", result.Stats.Couplers,
			"edges", res.Bipartite.EdgeCount(),
			"cached", realizeHit,
			"duration", result.Stats.RealizeTime)
	} else {
		r.Logger.Warn("pattern is infeasible",
			"blocked", res.Blocked,
			"max_qubit_degree", opts.MaxQubitDegree,
			"max_coupler_degree", opts.MaxCouplerDegree)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, infeasible(res)
}

// Load is a convenience wrapper around [LoadPattern] that uses the runner's
// logger.
func (r *Runner) Load(opts Options) (*graph.Graph, error) {
	r.applyLogger(&opts)
	return LoadPattern(opts)
}

// RealizeWithCacheInfo realizes pattern with caching and returns cache hit
// info. Infeasible results are cached too; only errors are not.
func (r *Runner) RealizeWithCacheInfo(ctx context.Context, pattern *graph.Graph, opts Options) (*bipartite.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRealize(); err != nil {
		return nil, false, err
	}

	patternHash, err := PatternHash(pattern)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.RealizationKey(patternHash, opts.RealizeKeyOpts())
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, _, err := corralio.UnmarshalRealization(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "realization")
				return res, true, nil
			}
			// A corrupt entry falls through to recompute
		}
		cacheHooks.OnCacheMiss(ctx, "realization")
	}

	hooks := observability.Pipeline()
	hooks.OnRealizeStart(ctx, pattern.NodeCount(), pattern.EdgeCount())
	start := time.Now()
	cfg := opts.Bipartite()
	res, err := bipartite.Realize(pattern, cfg)
	if err != nil {
		hooks.OnRealizeComplete(ctx, 0, false, time.Since(start), err)
		return nil, false, realizeError(err)
	}
	hooks.OnRealizeComplete(ctx, len(res.Couplers()), res.Feasible(), time.Since(start), nil)

	if data, err := corralio.MarshalRealization(res, cfg); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.RealizationTTL)); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "realization", len(data))
		}
	}

	return res, false, nil
}

// Realize is a convenience wrapper that calls RealizeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Realize(ctx context.Context, pattern *graph.Graph, opts Options) (*bipartite.Result, error) {
	res, _, err := r.RealizeWithCacheInfo(ctx, pattern, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The hit flag is set only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *bipartite.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	opts.SetRealizeDefaults()
	cfg := opts.Bipartite()

	// Key artifacts by the realization document they are drawn from
	doc, err := corralio.MarshalRealization(res, cfg)
	if err != nil {
		return nil, false, fmt.Errorf("serialize realization for cache key: %w", err)
	}
	realizationHash := cache.Hash(doc)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(realizationHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, res, cfg, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(realizationHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.ArtifactTTL)); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *bipartite.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// realizeError maps construction errors onto error codes.
func realizeError(err error) error {
	switch {
	case stderrors.Is(err, bipartite.ErrInvalidConfig):
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "realization config")
	case stderrors.Is(err, bipartite.ErrInvalidPattern):
		return errors.Wrap(errors.ErrCodeInvalidPattern, err, "coupling pattern")
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "realize")
	}
}
