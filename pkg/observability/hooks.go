// Package observability lets callers watch realization runs, cache traffic
// and API requests without the library depending on a metrics backend.
//
// Each event category has a hook interface with a no-op default. The binary
// registers implementations at startup (libraries never do, which keeps
// import cycles away); library code fetches the current hooks and calls them:
//
//	observability.Pipeline().OnRealizeStart(ctx, qubits, pairs)
//	res, err := bipartite.Realize(pattern, cfg)
//	observability.Pipeline().OnRealizeComplete(ctx, couplers, res.Feasible(), time.Since(start), err)
//
// [LogHooks] implements every interface by writing debug lines to a
// charmbracelet logger; `corral serve` registers it.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the realization pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, qubits, pairs int, duration time.Duration, err error)

	// Realize events
	OnRealizeStart(ctx context.Context, qubits, pairs int)
	OnRealizeComplete(ctx context.Context, couplers int, feasible bool, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler failure.
	OnError(ctx context.Context, method, route string, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRealizeStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnRealizeComplete(context.Context, int, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry holds the hooks in effect. A nil registration restores the no-op.
var registry = struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// SetPipelineHooks registers pipeline hooks. Call it at startup, before
// any runner is used.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		h = NoopPipelineHooks{}
	}
	registry.Lock()
	registry.pipeline = h
	registry.Unlock()
}

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		h = NoopCacheHooks{}
	}
	registry.Lock()
	registry.cache = h
	registry.Unlock()
}

// SetHTTPHooks registers API server hooks.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		h = NoopHTTPHooks{}
	}
	registry.Lock()
	registry.http = h
	registry.Unlock()
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.http
}

// Reset restores every category to its no-op default.
func Reset() {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)
}
