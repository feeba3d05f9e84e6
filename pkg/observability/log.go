package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. Register it with [SetLogHooks].
type LogHooks struct {
	Logger *log.Logger
}

// SetLogHooks registers LogHooks backed by logger for all event categories.
func SetLogHooks(logger *log.Logger) {
	h := &LogHooks{Logger: logger.WithPrefix("obs")}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, qubits, pairs int, d time.Duration, err error) {
	h.Logger.Debug("load complete", "source", source, "qubits", qubits, "pairs", pairs, "took", d, "err", err)
}

func (h *LogHooks) OnRealizeStart(_ context.Context, qubits, pairs int) {
	h.Logger.Debug("realize start", "qubits", qubits, "pairs", pairs)
}

func (h *LogHooks) OnRealizeComplete(_ context.Context, couplers int, feasible bool, d time.Duration, err error) {
	h.Logger.Debug("realize complete", "couplers", couplers, "feasible", feasible, "took", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "took", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.Logger.Debug("handler error", "method", method, "route", route, "err", err)
}
