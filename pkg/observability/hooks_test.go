package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want no-op default", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want no-op default", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want no-op default", HTTP())
	}

	p, c, h := &testPipelineHooks{}, &testCacheHooks{}, &testHTTPHooks{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetHTTPHooks(h)
	if Pipeline() != p || Cache() != c || HTTP() != h {
		t.Fatal("registered hooks not returned")
	}

	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("SetCacheHooks(nil) left %T, want no-op", Cache())
	}
	if Pipeline() != p {
		t.Error("resetting one category should not touch the others")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore the pipeline no-op")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	SetLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	ctx := context.Background()
	Pipeline().OnLoadComplete(ctx, "ring:8", 8, 8, time.Millisecond, nil)
	Pipeline().OnRealizeComplete(ctx, 4, true, time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, []string{"svg"})
	Cache().OnCacheMiss(ctx, "realization")
	Cache().OnCacheSet(ctx, "artifact", 512)
	HTTP().OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	HTTP().OnError(ctx, "POST", "/v1/realize", context.DeadlineExceeded)

	out := buf.String()
	for _, want := range []string{
		"source=ring:8", "realize complete", "couplers=4", "cache miss",
		"bytes=512", "status=200", "deadline exceeded",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	SetLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	Cache().OnCacheHit(context.Background(), "realization")
	if buf.Len() != 0 {
		t.Errorf("debug hooks wrote at info level: %q", buf.String())
	}
}
