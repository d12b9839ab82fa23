package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "netscience.gml")
	p.OnLoadComplete(ctx, "netscience.gml", 1589, 2742, time.Second, nil)
	p.OnLayoutStart(ctx, 1589, 2000)
	p.OnLayoutComplete(ctx, 1589, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnLoadStart(ctx, "g.gml")
	h.OnLoadComplete(ctx, "g.gml", 10, 12, time.Millisecond, nil)
	h.OnLoadComplete(ctx, "bad.gml", 0, 0, time.Millisecond, errors.New("boom"))

	h.OnLayoutStart(ctx, 10, 100)
	if got := testutil.ToFloat64(h.LayoutsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	h.OnLayoutComplete(ctx, 10, 20*time.Millisecond, nil)
	h.OnLayoutStart(ctx, 10, 100)
	h.OnLayoutComplete(ctx, 10, 0, context.Canceled)

	h.OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 300)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheHit(ctx, "layout")

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"loads ok", testutil.ToFloat64(h.LoadsTotal.WithLabelValues("ok")), 1},
		{"loads error", testutil.ToFloat64(h.LoadsTotal.WithLabelValues("error")), 1},
		{"nodes", testutil.ToFloat64(h.GraphNodes), 10},
		{"edges", testutil.ToFloat64(h.GraphEdges), 12},
		{"layouts ok", testutil.ToFloat64(h.LayoutsTotal.WithLabelValues("ok")), 1},
		{"layouts error", testutil.ToFloat64(h.LayoutsTotal.WithLabelValues("error")), 1},
		{"in flight", testutil.ToFloat64(h.LayoutsInFlight), 0},
		{"renders", testutil.ToFloat64(h.RendersTotal.WithLabelValues("svg", "ok")), 1},
		{"render bytes", testutil.ToFloat64(h.RenderBytes.WithLabelValues("svg")), 2048},
		{"cache hits", testutil.ToFloat64(h.CacheOpsTotal.WithLabelValues("layout", "hit")), 2},
		{"cache misses", testutil.ToFloat64(h.CacheOpsTotal.WithLabelValues("layout", "miss")), 1},
		{"cache bytes", testutil.ToFloat64(h.CacheBytesTotal.WithLabelValues("layout")), 300},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n := testutil.CollectAndCount(h.LayoutDuration); n != 1 {
		t.Errorf("duration histogram series = %d, want 1", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	h.OnCacheHit(context.Background(), "layout")

	path := filepath.Join(t.TempDir(), "forcelayout.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `forcelayout_cache_operations_total{key_type="layout",op="hit"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("textfile missing %q:\n%s", want, data)
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
