package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/observability"
	"github.com/matzehuels/forcelayout/pkg/palette"
)

// keyTypeLayout labels layout entries in cache hooks.
const keyTypeLayout = "layout"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the expiry of stored layouts; zero keeps them forever.
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
		TTL:    cache.TTLLayout,
	}
}

// Execute runs the complete load → layout → color → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.GraphHash = graphHash(g)

	logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	pos, info, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = pos
	result.CacheInfo = info
	result.Stats.LayoutTime = time.Since(layoutStart)

	logger.Info("computed layout",
		"iterations", opts.Iterations,
		"cached", info.LayoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Colors
	comps := palette.Components(g.Adjacency)
	result.Stats.Components = len(comps)
	result.Colors = palette.ComponentColors(g.Adjacency)

	result.Layout, err = graph.NewLayout(g, pos, result.Colors, opts.ForceConfig(), opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, err := r.renderLayout(ctx, g, result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads a graph file, choosing the parser by extension.
func (r *Runner) Load(ctx context.Context, path string) (*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, err := graph.ReadFile(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	r.Logger.Debug("read graph", "path", path, "nodes", g.NodeCount())
	return g, nil
}

// LayoutWithCacheInfo computes node positions with caching and returns
// where they came from. The cache key covers the graph content and every
// option that changes the result, so a hit is bit-identical to a recompute.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) ([]force.Point, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, CacheInfo{}, err
	}

	store := cache.NewLayoutStore(r.Cache, r.TTL)
	info := CacheInfo{LayoutKey: r.Keyer.LayoutKey(graphHash(g), opts.LayoutKeyOpts())}
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		pos, hit, err := store.Load(ctx, info.LayoutKey, g.NodeCount())
		if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		if hit {
			cacheHooks.OnCacheHit(ctx, keyTypeLayout)
			info.LayoutHit = true
			return pos, info, nil
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	pos, err := computeLayout(ctx, g, opts)
	if err != nil {
		return nil, CacheInfo{}, err
	}

	// Cache the result
	size, err := store.Save(ctx, info.LayoutKey, pos)
	if err != nil {
		r.Logger.Warn("layout cache write failed", "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, keyTypeLayout, size)
	}

	return pos, info, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) ([]force.Point, error) {
	pos, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return pos, err
}

// Render produces every requested format for an already positioned graph.
// colors may be nil, in which case component colors are computed.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, pos []force.Point, colors []string, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	opts.SetLayoutDefaults()

	if colors == nil {
		colors = palette.ComponentColors(g.Adjacency)
	}
	l, err := graph.NewLayout(g, pos, colors, opts.ForceConfig(), opts.Seed)
	if err != nil {
		return nil, err
	}
	return r.renderLayout(ctx, g, l, opts)
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

// graphHash is the content hash used in cache keys and results.
func graphHash(g *graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
