package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/observability"
)

// =============================================================================
// Layout Computation
// =============================================================================

// computeLayout runs the force simulation without consulting the cache.
func computeLayout(ctx context.Context, g *graph.Graph, opts Options) ([]force.Point, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount(), opts.Iterations)
	start := time.Now()

	pos, err := runEngine(ctx, g, opts)
	hooks.OnLayoutComplete(ctx, g.NodeCount(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("force layout finished",
		"nodes", g.NodeCount(),
		"iterations", opts.Iterations,
		"workers", opts.Workers,
		"duration", time.Since(start))
	return pos, nil
}

func runEngine(ctx context.Context, g *graph.Graph, opts Options) ([]force.Point, error) {
	engine, err := force.New(opts.ForceConfig(),
		force.WithSeed(opts.Seed),
		force.WithWorkers(opts.Workers),
		force.WithLogger(opts.Logger),
		force.WithStep(opts.OnStep),
	)
	if err != nil {
		return nil, err
	}
	return engine.Layout(ctx, g.Adjacency, opts.InitPositions)
}
