package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/palette"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags       layoutFlags
		output      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph]",
		Short: "Compute a force-directed layout",
		Long: `Compute a force-directed layout for a graph file (.gml, .json, .dot, .gv).

The result is written as layout JSON: one entry per node with its position
and component color, the edges, and the parameters that produced it. Identical
inputs and parameters always yield identical positions, so results are cached
and reused on later runs.

Render the result with 'forcelayout render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.cfg)
			if err != nil {
				return err
			}
			return c.withMetrics(metricsFile, func() error {
				return c.runLayout(cmd.Context(), args[0], output, opts, flags)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file (textfile collector format)")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, flags layoutFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	logger.Debug("loaded graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	pos, cacheHit, err := c.computeLayout(ctx, runner, g, opts, flags.quiet)
	if err != nil {
		return err
	}

	colors := palette.ComponentColors(g.Adjacency)
	layout, err := graph.NewLayout(g, pos, colors, opts.ForceConfig(), opts.Seed)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), len(palette.Components(g.Adjacency)), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}

// computeLayout runs the cached layout stage with a progress bar on stderr.
func (c *CLI) computeLayout(ctx context.Context, runner *pipeline.Runner, g *graph.Graph, opts pipeline.Options, quiet bool) ([]force.Point, bool, error) {
	logger := loggerFromContext(ctx)
	sw := newStopwatch(logger)

	var bar *iterationBar
	if !quiet {
		bar = newIterationBar(os.Stderr, fmt.Sprintf("Layout of %d nodes", g.NodeCount()), opts.Iterations)
		opts.OnStep = bar.step
	}
	opts.Logger = logger

	pos, info, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if bar != nil {
		bar.clear()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, fmt.Errorf("compute layout: %w", err)
	}

	if info.LayoutHit {
		logger.Debug("layout cache hit", "key", info.LayoutKey)
	} else {
		sw.done(fmt.Sprintf("Layout of %d nodes, %d iterations", g.NodeCount(), opts.Iterations))
	}
	return pos, info.LayoutHit, nil
}

// layoutPath is the default layout output next to the input file.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
