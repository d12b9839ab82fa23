package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/palette"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// renderFlags holds the canvas flags of the render command.
type renderFlags struct {
	formats     string
	output      string
	graphviz    bool
	width       int
	height      int
	margin      float64
	baseSize    float64
	background  string
	pngScale    float64
	metricsFile string
}

// renderCommand creates the render command for drawing layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags layoutFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph | layout.json]",
		Short: "Render a graph or a computed layout",
		Long: `Render a graph as SVG, DOT, PDF or PNG.

Given a graph file, the layout is computed first (or taken from the cache).
Given a file ending in .layout.json (written by 'forcelayout layout'), its
positions are drawn as they are.

Nodes are sized by degree and colored by the size of their connected
component. PDF and PNG need rsvg-convert (librsvg) on the PATH. With
--graphviz the SVG is drawn by Graphviz's neato engine with every node
pinned at its computed position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.cfg)
			if err != nil {
				return err
			}
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.withMetrics(rf.metricsFile, func() error {
				return c.runRender(cmd.Context(), args[0], opts, flags, rf.output)
			})
		},
	}

	flags.register(cmd)
	d := c.cfg.Render
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), dot, pdf, png, json (comma-separated)")
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&rf.graphviz, "graphviz", false, "draw the SVG with Graphviz (neato, pinned positions)")
	cmd.Flags().IntVar(&rf.width, "width", d.Width, "canvas width in pixels")
	cmd.Flags().IntVar(&rf.height, "height", d.Height, "canvas height in pixels")
	cmd.Flags().Float64Var(&rf.margin, "margin", d.Margin, "canvas margin in pixels")
	cmd.Flags().Float64Var(&rf.baseSize, "base-size", d.BaseSize, "node size scale (size = base * ln(3 + degree))")
	cmd.Flags().StringVar(&rf.background, "background", d.Background, "background color (empty for transparent)")
	cmd.Flags().Float64Var(&rf.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().StringVar(&rf.metricsFile, "metrics-file", "", "write Prometheus metrics to this file (textfile collector format)")

	return cmd
}

// apply merges explicitly set render flags into opts.
func (rf *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	opts.Formats = parseFormats(rf.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.Graphviz = rf.graphviz
	opts.PNGScale = rf.pngScale
	if fs.Changed("width") {
		opts.Render.Width = rf.width
	}
	if fs.Changed("height") {
		opts.Render.Height = rf.height
	}
	if fs.Changed("margin") {
		opts.Render.Margin = rf.margin
	}
	if fs.Changed("base-size") {
		opts.Render.BaseSize = rf.baseSize
	}
	if fs.Changed("background") {
		opts.Render.Background = rf.background
	}
	if opts.Render.Width <= 0 || opts.Render.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", opts.Render.Width, opts.Render.Height)
	}
	if opts.Render.BaseSize <= 0 {
		return fmt.Errorf("base-size must be positive, got %v", opts.Render.BaseSize)
	}
	return nil
}

// runRender produces every requested format and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags, output string) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		g        *graph.Graph
		pos      []force.Point
		colors   []string
		cacheHit bool
	)
	if isLayoutFile(input) {
		l, err := graph.ReadLayoutFile(input)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		if g, err = l.Graph(); err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		pos = l.Positions()
		if colors = l.Colors(); slices.Contains(colors, "") {
			colors = nil
		}
		opts.Seed, cacheHit = l.Seed, true
		logger.Debug("using stored layout", "nodes", g.NodeCount())
	} else {
		if g, err = runner.Load(ctx, input); err != nil {
			return fmt.Errorf("load graph %s: %w", input, err)
		}
		if pos, cacheHit, err = c.computeLayout(ctx, runner, g, opts, flags.quiet); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	sw := newStopwatch(logger)

	opts.Logger = logger
	artifacts, err := runner.Render(ctx, g, pos, colors, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	sw.done("Rendered " + strings.Join(opts.Formats, ", "))

	paths := outputPaths(output, strings.TrimSuffix(input, ".layout.json"), opts.Formats)
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	printSuccess("Render complete")
	for _, f := range formats {
		if err := os.WriteFile(paths[f], artifacts[f], 0644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
		printFile(paths[f])
	}
	printStats(g.NodeCount(), g.EdgeCount(), len(palette.Components(g.Adjacency)), cacheHit)
	return nil
}

func isLayoutFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".layout.json")
}
