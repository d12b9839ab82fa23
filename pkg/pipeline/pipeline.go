// Package pipeline provides the load → layout → color → render pipeline
// for forcelayout.
//
// The CLI subcommands are thin wrappers over a [Runner]; keeping the stages
// here means every entry point shares the same defaults, cache keys and
// observability hooks.
//
// # Stages
//
//  1. Load: read a graph file (GML, JSON or DOT)
//  2. Layout: run the force simulation, or reuse a cached result
//  3. Colors: map connected-component sizes onto the palette
//  4. Render: produce the requested output formats (SVG, DOT, PDF, PNG, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	opts := pipeline.DefaultOptions()
//	opts.Input = "netscience.gml"
//	opts.Formats = []string{pipeline.FormatSVG}
//
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Stages can also be run individually:
//
//	g, err := runner.Load(ctx, "netscience.gml")
//	pos, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, g, pos, palette.ComponentColors(g.Adjacency), opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
//
// The zero value is not a sensible layout: Gravity 0 disables gravity and
// is honored as such. Start from [DefaultOptions] or [FromConfig].
type Options struct {
	// Load options
	Input string `json:"input,omitempty"`

	// Layout options
	Area       float64 `json:"area"`
	Gravity    float64 `json:"gravity"`
	Speed      float64 `json:"speed"`
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
	Workers    int     `json:"workers,omitempty"`
	// InitPositions replaces random placement; it must have one entry per node.
	InitPositions []force.Point `json:"-"`
	// Refresh recomputes the layout even when the cache holds it.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats  []string       `json:"formats,omitempty"`
	Graphviz bool           `json:"graphviz,omitempty"`
	Render   render.Options `json:"render"`
	PNGScale float64        `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	OnStep force.StepFunc `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// DefaultOptions returns options holding the engine and renderer defaults.
func DefaultOptions() Options {
	return FromConfig(config.Default())
}

// FromConfig builds options from a settings file.
func FromConfig(cfg config.Config) Options {
	return Options{
		Area:       cfg.Layout.Area,
		Gravity:    cfg.Layout.Gravity,
		Speed:      cfg.Layout.Speed,
		Iterations: cfg.Layout.Iterations,
		Seed:       cfg.Layout.Seed,
		Workers:    cfg.Layout.Workers,
		Render:     cfg.Render.Options(),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and metrics.
	RunID string

	// Graph is the loaded graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Positions holds the final coordinates in matrix order.
	Positions []force.Point

	// Colors holds the component colors in matrix order.
	Colors []string

	// Layout is the serializable combination of the above.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Components int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache usage for the layout stage.
type CacheInfo struct {
	LayoutKey string // Key the layout was looked up under
	LayoutHit bool   // Whether the layout came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation. A zero
// seed selects force.DefaultSeed.
func (o *Options) SetLayoutDefaults() {
	if o.Seed == 0 {
		o.Seed = force.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", o.Workers)
	}
	return o.ForceConfig().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ForceConfig returns the engine configuration.
func (o *Options) ForceConfig() force.Config {
	return force.Config{
		Area:       o.Area,
		Gravity:    o.Gravity,
		Speed:      o.Speed,
		Iterations: o.Iterations,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Area:       o.Area,
		Gravity:    o.Gravity,
		Speed:      o.Speed,
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
	if o.InitPositions != nil {
		opts.InitHash = cache.PositionsHash(o.InitPositions)
	}
	return opts
}

// RenderOptions returns the renderer options.
func (o *Options) RenderOptions() []render.Option {
	return []render.Option{render.WithOptions(o.Render)}
}
