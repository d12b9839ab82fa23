package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// Options holds the canvas settings shared by the SVG and DOT renderers.
type Options struct {
	Width      int
	Height     int
	Margin     float64
	BaseSize   float64
	Background string // CSS color; empty for transparent
}

// DefaultOptions returns the default canvas.
func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Margin:     DefaultMargin,
		BaseSize:   DefaultBaseSize,
		Background: "#FFFFFF",
	}
}

type Option func(*Options)

func WithSize(w, h int) Option        { return func(o *Options) { o.Width, o.Height = w, h } }
func WithMargin(m float64) Option     { return func(o *Options) { o.Margin = m } }
func WithBaseSize(s float64) Option   { return func(o *Options) { o.BaseSize = s } }
func WithBackground(c string) Option  { return func(o *Options) { o.Background = c } }
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

func newOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.BaseSize <= 0 {
		o.BaseSize = DefaultBaseSize
	}
	return o
}

// scene is a layout mapped onto the canvas.
type scene struct {
	opts   Options
	graph  *graph.Graph
	pos    []force.Point // canvas coordinates of node centers
	sizes  []float64     // diameters
	colors []string
}

func newScene(g *graph.Graph, pos []force.Point, colors []string, opts Options) scene {
	sizes := NodeSizes(g, opts.BaseSize)
	maxSize := 0.0
	for _, s := range sizes {
		maxSize = math.Max(maxSize, s)
	}
	fitted := Fit(pos, float64(opts.Width), float64(opts.Height), opts.Margin+maxSize/2)

	fill := make([]string, len(pos))
	for i := range fill {
		fill[i] = "#808080"
		if i < len(colors) && colors[i] != "" {
			fill[i] = colors[i]
		}
	}
	return scene{opts: opts, graph: g, pos: fitted, sizes: sizes, colors: fill}
}

// RenderSVG draws g at pos. colors is index aligned with the nodes; missing
// entries are drawn grey. Each node carries its name as a <title>.
func RenderSVG(g *graph.Graph, pos []force.Point, colors []string, opts ...Option) []byte {
	s := newScene(g, pos, colors, newOptions(opts...))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(s.opts.Width, s.opts.Height)
	if s.opts.Background != "" {
		canvas.Rect(0, 0, s.opts.Width, s.opts.Height, "fill:"+s.opts.Background)
	}

	canvas.Gstyle("stroke:#000000;stroke-width:0.5;stroke-opacity:0.6")
	for _, e := range force.Edges(g.Adjacency) {
		a, b := s.pos[e.U], s.pos[e.V]
		canvas.Line(px(a.X), px(a.Y), px(b.X), px(b.Y))
	}
	canvas.Gend()

	canvas.Gstyle("stroke:#000000;stroke-width:0.5")
	for i, p := range s.pos {
		canvas.Gid(fmt.Sprintf("node-%d", i))
		canvas.Title(g.Names[i])
		canvas.Circle(px(p.X), px(p.Y), radius(s.sizes[i]), "fill:"+s.colors[i])
		canvas.Gend()
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

func px(v float64) int { return int(math.Round(v)) }

// radius rounds half the diameter, never below one pixel.
func radius(size float64) int {
	return max(1, int(math.Round(size/2)))
}
