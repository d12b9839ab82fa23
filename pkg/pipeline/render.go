package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/observability"
	"github.com/matzehuels/forcelayout/pkg/render"
)

// renderLayout generates output artifacts in the requested formats.
// PDF and PNG are converted from the SVG, which is drawn at most once.
func (r *Runner) renderLayout(ctx context.Context, g *graph.Graph, l graph.Layout, opts Options) (map[string][]byte, error) {
	pos, colors := l.Positions(), l.Colors()
	hooks := observability.Pipeline()

	var svg []byte
	drawSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		if opts.Graphviz {
			svg, err = render.RenderGraphviz(ctx, render.ToDOT(g, pos, colors, opts.RenderOptions()...))
		} else {
			svg = render.RenderSVG(g, pos, colors, opts.RenderOptions()...)
		}
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data, err = drawSVG()
		case FormatDOT:
			data = []byte(render.ToDOT(g, pos, colors, opts.RenderOptions()...))
		case FormatPDF:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatPNG:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}
