// Package render draws computed layouts as static images.
//
// # Overview
//
// Layout coordinates are unbounded; [Fit] maps them into a fixed canvas
// before drawing. Nodes are circles whose diameter grows with degree,
// baseSize·ln(3+degree), filled with their component color. Edges are drawn
// first so nodes sit on top.
//
//	svg := render.RenderSVG(g, pos, colors, render.WithSize(1200, 1200))
//
// # Graphviz
//
// [ToDOT] emits the same picture as DOT with every node pinned, and
// [RenderGraphviz] draws it with Graphviz's neato engine, which honors
// pinned positions instead of computing its own:
//
//	dot := render.ToDOT(g, pos, colors)
//	svg, err := render.RenderGraphviz(ctx, dot)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG using the external rsvg-convert tool
// (from librsvg). They fail with an UNSUPPORTED error when it is missing.
package render
