package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// pointsPerInch converts canvas pixels to Graphviz node widths.
const pointsPerInch = 72.0

// ToDOT converts a layout to an undirected DOT graph with every node pinned
// at its canvas position. Graphviz's y axis points up, so y is flipped to
// match the SVG renderer.
func ToDOT(g *graph.Graph, pos []force.Point, colors []string, opts ...Option) string {
	s := newScene(g, pos, colors, newOptions(opts...))

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", s.opts.Width, s.opts.Height)
	if s.opts.Background != "" {
		fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.opts.Background)
	} else {
		buf.WriteString("  bgcolor=\"transparent\";\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", penwidth=0.5];\n")
	buf.WriteString("  edge [penwidth=0.5, color=\"#00000099\"];\n")

	h := float64(s.opts.Height)
	for i, p := range s.pos {
		fmt.Fprintf(&buf, "  n%d [pos=\"%.2f,%.2f!\", width=%.4f, fillcolor=\"%s\", tooltip=\"%s\"];\n",
			i, p.X, h-p.Y, s.sizes[i]/pointsPerInch, s.colors[i], escapeDOT(g.Names[i]))
	}
	for _, e := range force.Edges(g.Adjacency) {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.U, e.V)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphviz renders DOT produced by ToDOT to SVG with the neato engine.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
