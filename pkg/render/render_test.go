package render

import (
	"bytes"
	"context"
	"math"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

func triangle() (*graph.Graph, []force.Point) {
	g := graph.New([]string{"alice", "bob", "carol & <dave>"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	return g, []force.Point{{X: -100, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 50}}
}

func TestNodeSize(t *testing.T) {
	assert.InDelta(t, 15*math.Log(3), NodeSize(15, 0), 1e-12)
	assert.InDelta(t, 15*math.Log(5), NodeSize(15, 2), 1e-12)
	assert.Greater(t, NodeSize(4, 10), NodeSize(4, 9))

	g, _ := triangle()
	sizes := NodeSizes(g, 4)
	assert.Equal(t, NodeSize(4, 1), sizes[0])
	assert.Equal(t, NodeSize(4, 2), sizes[1])
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		pos  []force.Point
		want []force.Point
	}{
		{
			name: "Empty",
			pos:  nil,
			want: []force.Point{},
		},
		{
			name: "Single",
			pos:  []force.Point{{X: 1234, Y: -99}},
			want: []force.Point{{X: 50, Y: 50}},
		},
		{
			name: "Coincident",
			pos:  []force.Point{{X: 3, Y: 3}, {X: 3, Y: 3}},
			want: []force.Point{{X: 50, Y: 50}, {X: 50, Y: 50}},
		},
		{
			name: "Horizontal",
			pos:  []force.Point{{X: -5, Y: 7}, {X: 5, Y: 7}},
			want: []force.Point{{X: 10, Y: 50}, {X: 90, Y: 50}},
		},
		{
			name: "Vertical",
			pos:  []force.Point{{X: 0, Y: 0}, {X: 0, Y: 1}},
			want: []force.Point{{X: 50, Y: 10}, {X: 50, Y: 90}},
		},
		{
			name: "AspectPreserved",
			pos:  []force.Point{{X: 0, Y: 0}, {X: 200, Y: 100}},
			want: []force.Point{{X: 10, Y: 30}, {X: 90, Y: 70}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.pos, 100, 100, 10)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i].X, got[i].X, 1e-9, "x[%d]", i)
				assert.InDelta(t, tt.want[i].Y, got[i].Y, 1e-9, "y[%d]", i)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	g, pos := triangle()
	out := RenderSVG(g, pos, []string{"#2F1410", "#2F1410"}, WithSize(400, 300), WithBaseSize(6))
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "<?xml"), "has XML header")
	assert.Contains(t, s, `width="400"`)
	assert.Contains(t, s, `height="300"`)
	assert.Equal(t, 2, strings.Count(s, "<line"), "one line per edge")
	assert.Equal(t, 3, strings.Count(s, "<circle"), "one circle per node")
	assert.Equal(t, 2, strings.Count(s, "fill:#2F1410"))
	assert.Contains(t, s, "fill:#808080", "missing color falls back to grey")
	assert.Contains(t, s, "<title>carol &amp; &lt;dave&gt;</title>", "names are escaped")
	assert.Less(t, strings.Index(s, "<line"), strings.Index(s, "<circle"), "edges drawn before nodes")
}

func TestRenderSVGTransparent(t *testing.T) {
	g, pos := triangle()
	s := string(RenderSVG(g, pos, nil, WithBackground("")))
	assert.NotContains(t, s, "<rect")
	assert.Contains(t, s, `width="1200"`)
}

func TestToDOT(t *testing.T) {
	g, pos := triangle()
	dot := ToDOT(g, pos, []string{"#2F1410", "#3E1C1C", "#4C242B"}, WithSize(200, 200), WithMargin(0), WithBaseSize(1))

	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, "layout=neato;")
	assert.Equal(t, 3, strings.Count(dot, "!\""), "every node is pinned")
	assert.Contains(t, dot, `fillcolor="#4C242B"`)
	assert.Contains(t, dot, "n0 -- n1;")
	assert.Contains(t, dot, "n1 -- n2;")
	assert.NotContains(t, dot, "n0 -- n2;")
	assert.Contains(t, dot, `tooltip="carol & <dave>"`)
}

func TestEscapeDOT(t *testing.T) {
	assert.Equal(t, `say \"hi\"\n\\`, escapeDOT("say \"hi\"\n\\"))
}

func TestRenderGraphviz(t *testing.T) {
	g, pos := triangle()
	svg, err := RenderGraphviz(context.Background(), ToDOT(g, pos, nil))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(svg, []byte("<svg")))
}

func TestRenderGraphvizInvalid(t *testing.T) {
	_, err := RenderGraphviz(context.Background(), "graph {")
	assert.Error(t, err)
}

func TestConvertMissingTool(t *testing.T) {
	old := rsvgConvert
	rsvgConvert = "forcelayout-missing-rsvg-convert"
	defer func() { rsvgConvert = old }()

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "error: %v", err)

	_, err = ToPNG(context.Background(), []byte("<svg/>"), 2)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "error: %v", err)
}

func TestConvert(t *testing.T) {
	if _, err := exec.LookPath(rsvgConvert); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	g, pos := triangle()
	svg := RenderSVG(g, pos, nil, WithSize(64, 64))

	pdf, err := ToPDF(context.Background(), svg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	png, err := ToPNG(context.Background(), svg, 1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
