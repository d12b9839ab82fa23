package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
)

const netscienceSample = `Creator "Mark Newman"
graph
[
  directed 0
  node
  [
    id 0
    label "ABRAMSON, G"
  ]
  node
  [
    id 1
    label "KUPERMAN, M"
  ]
  node
  [
    id 2
    label "ACEBRON, J"
  ]
  node
  [
    id 3
  ]
  edge
  [
    source 1
    target 0
    value 2.5
  ]
  edge
  [
    source 0
    target 1
    value 0.5
  ]
  edge [ source 2 target 3 ]
  edge [ source 3 target 3 ]
]
`

func TestReadGML(t *testing.T) {
	g, err := Read(strings.NewReader(netscienceSample), FormatGML)
	require.NoError(t, err)

	assert.Equal(t, []string{"ABRAMSON, G", "KUPERMAN, M", "ACEBRON, J", "3"}, g.Names)
	assert.Equal(t, 2, g.EdgeCount(), "duplicate edge collapses and self-loop is dropped")
	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 0))
	assert.True(t, g.HasEdge(2, 3))
	assert.False(t, g.HasEdge(3, 3))
	require.NoError(t, g.Validate())
}

func TestReadGMLSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
		names []string
		edges int
	}{
		{
			name:  "Comments",
			input: "# header\ngraph [ # inline\n node [ id 7 ] node [ id 9 ] edge [ source 7 target 9 ] ]",
			names: []string{"7", "9"},
			edges: 1,
		},
		{
			name:  "NestedUnknownKeys",
			input: `graph [ node [ id 1 graphics [ x 1.5 y -2 ] label "a" ] node [ id 2 label "b" ] ]`,
			names: []string{"a", "b"},
			edges: 0,
		},
		{
			name:  "EscapedLabel",
			input: `graph [ node [ id 1 label "AT&amp;T" ] ]`,
			names: []string{"AT&T"},
		},
		{
			name:  "StringIDs",
			input: `graph [ node [ id "x" ] node [ id "y" ] edge [ source "y" target "x" ] ]`,
			names: []string{"x", "y"},
			edges: 1,
		},
		{
			name:  "FirstGraphOnly",
			input: `graph [ node [ id 1 ] ] graph [ node [ id 2 ] node [ id 3 ] ]`,
			names: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Read(strings.NewReader(tt.input), FormatGML)
			require.NoError(t, err)
			assert.Equal(t, tt.names, g.Names)
			assert.Equal(t, tt.edges, g.EdgeCount())
		})
	}
}

func TestReadGMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"NoGraph", `Creator "x"`, errors.ErrCodeInvalidFormat},
		{"Unterminated", `graph [ node [ id 1 ]`, errors.ErrCodeInvalidFormat},
		{"StrayBracket", `graph [ ] ]`, errors.ErrCodeInvalidFormat},
		{"UnterminatedString", `graph [ node [ id 1 label "abc ] ]`, errors.ErrCodeInvalidFormat},
		{"MissingValue", `graph [ node [ id ] ]`, errors.ErrCodeInvalidFormat},
		{"NodeWithoutID", `graph [ node [ label "a" ] ]`, errors.ErrCodeInvalidFormat},
		{"DuplicateID", `graph [ node [ id 1 ] node [ id 1 ] ]`, errors.ErrCodeInvalidFormat},
		{"UnknownEndpoint", `graph [ node [ id 1 ] edge [ source 1 target 2 ] ]`, errors.ErrCodeInvalidFormat},
		{"EdgeWithoutTarget", `graph [ node [ id 1 ] edge [ source 1 ] ]`, errors.ErrCodeInvalidFormat},
		{"Empty", `graph [ ]`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), FormatGML)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestReadJSON(t *testing.T) {
	input := `{
		"nodes": [{"id": "a", "label": "Alice"}, {"id": "b"}, {"id": "c"}],
		"edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}, {"from": "c", "to": "c"}]
	}`
	g, err := Read(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "b", "c"}, g.Names)
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.Degree(0))
	assert.Equal(t, 0, g.Degree(2))
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Malformed", `{"nodes": [`},
		{"EmptyID", `{"nodes": [{"id": ""}]}`},
		{"DuplicateID", `{"nodes": [{"id": "a"}, {"id": "a"}]}`},
		{"UnknownFrom", `{"nodes": [{"id": "a"}], "edges": [{"from": "x", "to": "a"}]}`},
		{"UnknownTo", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "error: %v", err)
		})
	}
}

func TestReadDOT(t *testing.T) {
	input := `graph G {
		a -- b;
		b -- c;
		c -- b;
		c -- c;
		c [label="Charlie"];
		d;
	}`
	g, err := Read(strings.NewReader(input), FormatDOT)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "Charlie", "d"}, g.Names)
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 2))
	assert.Equal(t, 0, g.Degree(3))
}

func TestReadDOTMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(`graph { a -- `), FormatGV)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "error: %v", err)
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), "graphml")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "netscience.gml")
	require.NoError(t, os.WriteFile(path, []byte(netscienceSample), 0644))

	g, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.gml"))
		assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "error: %v", err)
	})

	t.Run("BadExtension", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "graph.xml"))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "error: %v", err)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := ReadFile("")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "error: %v", err)
	})
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := New([]string{"x", "x", "y"})
	g.AddEdge(0, 2)
	g.AddEdge(1, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))

	got, err := Read(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, g.Names, got.Names, "duplicate names survive")
	assert.Equal(t, g.Adjacency, got.Adjacency)
}

func TestGraphQueries(t *testing.T) {
	g := New([]string{"a", "b", "c"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 1)

	idx, ok := g.Index("b")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = g.Index("z")
	assert.False(t, ok)

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.Degree(1))
	require.NoError(t, g.Validate())

	g.Names = g.Names[:2]
	assert.True(t, errors.Is(g.Validate(), errors.ErrCodeInvalidInput))
}

func TestLayout(t *testing.T) {
	g := New([]string{"a", "b"})
	g.AddEdge(0, 1)
	pos := []force.Point{{X: 1.25, Y: -3}, {X: 0.1 + 0.2, Y: 1e-17}}
	cfg := force.DefaultConfig()

	l, err := NewLayout(g, pos, []string{"#2F1410", "#2F1410"}, cfg, 7)
	require.NoError(t, err)
	assert.Equal(t, pos, l.Positions())
	assert.Equal(t, []string{"#2F1410", "#2F1410"}, l.Colors())

	path := filepath.Join(t.TempDir(), "graph.layout.json")
	require.NoError(t, WriteLayoutFile(l, path))

	got, err := ReadLayoutFile(path)
	require.NoError(t, err)
	assert.Equal(t, l, got)
	assert.Equal(t, pos, got.Positions(), "coordinates round-trip exactly")

	rebuilt, err := got.Graph()
	require.NoError(t, err)
	assert.Equal(t, g.Adjacency, rebuilt.Adjacency)
}

func TestNewLayoutErrors(t *testing.T) {
	g := New([]string{"a", "b"})

	_, err := NewLayout(g, []force.Point{{}}, nil, force.DefaultConfig(), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = NewLayout(g, []force.Point{{}, {}}, []string{"#000000"}, force.DefaultConfig(), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	l, err := NewLayout(g, []force.Point{{}, {}}, nil, force.DefaultConfig(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, l.Colors())
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Malformed", `{`},
		{"NoNodes", `{"nodes": []}`},
		{"DanglingEdge", `{"nodes": [{"id": "0", "x": 0, "y": 0}], "edges": [{"from": "0", "to": "1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "error: %v", err)
		})
	}

	_, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
