package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
)

// =============================================================================
// Layout - Computed Positions
// =============================================================================

// Layout is the serialized result of a layout run: one entry per node in
// matrix order, the graph's edges, and the parameters that produced it.
//
//	{
//	  "nodes": [{"id": "0", "label": "BARABASI, A", "x": 12.5, "y": -3.0, "color": "#2F1410"}],
//	  "edges": [{"from": "0", "to": "1"}],
//	  "config": {"area": 22, "gravity": 0.8, "speed": 0.01, "iterations": 2000},
//	  "seed": 42
//	}
type Layout struct {
	Nodes  []LayoutNode `json:"nodes"`
	Edges  []Edge       `json:"edges"`
	Config force.Config `json:"config"`
	Seed   int64        `json:"seed"`
}

// LayoutNode is a positioned node.
type LayoutNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// NewLayout combines a graph with its computed positions. colors may be nil;
// otherwise it must be index aligned with the graph like pos.
func NewLayout(g *Graph, pos []force.Point, colors []string, cfg force.Config, seed int64) (Layout, error) {
	n := g.NodeCount()
	if len(pos) != n {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "layout has %d positions for %d nodes", len(pos), n)
	}
	if colors != nil && len(colors) != n {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "layout has %d colors for %d nodes", len(colors), n)
	}

	doc := ToDocument(g)
	l := Layout{
		Nodes:  make([]LayoutNode, n),
		Edges:  doc.Edges,
		Config: cfg,
		Seed:   seed,
	}
	for i, node := range doc.Nodes {
		l.Nodes[i] = LayoutNode{ID: node.ID, Label: node.Label, X: pos[i].X, Y: pos[i].Y}
		if colors != nil {
			l.Nodes[i].Color = colors[i]
		}
	}
	return l, nil
}

// Positions returns the node coordinates in matrix order.
func (l Layout) Positions() []force.Point {
	out := make([]force.Point, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = force.Point{X: n.X, Y: n.Y}
	}
	return out
}

// Colors returns the node colors in matrix order.
func (l Layout) Colors() []string {
	out := make([]string, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = n.Color
	}
	return out
}

// Graph rebuilds the graph the layout was computed for.
func (l Layout) Graph() (*Graph, error) {
	doc := Document{Nodes: make([]Node, len(l.Nodes)), Edges: l.Edges}
	for i, n := range l.Nodes {
		doc.Nodes[i] = Node{ID: n.ID, Label: n.Label}
	}
	return FromDocument(doc)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every edge refers to a known node.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Nodes) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain nodes")
	}
	if _, err := l.Graph(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
