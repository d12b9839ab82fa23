package graph

import (
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
)

// =============================================================================
// Graph - Adjacency Matrix Representation
// =============================================================================

// Graph is an undirected graph as an adjacency matrix plus a parallel list
// of node names. Names[i] labels row and column i of Adjacency.
type Graph struct {
	Names     []string
	Adjacency [][]float64
}

// New creates a graph with the given nodes and no edges.
func New(names []string) *Graph {
	adj := make([][]float64, len(names))
	for i := range adj {
		adj[i] = make([]float64, len(names))
	}
	return &Graph{Names: names, Adjacency: adj}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Names) }

// AddEdge connects nodes i and j in both directions. Self-loops are ignored.
func (g *Graph) AddEdge(i, j int) {
	if i == j {
		return
	}
	g.Adjacency[i][j] = 1
	g.Adjacency[j][i] = 1
}

// HasEdge reports whether nodes i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool { return g.Adjacency[i][j] != 0 }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return len(force.Edges(g.Adjacency)) }

// Degree returns the number of neighbours of node i, not counting itself.
func (g *Graph) Degree(i int) int {
	d := 0
	for j, v := range g.Adjacency[i] {
		if j != i && v != 0 {
			d++
		}
	}
	return d
}

// Index returns the position of the first node named name.
func (g *Graph) Index(name string) (int, bool) {
	for i, n := range g.Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Validate checks that names and matrix agree and that the matrix is a
// valid undirected adjacency matrix.
func (g *Graph) Validate() error {
	if len(g.Names) != len(g.Adjacency) {
		return errors.New(errors.ErrCodeInvalidInput,
			"graph has %d names for %d matrix rows", len(g.Names), len(g.Adjacency))
	}
	return force.ValidateAdjacency(g.Adjacency)
}

// =============================================================================
// Document - Node-Link Serialization
// =============================================================================

// Document is the node-link JSON format for graphs.
//
//	{
//	  "nodes": [{"id": "a", "label": "Alice"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a graph node in the node-link format.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"` // Display label (defaults to ID)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected edge in the node-link format.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromDocument builds a Graph from the node-link format.
// Node names are display labels; edges refer to node IDs.
func FromDocument(doc Document) (*Graph, error) {
	index := make(map[string]int, len(doc.Nodes))
	names := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has an empty id", i)
		}
		if _, dup := index[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", n.ID)
		}
		index[n.ID] = i
		names[i] = n.DisplayLabel()
	}

	g := New(names)
	for _, e := range doc.Edges {
		from, ok := index[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s→%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := index[e.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s→%s: unknown node %q", e.From, e.To, e.To)
		}
		g.AddEdge(from, to)
	}
	return g, nil
}

// ToDocument converts g to the node-link format. Node IDs are the decimal
// matrix indices, so duplicate names survive the round trip.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]Node, len(g.Names)),
		Edges: []Edge{},
	}
	ids := make([]string, len(g.Names))
	for i, name := range g.Names {
		ids[i] = nodeID(i)
		doc.Nodes[i] = Node{ID: ids[i], Label: name}
	}
	for _, e := range force.Edges(g.Adjacency) {
		doc.Edges = append(doc.Edges, Edge{From: ids[e.U], To: ids[e.V]})
	}
	return doc
}
