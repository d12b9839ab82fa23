package graph

import (
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// dotGraph receives a DOT file from the gonum decoder. It adds names to the
// nodes and drops self-loops, which simple.UndirectedGraph would reject.
type dotGraph struct {
	*simple.UndirectedGraph
}

type dotNode struct {
	graph.Node
	id    string
	label string
}

func (n *dotNode) SetDOTID(id string) { n.id = unquoteDOT(id) }

func (n *dotNode) SetAttribute(attr encoding.Attribute) error {
	if attr.Key == "label" {
		n.label = unquoteDOT(attr.Value)
	}
	return nil
}

func (n *dotNode) name() string {
	if n.label != "" {
		return n.label
	}
	return n.id
}

func (g dotGraph) NewNode() graph.Node {
	return &dotNode{Node: g.UndirectedGraph.NewNode()}
}

func (g dotGraph) SetEdge(e graph.Edge) {
	if e.From().ID() == e.To().ID() {
		return
	}
	g.UndirectedGraph.SetEdge(e)
}

func readDOT(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read dot")
	}

	dst := dotGraph{simple.NewUndirectedGraph()}
	if err := dot.Unmarshal(data, dst); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dot")
	}

	nodes := graph.NodesOf(dst.Nodes())
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	index := make(map[int64]int, len(nodes))
	names := make([]string, len(nodes))
	for i, n := range nodes {
		index[n.ID()] = i
		if dn, ok := n.(*dotNode); ok {
			names[i] = dn.name()
		} else {
			names[i] = nodeID(i)
		}
	}

	g := New(names)
	edges := dst.Edges()
	for edges.Next() {
		e := edges.Edge()
		g.AddEdge(index[e.From().ID()], index[e.To().ID()])
	}
	return g, nil
}

func unquoteDOT(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\"`, `"`)
	}
	return s
}
