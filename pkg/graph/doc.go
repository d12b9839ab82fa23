// Package graph loads undirected graphs into the adjacency-matrix form the
// layout engine consumes, and serializes computed layouts.
//
// # Core Types
//
//   - [Graph]: node names plus an n×n symmetric 0/1 adjacency matrix, index
//     aligned (row i, column i and Names[i] all describe node i)
//   - [Document], [Node], [Edge]: the node-link JSON wire format
//   - [Layout]: computed positions with names, colors and parameters
//
// # Input Formats
//
// [ReadFile] chooses a reader from the file extension:
//
//	.gml        Graph Modelling Language (e.g. netscience.gml)
//	.json       node-link JSON: {"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}
//	.dot, .gv   Graphviz DOT, undirected "graph" only
//
// All readers produce an undirected simple graph: duplicate edges collapse,
// self-loops are dropped, and edge direction is ignored. Nodes keep the order
// in which they first appear in the input.
//
// # Layout Serialization
//
//	l := graph.NewLayout(g, positions, colors, cfg)
//	graph.WriteLayoutFile(l, "netscience.layout.json")
//	l, _ = graph.ReadLayoutFile("netscience.layout.json")
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
