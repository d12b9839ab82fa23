package force

import "gonum.org/v1/gonum/spatial/r2"

// Point is a 2D coordinate in the computed layout.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to a gonum vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// PointOf converts a gonum vector to a Point.
func PointOf(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Node is the mutable simulation state of a single graph node.
//
// ID matches the adjacency-matrix index the node was built from and never
// changes. Disp is a transient accumulator that is reset at the start of
// every iteration.
type Node struct {
	ID   int
	Pos  r2.Vec
	Disp r2.Vec
}

// Equal reports whether n and o denote the same graph node.
// Position and displacement do not take part in node identity.
func (n Node) Equal(o Node) bool { return n.ID == o.ID }

// Positions flattens node positions into a slice indexed by node ID.
func Positions(nodes []Node) []Point {
	out := make([]Point, len(nodes))
	for _, n := range nodes {
		out[n.ID] = PointOf(n.Pos)
	}
	return out
}
