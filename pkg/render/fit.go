package render

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// Default canvas settings.
const (
	DefaultWidth    = 1200
	DefaultHeight   = 1200
	DefaultMargin   = 20
	DefaultBaseSize = 4.0
)

// NodeSize returns the diameter of a node with the given degree.
func NodeSize(baseSize float64, degree int) float64 {
	return baseSize * math.Log(3+float64(degree))
}

// NodeSizes returns the diameter of every node of g.
func NodeSizes(g *graph.Graph, baseSize float64) []float64 {
	sizes := make([]float64, g.NodeCount())
	for i := range sizes {
		sizes[i] = NodeSize(baseSize, g.Degree(i))
	}
	return sizes
}

// Fit scales and translates pos into a width × height canvas leaving margin
// on every side. The aspect ratio is preserved and the drawing is centered.
// A layout with no extent (one node, or all nodes coincident) lands in the
// middle of the canvas.
func Fit(pos []force.Point, width, height, margin float64) []force.Point {
	out := make([]force.Point, len(pos))
	if len(pos) == 0 {
		return out
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	innerW := math.Max(width-2*margin, 0)
	innerH := math.Max(height-2*margin, 0)
	spanX, spanY := maxX-minX, maxY-minY

	scale := 0.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerW/spanX, innerH/spanY)
	case spanX > 0:
		scale = innerW / spanX
	case spanY > 0:
		scale = innerH / spanY
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	for i, p := range pos {
		out[i] = force.Point{
			X: width/2 + (p.X-cx)*scale,
			Y: height/2 + (p.Y-cy)*scale,
		}
	}
	return out
}
