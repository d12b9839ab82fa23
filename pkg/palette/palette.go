// Package palette colors nodes by the size of their connected component.
//
// Distinct component sizes are ranked from smallest to largest and each rank
// gets the next color of a dark-to-light HCL scale, so isolated nodes are
// the darkest and the giant component the lightest. The scale has 19 stops;
// graphs with more distinct sizes get intermediate colors blended in HCL
// space between neighbouring stops.
package palette

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/forcelayout/pkg/force"
)

// Base is the 19-stop HCL color scale, darkest first.
var Base = []string{
	"#2F1410", "#3E1C1C", "#4C242B", "#572D3B", "#60394E",
	"#654662", "#665575", "#626587", "#587597", "#4B86A3",
	"#3A97AA", "#2AA7AD", "#28B7AB", "#3BC6A5", "#58D49B",
	"#7AE18F", "#9FEC82", "#C7F675", "#F1FE6C",
}

// Scale returns n colors ordered dark to light. For n up to len(Base) these
// are the first n base colors; beyond that the whole base scale is
// resampled with HCL interpolation.
func Scale(n int) []string {
	if n <= 0 {
		return nil
	}
	if n <= len(Base) {
		return append([]string(nil), Base[:n]...)
	}

	stops := make([]colorful.Color, len(Base))
	for i, hex := range Base {
		stops[i], _ = colorful.Hex(hex)
	}

	out := make([]string, n)
	last := len(stops) - 1
	for r := 0; r < n; r++ {
		t := float64(r*last) / float64(n-1)
		i := int(t)
		if i >= len(stops)-1 {
			out[r] = Base[len(Base)-1]
			continue
		}
		frac := t - float64(i)
		if frac == 0 {
			out[r] = Base[i]
			continue
		}
		out[r] = stops[i].BlendHcl(stops[i+1], frac).Clamped().Hex()
	}
	return out
}

// Components returns the connected components of the graph described by
// adj. Each component lists its nodes in ascending order; components are
// ordered by their smallest node.
func Components(adj [][]float64) [][]int {
	g := simple.NewUndirectedGraph()
	for i := range adj {
		g.AddNode(simple.Node(i))
	}
	for _, e := range force.Edges(adj) {
		g.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}

	var comps [][]int
	for _, c := range topo.ConnectedComponents(g) {
		ids := make([]int, len(c))
		for i, n := range c {
			ids[i] = int(n.ID())
		}
		sort.Ints(ids)
		comps = append(comps, ids)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}

// ComponentSizes returns, for every node, the size of its component.
func ComponentSizes(adj [][]float64) []int {
	return sizesOf(len(adj), Components(adj))
}

// DistinctSizes returns the distinct component sizes in ascending order.
func DistinctSizes(adj [][]float64) []int {
	return distinctOf(Components(adj))
}

// ComponentColors returns a hex color for every node. Nodes in components
// of equal size share a color.
func ComponentColors(adj [][]float64) []string {
	comps := Components(adj)
	distinct := distinctOf(comps)
	byRank := SizeScale(distinct)

	out := make([]string, len(adj))
	for _, c := range comps {
		for _, i := range c {
			out[i] = byRank[len(c)]
		}
	}
	return out
}

// SizeScale maps each of the given ascending distinct sizes to its color.
func SizeScale(distinct []int) map[int]string {
	scale := Scale(len(distinct))
	out := make(map[int]string, len(distinct))
	for r, s := range distinct {
		out[s] = scale[r]
	}
	return out
}

func sizesOf(n int, comps [][]int) []int {
	sizes := make([]int, n)
	for _, c := range comps {
		for _, i := range c {
			sizes[i] = len(c)
		}
	}
	return sizes
}

func distinctOf(comps [][]int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range comps {
		if !seen[len(c)] {
			seen[len(c)] = true
			out = append(out, len(c))
		}
	}
	sort.Ints(out)
	return out
}
