package force

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// Edge is an undirected edge between two distinct nodes, stored with U < V.
type Edge struct {
	U, V int
}

// Edges extracts the edge list from an adjacency matrix in a single scan.
// Only the upper triangle is read, so a symmetric relation is counted once
// and diagonal entries never become self-loops. Rows shorter than the matrix
// are tolerated; use ValidateAdjacency to reject malformed input first.
func Edges(adj [][]float64) []Edge {
	var edges []Edge
	for i, row := range adj {
		for j := i + 1; j < len(row); j++ {
			if row[j] != 0 {
				edges = append(edges, Edge{U: i, V: j})
			}
		}
	}
	return edges
}

// ValidateAdjacency checks that adj describes an undirected graph with at
// least one node: square, finite entries, and symmetric edge presence.
// Failures carry errors.ErrCodeInvalidInput.
func ValidateAdjacency(adj [][]float64) error {
	n := len(adj)
	if n == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "adjacency matrix is empty")
	}
	for i, row := range adj {
		if len(row) != n {
			return errors.New(errors.ErrCodeInvalidInput,
				"adjacency matrix is not square: row %d has %d columns, want %d", i, len(row), n)
		}
	}
	for i, row := range adj {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidInput,
					"adjacency entry (%d,%d) is not finite: %v", i, j, v)
			}
			if j > i && (v != 0) != (adj[j][i] != 0) {
				return errors.New(errors.ErrCodeInvalidInput,
					"adjacency matrix is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// validatePositions checks an optional initial placement against node count n.
func validatePositions(pos []Point, n int) error {
	if pos == nil {
		return nil
	}
	if len(pos) != n {
		return errors.New(errors.ErrCodeInvalidInput,
			"initial positions: got %d, want %d (one per node)", len(pos), n)
	}
	for i, p := range pos {
		if err := errors.ValidateFinite("initial position x", p.X); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if err := errors.ValidateFinite("initial position y", p.Y); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
	}
	return nil
}
