// Package force computes 2D force-directed layouts of undirected graphs.
//
// The engine follows Fruchterman-Reingold with two additions popularised by
// Gephi: a gravity force pulling every node toward the origin, and a hard
// per-iteration displacement ceiling. Nodes repel each other like charged
// particles, edges pull their endpoints together like springs, and the
// simulation runs for a fixed number of iterations. There is no convergence
// test and no early exit.
//
// # Input
//
// A layout is computed from an n×n adjacency matrix. Any non-zero entry
// (i, j) with i < j is an edge; the diagonal is ignored. The matrix must be
// square, non-empty and symmetric. Initial positions are optional: when none
// are supplied, each node is placed uniformly at random in [0,1)² using the
// engine's own *rand.Rand, so runs are reproducible for a given seed.
//
// # Derived constants
//
// For n nodes and a configured area:
//
//	K               = sqrt(AreaMultiplier * area / n)   // ideal edge length
//	MaxDisplacement = sqrt(AreaMultiplier * area) / 10  // per-iteration ceiling
//
// Attraction and repulsion balance exactly at distance K.
//
// # Iteration
//
// Every iteration runs five phases in a fixed order:
//
//  1. Reset: zero every node's displacement.
//  2. Repulsion: every ordered pair of distinct nodes pushes apart with K²/d.
//  3. Attraction: every edge pulls its endpoints together with d²/K.
//  4. Gravity: every node is pulled toward the origin with 0.01·K·gravity·d.
//  5. Integrate: displacement is scaled by speed and the resulting move is
//     capped at MaxDisplacement·speed.
//
// Pairs at zero distance have no force direction and are skipped in phases
// 2 to 4; they never produce NaN and never abort a run.
//
// # Concurrency
//
// The repulsion phase is O(n²) and can be split across goroutines with
// [WithWorkers]. Each worker owns a disjoint range of node rows and the phase
// finishes before attraction starts. Results are bit-for-bit identical to
// the sequential path.
//
// # Usage
//
//	eng, err := force.New(force.DefaultConfig(), force.WithSeed(7))
//	if err != nil {
//	    return err
//	}
//	positions, err := eng.Layout(ctx, adjacency, nil)
package force
