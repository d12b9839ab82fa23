package force

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minRowsPerWorker keeps tiny graphs on the sequential path.
const minRowsPerWorker = 64

// repulse runs the repulsion phase. With more than one worker the node rows
// are split into contiguous chunks; each goroutine writes only the
// displacement of the rows it owns and reads positions, which are not
// modified during the phase. Wait is the phase barrier.
func (e *Engine) repulse(ctx context.Context, nodes []Node, m Model) error {
	workers := min(e.workers, len(nodes)/minRowsPerWorker)
	if workers < 2 {
		for i := range nodes {
			repulseRow(nodes, i, m)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(nodes) + workers - 1) / workers
	for lo := 0; lo < len(nodes); lo += chunk {
		hi := min(lo+chunk, len(nodes))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				repulseRow(nodes, i, m)
			}
			return gctx.Err()
		})
	}
	return g.Wait()
}
