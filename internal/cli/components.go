package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/palette"
)

// componentsCommand creates the components command, which lists the
// connected components of a graph and the color each size maps to.
func (c *CLI) componentsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "components [graph]",
		Short: "List connected component sizes and their colors",
		Long: `List the connected components of a graph grouped by size.

Distinct sizes are ranked from smallest to largest and mapped onto the color
scale in that order, so every node of a component of the same size gets the
same color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runComponents(cmd.Context(), cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")

	return cmd
}

func (c *CLI) runComponents(ctx context.Context, w io.Writer, input string, asJSON bool) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	rows := componentRows(g.Adjacency)
	logger.Debug("components", "distinct_sizes", len(rows))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintln(w, renderComponentTable(rows))
	printStats(g.NodeCount(), g.EdgeCount(), len(palette.Components(g.Adjacency)), false)
	return nil
}

// componentRows groups components by size, smallest first.
func componentRows(adj [][]float64) []componentRow {
	comps := palette.Components(adj)
	counts := make(map[int]int)
	for _, comp := range comps {
		counts[len(comp)]++
	}

	distinct := palette.DistinctSizes(adj)
	scale := palette.SizeScale(distinct)
	rows := make([]componentRow, len(distinct))
	for i, size := range distinct {
		rows[i] = componentRow{Size: size, Count: counts[size], Color: scale[size]}
	}
	return rows
}
