package model

import (
	"context"

	"github.com/samber/lo"
)

// Bounds on the treewidth found by Search. The lower bound never goes below 1, so graphs without edges report 1
type Bounds struct {
	Lower uint64
	Upper uint64
	Order []uint64 // Elimination order witnessing Upper
	Exact bool     // Lower == Upper; false when the search stopped on an indeterminate decision
}

// Search narrows the treewidth of the graph by binary search over the bound, deciding one bound per solver process.
// It stops at the first indeterminate decision and returns the bounds established so far
func Search(ctx context.Context, decider Decider, graph Graph) (Bounds, error) {
	bounds := Bounds{
		Lower: 1,
		Upper: max(graph.Vertices, 2) - 1,
		// Any order eliminates the graph with width at most n-1
		Order: lo.Times(int(graph.Vertices), func(i int) uint64 { return uint64(i) }),
	}

	for bounds.Lower < bounds.Upper {
		bound := (bounds.Lower + bounds.Upper) / 2

		outcome, err := decider.Decide(ctx, graph, bound)
		if err != nil {
			return bounds, err
		}

		switch outcome.Status {
		case Infeasible:
			bounds.Lower = bound + 1
		case Feasible:
			bounds.Upper = bound
			bounds.Order = outcome.Order
		default:
			return bounds, nil
		}
	}

	bounds.Exact = true
	return bounds, nil
}
