package model

import (
	"fmt"

	"github.com/samber/lo"
)

// EliminationWidth eliminates the vertices in the given order, connecting the remaining neighbours of every eliminated
// vertex, and returns the largest number of remaining neighbours seen
func EliminationWidth(graph Graph, order []uint64) (uint64, error) {
	if err := validateOrder(graph, order); err != nil {
		return 0, err
	}

	adjacency := graph.adjacency()
	rank := make([]int, graph.Vertices)
	for i, vertex := range order {
		rank[vertex] = i
	}

	var width uint64
	for _, vertex := range order {
		later := lo.Filter(order[rank[vertex]+1:], func(neighbour uint64, _ int) bool {
			return adjacency[vertex][neighbour]
		})
		width = max(width, uint64(len(later)))

		// Fill-in
		for i, a := range later {
			for _, b := range later[i+1:] {
				adjacency[a][b] = true
				adjacency[b][a] = true
			}
		}
	}
	return width, nil
}

// Verify checks that order is an elimination order of the graph of width at most bound
func Verify(graph Graph, bound uint64, order []uint64) bool {
	width, err := EliminationWidth(graph, order)
	return err == nil && width <= bound
}

func validateOrder(graph Graph, order []uint64) error {
	if uint64(len(order)) != graph.Vertices {
		return fmt.Errorf("%w: expected %d vertices, got %d", ErrInvalidOrder, graph.Vertices, len(order))
	}
	seen := make([]bool, graph.Vertices)
	for _, vertex := range order {
		if vertex >= graph.Vertices || seen[vertex] {
			return fmt.Errorf("%w: not a permutation of the vertices: %v", ErrInvalidOrder, order)
		}
		seen[vertex] = true
	}
	for _, edge := range graph.Edges {
		if err := validateEdge(graph, edge); err != nil {
			return err
		}
	}
	return nil
}
