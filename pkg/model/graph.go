package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGraph = errors.New("invalid graph")
	ErrInvalidBound = errors.New("invalid treewidth bound")
	ErrInvalidOrder = errors.New("invalid elimination order")
)

// Graph is an undirected graph over the vertices 0..Vertices-1. Duplicate edges are kept as they are
type Graph struct {
	Vertices uint64
	Edges    [][2]uint64
}

// EncodingLimits bounds the instances accepted for encoding; the encoding grows cubically with the number of vertices
type EncodingLimits struct {
	MaxVertices uint64
	MaxEdges    uint64
}

const DefaultMaxVertices = 50

func DefaultLimits() EncodingLimits {
	return EncodingLimits{
		MaxVertices: DefaultMaxVertices,
		MaxEdges:    DefaultMaxVertices * (DefaultMaxVertices - 1) / 2,
	}
}

// Validate checks that the graph and the bound are within the limits and that the bound is meaningful for the graph
func (limits EncodingLimits) Validate(graph Graph, bound uint64) error {
	if graph.Vertices < 1 || graph.Vertices > limits.MaxVertices {
		return fmt.Errorf("%w: number of vertices must be between 1 and %d: %d", ErrInvalidGraph, limits.MaxVertices, graph.Vertices)
	} else if uint64(len(graph.Edges)) > limits.MaxEdges {
		return fmt.Errorf("%w: number of edges must be between 0 and %d: %d", ErrInvalidGraph, limits.MaxEdges, len(graph.Edges))
	}

	for i, edge := range graph.Edges {
		if err := validateEdge(graph, edge); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
	}

	if bound < 1 || bound >= graph.Vertices {
		return fmt.Errorf("%w: bound must be between 1 and %d: %d", ErrInvalidBound, graph.Vertices-1, bound)
	}
	return nil
}

func validateEdge(graph Graph, edge [2]uint64) error {
	if edge[0] >= graph.Vertices || edge[1] >= graph.Vertices {
		return fmt.Errorf("%w: vertex ids must be smaller than %d: %v", ErrInvalidGraph, graph.Vertices, edge)
	} else if edge[0] == edge[1] {
		return fmt.Errorf("%w: self-loops are not allowed: %v", ErrInvalidGraph, edge)
	}
	return nil
}

// Adjacency matrix of the graph (symmetric, false on the diagonal)
func (graph Graph) adjacency() [][]bool {
	adjacency := make([][]bool, graph.Vertices)
	for i := range adjacency {
		adjacency[i] = make([]bool, graph.Vertices)
	}
	for _, edge := range graph.Edges {
		adjacency[edge[0]][edge[1]] = true
		adjacency[edge[1]][edge[0]] = true
	}
	return adjacency
}
