package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// InputFromFile reads an instance from a file, see InputFromReader
func InputFromFile(file string, limits EncodingLimits) (Graph, uint64, error) {
	reader, err := os.Open(file)
	if err != nil {
		return Graph{}, 0, fmt.Errorf("cannot open input file: %w", err)
	}
	defer reader.Close()

	return InputFromReader(reader, limits)
}

// InputFromReader reads an instance given as whitespace-separated numbers: the number of vertices, the number of edges
// and the treewidth bound, followed by the two endpoints of every edge. The usual layout is a header line and one line
// per edge, but any layout is accepted. Content after the announced edges is rejected
func InputFromReader(reader io.Reader, limits EncodingLimits) (Graph, uint64, error) {
	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	pending := make([]string, 0)
	nextToken := func() (string, bool, error) {
		for len(pending) == 0 {
			if !scanner.Scan() {
				return "", false, scanner.Err()
			}
			lineNumber++
			pending = strings.Fields(scanner.Text())
		}
		token := pending[0]
		pending = pending[1:]
		return token, true, nil
	}
	nextNumber := func() (uint64, bool, error) {
		token, ok, err := nextToken()
		if err != nil || !ok {
			return 0, ok, err
		}
		value, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%w: invalid number at input line %d: %q", ErrInvalidGraph, lineNumber, token)
		}
		return value, true, nil
	}

	//** Header
	header := make([]uint64, 0, 3)
	for range 3 {
		value, ok, err := nextNumber()
		if err != nil {
			return Graph{}, 0, err
		} else if !ok {
			return Graph{}, 0, fmt.Errorf("%w: the input must start with the number of vertices, the number of edges and the desired treewidth", ErrInvalidGraph)
		}
		header = append(header, value)
	}
	vertices, edges, bound := header[0], header[1], header[2]

	if vertices < 1 || vertices > limits.MaxVertices {
		return Graph{}, 0, fmt.Errorf("%w: the number of vertices must be an integer between 1 and %d: %d", ErrInvalidGraph, limits.MaxVertices, vertices)
	} else if edges > limits.MaxEdges {
		return Graph{}, 0, fmt.Errorf("%w: the number of edges must be an integer between 0 and %d: %d", ErrInvalidGraph, limits.MaxEdges, edges)
	} else if bound < 1 || bound >= vertices {
		return Graph{}, 0, fmt.Errorf("%w: the desired treewidth must be an integer between 1 and %d: %d", ErrInvalidBound, vertices-1, bound)
	}

	//** Edges
	graph := Graph{
		Vertices: vertices,
		Edges:    make([][2]uint64, 0, edges),
	}
	for range edges {
		from, ok, err := nextNumber()
		if err != nil {
			return Graph{}, 0, err
		} else if !ok {
			return Graph{}, 0, fmt.Errorf("%w: expected %d edges, got %d", ErrInvalidGraph, edges, len(graph.Edges))
		}
		to, ok, err := nextNumber()
		if err != nil {
			return Graph{}, 0, err
		} else if !ok {
			return Graph{}, 0, fmt.Errorf("%w: incomplete edge at input line %d", ErrInvalidGraph, lineNumber)
		}

		edge := [2]uint64{from, to}
		if err := validateEdge(graph, edge); err != nil {
			return Graph{}, 0, fmt.Errorf("input line %d: %w", lineNumber, err)
		}
		graph.Edges = append(graph.Edges, edge)
	}

	if token, ok, err := nextToken(); err != nil {
		return Graph{}, 0, err
	} else if ok {
		return Graph{}, 0, fmt.Errorf("%w: unexpected content at input line %d: %q", ErrInvalidGraph, lineNumber, token)
	}

	return graph, bound, nil
}
