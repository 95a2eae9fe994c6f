package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/limaJavier/treewidth/pkg/smt"
	"github.com/samber/lo"
)

type encodingState struct {
	namer    namer
	vertices uint64
	bound    uint64
	edges    [][2]uint64
}

// Encode returns the SMT-LIB statements that are satisfiable if and only if the graph has an elimination order of
// width at most bound. The statements only declare and assert; neither check-sat nor eval are included
func Encode(graph Graph, bound uint64) []string {
	state := encodingState{
		namer:    newNamer(),
		vertices: graph.Vertices,
		bound:    bound,
		edges:    graph.Edges,
	}

	// Statement families, in the order they must be sent
	families := []func(state encodingState) []string{
		positionDeclarations,
		predecessorDeclarations,
		distinctnessConstraints,
		fillInConstraints,
		degreeConstraints,
		edgeConstraints,
	}

	return buildStatements(families, state)
}

// WriteConstraints writes the statements produced by Encode, one per line
func WriteConstraints(writer io.Writer, graph Graph, bound uint64) error {
	buffered := bufio.NewWriter(writer)
	for _, statement := range Encode(graph, bound) {
		if _, err := fmt.Fprintln(buffered, statement); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

func buildStatements(families []func(state encodingState) []string, state encodingState) []string {
	type generated struct {
		family     int
		statements []string
	}
	statementsChannel := make(chan generated) // Channel to collect statements

	// Execute family functions on different goroutines to improve performance
	for i, family := range families {
		go func(i int, family func(state encodingState) []string) {
			statementsChannel <- generated{family: i, statements: family(state)}
		}(i, family)
	}

	// Collect every family into its own slot so the final order does not depend on scheduling
	collected := make([][]string, len(families))
	for range families {
		result := <-statementsChannel
		collected[result.family] = result.statements
	}

	return lo.Flatten(collected)
}

func positionDeclarations(state encodingState) []string {
	return lo.Times(int(state.vertices), func(i int) string {
		return smt.DeclareConst(state.namer.Position(uint64(i)), smt.Int)
	})
}

func predecessorDeclarations(state encodingState) []string {
	statements := make([]string, 0)
	for i := range state.vertices {
		for j := range state.vertices {
			if i == j {
				continue
			}
			statements = append(statements, smt.DeclareConst(state.namer.Predecessor(i, j), smt.Bool))
		}
	}
	return statements
}

// Positions are pairwise distinct, hence they describe a linear order of the vertices
func distinctnessConstraints(state encodingState) []string {
	positions := lo.Times(int(state.vertices), func(i int) string {
		return state.namer.Position(uint64(i))
	})
	return []string{smt.Assert(smt.Distinct(positions...))}
}

// If j and l share the predecessor i, eliminating i connects them: there must be an edge between j and l oriented
// according to the linear order
func fillInConstraints(state encodingState) []string {
	statements := make([]string, 0)
	for i := range state.vertices {
		for j := range state.vertices {
			for l := j + 1; l < state.vertices; l++ {
				if i == j || i == l {
					continue
				}
				statements = append(statements, smt.Assert(smt.Implies(
					smt.And(state.namer.Predecessor(i, j), state.namer.Predecessor(i, l)),
					orientation(state.namer, j, l),
				)))
			}
		}
	}
	return statements
}

// A vertex has at most bound successors
func degreeConstraints(state encodingState) []string {
	return lo.Times(int(state.vertices), func(index int) string {
		i := uint64(index)
		sum := "0"
		for j := range state.vertices {
			if i == j {
				continue
			}
			sum = smt.Plus(sum, smt.Ite(state.namer.Predecessor(i, j), "1", "0"))
		}
		return smt.Assert(smt.LessEq(sum, strconv.FormatUint(state.bound, 10)))
	})
}

// Every original edge is oriented by the linear order
func edgeConstraints(state encodingState) []string {
	return lo.Map(state.edges, func(edge [2]uint64, _ int) string {
		return smt.Assert(orientation(state.namer, edge[0], edge[1]))
	})
}

// "i precedes j" if i comes before j in the linear order, else "j precedes i"
func orientation(names namer, i, j uint64) string {
	return smt.Ite(
		smt.Less(names.Position(i), names.Position(j)),
		names.Predecessor(i, j),
		names.Predecessor(j, i),
	)
}
