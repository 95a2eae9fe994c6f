package model

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/limaJavier/treewidth/pkg/smt"
	"github.com/samber/lo"
)

//** Graph families

func pathGraph(vertices uint64) Graph {
	return Graph{
		Vertices: vertices,
		Edges: lo.Times(int(vertices)-1, func(i int) [2]uint64 {
			return [2]uint64{uint64(i), uint64(i + 1)}
		}),
	}
}

func cycleGraph(vertices uint64) Graph {
	graph := pathGraph(vertices)
	graph.Edges = append(graph.Edges, [2]uint64{vertices - 1, 0})
	return graph
}

func completeGraph(vertices uint64) Graph {
	graph := Graph{Vertices: vertices, Edges: make([][2]uint64, 0)}
	for i := range vertices {
		for j := i + 1; j < vertices; j++ {
			graph.Edges = append(graph.Edges, [2]uint64{i, j})
		}
	}
	return graph
}

func randomGraph(vertices uint64, probability float64, rng *rand.Rand) Graph {
	graph := Graph{Vertices: vertices, Edges: make([][2]uint64, 0)}
	for i := range vertices {
		for j := i + 1; j < vertices; j++ {
			if rng.Float64() < probability {
				graph.Edges = append(graph.Edges, [2]uint64{j, i})
			}
		}
	}
	return graph
}

func isPermutation(order []uint64, vertices uint64) bool {
	return uint64(len(order)) == vertices && uint64(len(lo.Uniq(order))) == vertices &&
		lo.EveryBy(order, func(vertex uint64) bool { return vertex < vertices })
}

// Treewidth by trying every elimination order (only usable on tiny graphs)
func bruteForceTreewidth(graph Graph) (uint64, []uint64) {
	best, bestOrder := graph.Vertices, []uint64(nil)
	permutations(graph.Vertices, func(order []uint64) bool {
		width, _ := EliminationWidth(graph, order)
		if width < best || bestOrder == nil {
			best, bestOrder = width, slices.Clone(order)
		}
		return true
	})
	return best, bestOrder
}

// Visits the permutations of 0..n-1 in lexicographic order until visit returns false
func permutations(n uint64, visit func(order []uint64) bool) {
	order := lo.Times(int(n), func(i int) uint64 { return uint64(i) })
	for {
		if !visit(order) {
			return
		}
		// Next lexicographic permutation
		i := len(order) - 2
		for i >= 0 && order[i] >= order[i+1] {
			i--
		}
		if i < 0 {
			return
		}
		j := len(order) - 1
		for order[j] <= order[i] {
			j--
		}
		order[i], order[j] = order[j], order[i]
		for l, r := i+1, len(order)-1; l < r; l, r = l+1, r-1 {
			order[l], order[r] = order[r], order[l]
		}
	}
}

//** Variable names

type variableKind int

const (
	positionVariable variableKind = iota
	predecessorVariable
)

// Inverse of the namer: the variable's kind and vertices (to is zero for position variables)
func variableAttributes(name string) (kind variableKind, from, to uint64, ok bool) {
	if suffix, found := strings.CutPrefix(name, positionPrefix); found {
		vertex, err := strconv.ParseUint(suffix, 10, 64)
		return positionVariable, vertex, 0, err == nil
	}

	suffix, found := strings.CutPrefix(name, predecessorPrefix)
	if !found {
		return 0, 0, 0, false
	}
	fromStr, toStr, found := strings.Cut(suffix, "-")
	if !found {
		return 0, 0, 0, false
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	to, err = strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	return predecessorVariable, from, to, true
}

//** Solver stub

// stubSession plays the solver side of the protocol in memory. It recovers the graph and the bound from the statements
// it receives and answers check-sat by trying every elimination order, so it is only usable on tiny graphs
type stubSession struct {
	vertices   uint64
	edges      [][2]uint64
	bound      uint64
	statements []string
	pending    []string
	positions  map[uint64]int64

	checkSatAnswer string // Replaces the computed check-sat answer when not empty
	evalAnswer     string // Replaces every eval answer when not empty
	failAfter      int    // Closes the stream after this many received statements when positive
	closeCalls     int
}

func newStubSession() *stubSession {
	return &stubSession{positions: make(map[uint64]int64)}
}

func (session *stubSession) starter() smt.Starter {
	return func(ctx context.Context, config smt.Config) (smt.Session, error) {
		return session, nil
	}
}

// Starter handing out a fresh stub per spawned process
func stubStarter(spawned *int) smt.Starter {
	return func(ctx context.Context, config smt.Config) (smt.Session, error) {
		*spawned++
		return newStubSession(), nil
	}
}

func (session *stubSession) Send(statement string) error {
	if session.closeCalls > 0 {
		return &smt.ProtocolError{Op: "send", Err: smt.ErrSessionClosed}
	}
	session.statements = append(session.statements, statement)
	if session.failAfter > 0 && len(session.statements) > session.failAfter {
		return &smt.ProtocolError{Op: "send", Err: io.ErrClosedPipe}
	}

	var i, j uint64
	switch {
	case strings.HasPrefix(statement, "(declare-const "+positionPrefix):
		session.vertices++
	case strings.HasPrefix(statement, "(assert (<= "):
		fields := strings.Fields(strings.TrimSuffix(statement, "))"))
		session.bound = lo.Must(strconv.ParseUint(fields[len(fields)-1], 10, 64))
	case strings.HasPrefix(statement, "(assert (ite "):
		lo.Must(fmt.Sscanf(statement, "(assert (ite (< pos-%d pos-%d)", &i, &j))
		session.edges = append(session.edges, [2]uint64{i, j})
	case statement == smt.CheckSat():
		session.pending = append(session.pending, session.checkSat())
	case strings.HasPrefix(statement, "(eval "):
		session.pending = append(session.pending, session.eval(strings.TrimSuffix(strings.TrimPrefix(statement, "(eval "), ")")))
	}
	return nil
}

func (session *stubSession) ReceiveLine() (string, error) {
	if len(session.pending) == 0 {
		return "", &smt.ProtocolError{Op: "receive", Err: io.ErrUnexpectedEOF}
	}
	line := session.pending[0]
	session.pending = session.pending[1:]
	return line, nil
}

func (session *stubSession) Close() error {
	session.closeCalls++
	return nil
}

func (session *stubSession) checkSat() string {
	if session.checkSatAnswer != "" {
		return session.checkSatAnswer
	}

	graph := Graph{Vertices: session.vertices, Edges: session.edges}
	var found []uint64
	permutations(graph.Vertices, func(order []uint64) bool {
		if Verify(graph, session.bound, order) {
			found = slices.Clone(order)
			return false
		}
		return true
	})
	if found == nil {
		return "unsat"
	}

	// Spread positions around zero so negative answers are exercised too
	for i, vertex := range found {
		session.positions[vertex] = int64(3*i) - 5
	}
	return "sat"
}

func (session *stubSession) eval(expression string) string {
	if session.evalAnswer != "" {
		return session.evalAnswer
	}

	kind, vertex, _, ok := variableAttributes(expression)
	if !ok || kind != positionVariable {
		return `(error "unknown constant")`
	}
	position := session.positions[vertex]
	if position < 0 {
		return fmt.Sprintf("(- %d)", -position)
	}
	return strconv.FormatInt(position, 10)
}
