package model

import (
	"context"
	"errors"
	"log"

	"github.com/limaJavier/treewidth/pkg/smt"
)

// Logger receives one line per decision and the failures of solver sessions
var Logger = log.Default()

type Status int

const (
	Indeterminate Status = iota // The solver timed out or answered something that is neither "sat" nor "unsat"
	Infeasible                  // Treewidth is larger than the bound
	Feasible                    // Treewidth is at most the bound
)

func (status Status) String() string {
	switch status {
	case Infeasible:
		return "infeasible"
	case Feasible:
		return "feasible"
	default:
		return "indeterminate"
	}
}

// Outcome of a decision. Order is only set when Status is Feasible and it is a permutation of the vertices listed by
// increasing position in the elimination order
type Outcome struct {
	Status Status
	Order  []uint64
}

type Decider interface {
	// Decides whether the treewidth of the graph is at most bound. Solver timeouts and protocol failures yield an
	// Indeterminate outcome with a nil error; errors are reserved for invalid input, spawn failures and undecodable
	// models
	Decide(ctx context.Context, graph Graph, bound uint64) (Outcome, error)

	Verify(graph Graph, bound uint64, order []uint64) bool
}

type smtDecider struct {
	config smt.Config
	limits EncodingLimits
	start  smt.Starter
}

func NewSMTDecider(config smt.Config, limits EncodingLimits) Decider {
	return newSMTDecider(config, limits, smt.Start)
}

func newSMTDecider(config smt.Config, limits EncodingLimits, start smt.Starter) *smtDecider {
	return &smtDecider{
		config: config,
		limits: limits,
		start:  start,
	}
}

func (decider *smtDecider) Decide(ctx context.Context, graph Graph, bound uint64) (Outcome, error) {
	if err := decider.limits.Validate(graph, bound); err != nil {
		return Outcome{}, err
	}

	//** Spawn solver
	session, err := decider.start(ctx, decider.config)
	if err != nil {
		return Outcome{}, err
	}
	// The process is reaped on every path
	defer func() {
		if err := session.Close(); err != nil {
			Logger.Printf("cannot close solver session: %v", err)
		}
	}()

	//** Query solver
	outcome, err := decider.query(session, graph, bound)

	var protocolErr *smt.ProtocolError
	if errors.As(err, &protocolErr) {
		// A closed stream cannot be told apart from a timeout
		Logger.Printf("solver stopped answering (vertices: %d, bound: %d): %v", graph.Vertices, bound, err)
		return Outcome{Status: Indeterminate}, nil
	} else if err != nil {
		return Outcome{}, err
	}

	Logger.Printf("treewidth decision (vertices: %d, edges: %d, bound: %d): %v", graph.Vertices, len(graph.Edges), bound, outcome.Status)
	return outcome, nil
}

func (decider *smtDecider) query(session smt.Session, graph Graph, bound uint64) (Outcome, error) {
	for _, statement := range Encode(graph, bound) {
		if err := session.Send(statement); err != nil {
			return Outcome{}, err
		}
	}

	if err := session.Send(smt.CheckSat()); err != nil {
		return Outcome{}, err
	}
	line, err := session.ReceiveLine()
	if err != nil {
		return Outcome{}, err
	}

	switch smt.ParseResponse(line) {
	case smt.Unsatisfiable:
		return Outcome{Status: Infeasible}, nil
	case smt.Satisfiable:
		order, err := DecodeOrder(session, graph.Vertices)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: Feasible, Order: order}, nil
	default:
		Logger.Printf("unrecognized solver answer %q", line)
		return Outcome{Status: Indeterminate}, nil
	}
}

func (decider *smtDecider) Verify(graph Graph, bound uint64, order []uint64) bool {
	return Verify(graph, bound, order)
}
