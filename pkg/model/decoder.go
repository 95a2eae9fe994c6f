package model

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/limaJavier/treewidth/pkg/smt"
	"github.com/samber/lo"
)

// DecodeError reports a solver answer to an eval query that does not contain an integer
type DecodeError struct {
	Line string
	Err  error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode integer from solver answer %q: %v", err.Line, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// ParseInteger extracts a signed integer from a solver answer by keeping only '-' and decimal digits, so both "7" and
// "(- 7)" are understood. The remaining text must be an optional '-' followed by digits. Compound values are not
// evaluated: "(+ 1 2)" yields 12
func ParseInteger(line string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, line)

	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, &DecodeError{Line: line, Err: err}
	}
	return value, nil
}

// DecodeOrder asks the solver for the position of every vertex and returns the vertices sorted by position. Equal
// positions (which distinctness rules out) keep increasing vertex order
func DecodeOrder(session smt.Session, vertices uint64) ([]uint64, error) {
	return decodeOrder(session, vertices, newNamer())
}

func decodeOrder(session smt.Session, vertices uint64, names namer) ([]uint64, error) {
	positions := make([]int64, vertices)
	for vertex := range vertices {
		if err := session.Send(smt.Eval(names.Position(vertex))); err != nil {
			return nil, err
		}
		line, err := session.ReceiveLine()
		if err != nil {
			return nil, err
		}
		if positions[vertex], err = ParseInteger(line); err != nil {
			return nil, err
		}
	}

	order := lo.Times(int(vertices), func(i int) uint64 { return uint64(i) })
	slices.SortStableFunc(order, func(a, b uint64) int {
		return cmp.Compare(positions[a], positions[b])
	})
	return order, nil
}
