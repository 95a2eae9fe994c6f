package smt

import (
	"fmt"
	"strings"
)

type Sort string

const (
	Int  Sort = "Int"
	Bool Sort = "Bool"
)

type Response int

const (
	Unknown Response = iota // Anything the solver answers besides "sat" or "unsat" (timeouts included)
	Satisfiable
	Unsatisfiable
)

func (response Response) String() string {
	switch response {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	default:
		return "unknown"
	}
}

// ParseResponse classifies the single line a solver answers to a check-sat command
func ParseResponse(line string) Response {
	switch strings.TrimSpace(line) {
	case "sat":
		return Satisfiable
	case "unsat":
		return Unsatisfiable
	default:
		return Unknown
	}
}

//** Statements

func DeclareConst(name string, sort Sort) string {
	return fmt.Sprintf("(declare-const %v %v)", name, sort)
}

func Assert(expression string) string {
	return "(assert " + expression + ")"
}

func CheckSat() string {
	return "(check-sat)"
}

func Eval(expression string) string {
	return "(eval " + expression + ")"
}

//** Expressions

func And(operands ...string) string {
	return apply("and", operands...)
}

func Implies(premise, conclusion string) string {
	return apply("=>", premise, conclusion)
}

func Ite(condition, then, otherwise string) string {
	return apply("ite", condition, then, otherwise)
}

func Less(left, right string) string {
	return apply("<", left, right)
}

func LessEq(left, right string) string {
	return apply("<=", left, right)
}

func Plus(left, right string) string {
	return apply("+", left, right)
}

func Distinct(operands ...string) string {
	return apply("distinct", operands...)
}

func apply(operator string, operands ...string) string {
	var builder strings.Builder
	builder.WriteString("(")
	builder.WriteString(operator)
	for _, operand := range operands {
		builder.WriteString(" ")
		builder.WriteString(operand)
	}
	builder.WriteString(")")
	return builder.String()
}
