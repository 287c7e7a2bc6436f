// Package query builds the boolean term syntax accepted by the text search
// endpoint's query parameter.
//
// Terms are rendered in the order they were added. An included term renders
// as +"term" and an excluded term as -"term":
//
//	expr := query.New().Include("dog").Include("bark").Exclude("cat")
//	expr.String() // +"dog" +"bark" -"cat"
//
// The rendered expression is meant to be used verbatim as a single URL
// parameter value; percent-encoding happens when the request URL is built.
package query

import (
	"strings"
)

// Op identifies how a term participates in the expression.
type Op int

const (
	OpInclude Op = iota
	OpExclude
)

func (o Op) prefix() byte {
	if o == OpExclude {
		return '-'
	}
	return '+'
}

// Clause is a single logged operation.
type Clause struct {
	Op   Op
	Term string
}

// Expression is an ordered log of include and exclude operations.
// A term may be both included and excluded; both clauses are rendered.
// The zero value is an empty expression ready to use.
type Expression struct {
	clauses []Clause
}

// New returns an empty Expression.
func New() *Expression {
	return &Expression{}
}

// Include appends term as a required clause.
func (e *Expression) Include(term string) *Expression {
	e.clauses = append(e.clauses, Clause{Op: OpInclude, Term: term})
	return e
}

// Exclude appends term as a prohibited clause.
func (e *Expression) Exclude(term string) *Expression {
	e.clauses = append(e.clauses, Clause{Op: OpExclude, Term: term})
	return e
}

// Clauses returns a copy of the logged operations in insertion order.
func (e *Expression) Clauses() []Clause {
	if e == nil {
		return nil
	}
	out := make([]Clause, len(e.clauses))
	copy(out, e.clauses)
	return out
}

// Len reports the number of logged operations.
func (e *Expression) Len() int {
	if e == nil {
		return 0
	}
	return len(e.clauses)
}

// String renders the expression. Embedded double quotes and backslashes in a
// term are escaped with a backslash so every clause stays a single quoted
// phrase.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	for i, c := range e.clauses {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(c.Op.prefix())
		sb.WriteByte('"')
		sb.WriteString(quoteEscaper.Replace(c.Term))
		sb.WriteByte('"')
	}

	return sb.String()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
