package ast

import "strings"

// Target is a target statement. Clauses are combined conjunctively; each
// clause becomes a XACML AnyOf element.
type Target struct {
	Clauses []DisjunctiveSeq
	// NS is the namespace the target was written in.
	NS  []string
	Loc Location
}

// DisjunctiveSeq is one target clause: a disjunction of conjunctive
// sequences (a XACML AnyOf).
type DisjunctiveSeq struct {
	Statements []ConjunctiveSeq
}

// ConjunctiveSeq is a conjunction of matches (a XACML AllOf).
type ConjunctiveSeq struct {
	Matches []Match
}

// Match is a single target match: either an explicit match function
// application or an infix operation between a literal and an attribute.
// Exactly one of Func and Op is set.
type Match struct {
	Func *MatchFunction
	Op   *MatchOperation
}

// MatchFunction applies a named match function to a literal and an
// attribute: `fn(literal, attribute)`.
type MatchFunction struct {
	// FunctionID is the possibly-qualified function name.
	FunctionID []string
	Literal    Constant
	// Attribute is the possibly-qualified attribute name.
	Attribute []string
	// Issuer restricts matches to a specific issuer, "" for any.
	Issuer string
	// MustBePresent requires the attribute to exist at evaluation time.
	MustBePresent bool
	Loc           Location
}

// MatchOperation matches an attribute against a literal with an infix
// operator. Reversed is true when the source was written attribute-first
// (`attr OP literal`), the reverse of XACML's literal-first argument order.
type MatchOperation struct {
	Attribute     []string
	Operator      Operator
	Literal       Constant
	Reversed      bool
	Issuer        string
	MustBePresent bool
	Loc           Location
}

// AttributeName returns the dotted attribute reference of the operation.
func (m *MatchOperation) AttributeName() string {
	return strings.Join(m.Attribute, ".")
}

// FunctionName returns the dotted function reference of the match.
func (m *MatchFunction) FunctionName() string {
	return strings.Join(m.FunctionID, ".")
}
