package ast

import "strings"

// RuleCombinator maps a short name to a XACML rule-combining algorithm URI.
type RuleCombinator struct {
	ID  string
	URI string
	NS  []string
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (r *RuleCombinator) FullyQualifiedName() string {
	return joinQualified(r.NS, r.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (r *RuleCombinator) AsAlfa(indentLevel int) string {
	return strings.Repeat("  ", indentLevel) + "ruleCombinator " + r.ID + " = \"" + r.URI + "\"\n"
}

// PolicyCombinator maps a short name to a XACML policy-combining
// algorithm URI.
type PolicyCombinator struct {
	ID  string
	URI string
	NS  []string
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (p *PolicyCombinator) FullyQualifiedName() string {
	return joinQualified(p.NS, p.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (p *PolicyCombinator) AsAlfa(indentLevel int) string {
	return strings.Repeat("  ", indentLevel) + "policyCombinator " + p.ID + " = \"" + p.URI + "\"\n"
}
