package ast

import "strings"

// InfixSignature is one overload of an infix operator: a function URI
// plus the ALFA type names of both arguments and the result. Type names
// resolve in the operator's own namespace.
type InfixSignature struct {
	URI       string
	FirstArg  string
	SecondArg string
	Output    string
}

// Infix declares an infix operator and its overload set. Commutative
// operators must not declare an inverse.
type Infix struct {
	// Operator is the operator symbol, e.g. "==" or "<=".
	Operator string
	// AllowBags permits bag-typed arguments (lifted through any-of-any).
	AllowBags bool
	// Commutative operators may have their arguments reversed freely.
	Commutative bool
	// Signatures in declaration order; the first compatible one wins.
	Signatures []InfixSignature
	// NS is the namespace path from general to most specific.
	NS []string
	// Inverse is the operator symbol to use with reversed arguments,
	// "" if none is declared.
	Inverse string

	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified operator name.
func (i *Infix) FullyQualifiedName() string {
	return strings.Join(i.NS, ".") + "." + i.Operator
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (i *Infix) AsAlfa(indentLevel int) string {
	indent := strings.Repeat("  ", indentLevel)
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("infix ")
	if i.AllowBags {
		sb.WriteString("allowbags ")
	}
	if i.Commutative {
		sb.WriteString("comm ")
	}
	sb.WriteString("(")
	sb.WriteString(i.Operator)
	sb.WriteString(") = {\n")
	for _, s := range i.Signatures {
		sb.WriteString(s.AsAlfa(indentLevel + 1))
	}
	if i.Inverse != "" {
		sb.WriteString(indent + "} inv " + i.Inverse + "\n")
	} else {
		sb.WriteString(indent + "}\n")
	}
	return sb.String()
}

// AsAlfa renders the signature as ALFA source at the given indent level.
func (s InfixSignature) AsAlfa(indentLevel int) string {
	indent := strings.Repeat("  ", indentLevel)
	return indent + "\"" + s.URI + "\" : " + s.FirstArg + " " + s.SecondArg + " -> " + s.Output + "\n"
}
