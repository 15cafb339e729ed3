package ast

import "strings"

// XACML data-type URIs for the literal types the language knows natively.
const (
	StringURI  = "http://www.w3.org/2001/XMLSchema#string"
	BooleanURI = "http://www.w3.org/2001/XMLSchema#boolean"
	IntegerURI = "http://www.w3.org/2001/XMLSchema#integer"
	DoubleURI  = "http://www.w3.org/2001/XMLSchema#double"
)

// TypeDef maps a short ALFA type name to a XACML data-type URI.
type TypeDef struct {
	// ID is the short name, e.g. "string".
	ID string
	// URI is the XACML data-type URI.
	URI string
	// NS is the namespace path from general to most specific.
	NS []string
	// Loc is where the declaration appeared.
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (t *TypeDef) FullyQualifiedName() string {
	return joinQualified(t.NS, t.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (t *TypeDef) AsAlfa(indentLevel int) string {
	return strings.Repeat("  ", indentLevel) + "type " + t.ID + " = \"" + t.URI + "\"\n"
}

func joinQualified(ns []string, id string) string {
	if len(ns) == 0 {
		return id
	}
	return strings.Join(ns, ".") + "." + id
}
