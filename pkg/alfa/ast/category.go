package ast

import "strings"

// Category maps a short ALFA category name to a XACML attribute category
// URI.
type Category struct {
	ID  string
	URI string
	NS  []string
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (c *Category) FullyQualifiedName() string {
	return joinQualified(c.NS, c.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (c *Category) AsAlfa(indentLevel int) string {
	return strings.Repeat("  ", indentLevel) + "category " + c.ID + " = \"" + c.URI + "\"\n"
}
