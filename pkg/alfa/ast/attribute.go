package ast

import "strings"

// Attribute declares a named attribute with its XACML id, data type, and
// category. Type and Category are ALFA names that resolve in the
// attribute's own namespace.
type Attribute struct {
	// ID is the short name.
	ID string
	// Type is the ALFA type name of the attribute's values.
	Type string
	// Category is the ALFA category name.
	Category string
	// URI is the XACML AttributeId.
	URI string
	// NS is the namespace path from general to most specific.
	NS []string
	// Loc is where the declaration appeared.
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (a *Attribute) FullyQualifiedName() string {
	return joinQualified(a.NS, a.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (a *Attribute) AsAlfa(indentLevel int) string {
	indent := strings.Repeat("  ", indentLevel)
	nested := strings.Repeat("  ", indentLevel+1)
	var sb strings.Builder
	sb.WriteString(indent + "attribute " + a.ID + " {\n")
	sb.WriteString(nested + "id = \"" + a.URI + "\"\n")
	sb.WriteString(nested + "type = " + a.Type + "\n")
	sb.WriteString(nested + "category = " + a.Category + "\n")
	sb.WriteString(indent + "}\n")
	return sb.String()
}
