package ast

import (
	"strconv"
	"strings"
)

// ConstantKind distinguishes the literal forms ALFA supports.
type ConstantKind int

const (
	ConstantString ConstantKind = iota
	ConstantInteger
	ConstantDouble
	ConstantBoolean
	// ConstantCustom is a string literal annotated with a declared type,
	// e.g. `"0.5.1":version`.
	ConstantCustom
)

// Constant is a literal value appearing in a condition or target.
type Constant struct {
	Kind ConstantKind

	StringVal string  // ConstantString and ConstantCustom
	IntVal    int64   // ConstantInteger
	DoubleVal float64 // ConstantDouble
	BoolVal   bool    // ConstantBoolean

	// TypeName is the (possibly dotted) declared type of a custom literal.
	TypeName []string

	Loc Location
}

// Lexical returns the literal's value in XACML lexical form.
func (c *Constant) Lexical() string {
	switch c.Kind {
	case ConstantString, ConstantCustom:
		return c.StringVal
	case ConstantInteger:
		return strconv.FormatInt(c.IntVal, 10)
	case ConstantDouble:
		return strconv.FormatFloat(c.DoubleVal, 'g', -1, 64)
	case ConstantBoolean:
		return strconv.FormatBool(c.BoolVal)
	}
	return ""
}

// BuiltinTypeURI returns the XACML data-type URI for non-custom literals.
// Custom literals need a type lookup and return false here.
func (c *Constant) BuiltinTypeURI() (string, bool) {
	switch c.Kind {
	case ConstantString:
		return StringURI, true
	case ConstantInteger:
		return IntegerURI, true
	case ConstantDouble:
		return DoubleURI, true
	case ConstantBoolean:
		return BooleanURI, true
	}
	return "", false
}

// CustomTypeName returns the dotted type name of a custom literal.
func (c *Constant) CustomTypeName() string {
	return strings.Join(c.TypeName, ".")
}
