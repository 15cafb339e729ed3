package ast

import "strings"

// FunctionArgKind classifies function parameter and result types.
type FunctionArgKind int

const (
	// ArgAtomic is a specific atomic type (`string`, `integer`, ...).
	ArgAtomic FunctionArgKind = iota
	// ArgAtomicBag is a bag of a specific atomic type (`bag[string]`).
	ArgAtomicBag
	// ArgAnyAtomicBag is a bag of any atomic type (`bag[anyAtomic]`).
	ArgAnyAtomicBag
	// ArgAnyAtomic is a placeholder for any atomic type (`anyAtomic`).
	ArgAnyAtomic
	// ArgAnyAtomicOrBag accepts any atomic type or bag (inputs only).
	ArgAnyAtomicOrBag
	// ArgFunction is a function placeholder (inputs only).
	ArgFunction
)

// FunctionArg is one input or output position of a function declaration.
// Type is the ALFA type name for ArgAtomic and ArgAtomicBag.
type FunctionArg struct {
	Kind FunctionArgKind
	Type string
}

// String renders the argument in ALFA syntax.
func (a FunctionArg) String() string {
	switch a.Kind {
	case ArgAtomic:
		return a.Type
	case ArgAtomicBag:
		return "bag[" + a.Type + "]"
	case ArgAnyAtomicBag:
		return "bag[anyAtomic]"
	case ArgAnyAtomic:
		return "anyAtomic"
	case ArgAnyAtomicOrBag:
		return "anyAtomicOrBag"
	case ArgFunction:
		return "function"
	}
	return ""
}

// FunctionInputs is the ordered parameter list of a function declaration.
type FunctionInputs struct {
	Args []FunctionArg
	// Wildcard is true when the final argument repeats (`... *`).
	Wildcard bool
}

// Function declares a named XACML function with its signature.
type Function struct {
	ID     string
	NS     []string
	URI    string
	Inputs FunctionInputs
	Output FunctionArg
	Loc    Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (f *Function) FullyQualifiedName() string {
	return joinQualified(f.NS, f.ID)
}

// AsAlfa renders the declaration as ALFA source at the given indent level.
func (f *Function) AsAlfa(indentLevel int) string {
	indent := strings.Repeat("  ", indentLevel)
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("function ")
	sb.WriteString(f.ID)
	sb.WriteString(" = \"")
	sb.WriteString(f.URI)
	sb.WriteString("\" : ")
	for _, a := range f.Inputs.Args {
		sb.WriteString(a.String())
		sb.WriteString(" ")
	}
	if f.Inputs.Wildcard {
		sb.WriteString("* ")
	}
	sb.WriteString("-> ")
	sb.WriteString(f.Output.String())
	sb.WriteString("\n")
	return sb.String()
}
