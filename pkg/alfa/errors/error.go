package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes the kind of error encountered while parsing or
// compiling ALFA source.
type ErrorType string

const (
	// Parse-time errors.
	ErrorTypeSyntax              ErrorType = "syntax"                // malformed ALFA source
	ErrorTypeConvert             ErrorType = "convert"               // parse tree could not become an AST
	ErrorTypeIO                  ErrorType = "io"                    // file I/O error
	ErrorTypeDuplicateModifier   ErrorType = "duplicate-modifier"    // infix modifier given twice
	ErrorTypeDuplicateEffect     ErrorType = "duplicate-effect"      // rule declares two effects
	ErrorTypeDuplicateTarget     ErrorType = "duplicate-target"      // two target statements
	ErrorTypeDuplicateCondition  ErrorType = "duplicate-condition"   // two condition statements
	ErrorTypeCommutativeInverse  ErrorType = "commutative-inverse"   // commutative operator declares an inverse
	ErrorTypeMissingApply        ErrorType = "missing-apply"         // policy/policyset without apply
	ErrorTypeMissingEffect       ErrorType = "missing-effect"        // rule without permit/deny

	// Resolution errors.
	ErrorTypeDuplicateSymbol       ErrorType = "duplicate-symbol"
	ErrorTypeSymbolNotFound        ErrorType = "symbol-not-found"
	ErrorTypeAmbiguousImport       ErrorType = "ambiguous-import"
	ErrorTypeDuplicateURI          ErrorType = "duplicate-uri"
	ErrorTypeDuplicatePolicyEntity ErrorType = "duplicate-policy-entity"

	// Type and operator errors.
	ErrorTypeInverseNotFound     ErrorType = "inverse-not-found"      // inverse operator symbol unresolved
	ErrorTypeNotCommutative      ErrorType = "not-commutative"        // reversed args need an inverse
	ErrorTypeBagsDisallowed      ErrorType = "bags-disallowed"        // operator cannot take bag arguments
	ErrorTypeBagsBooleanRequired ErrorType = "bags-boolean-required"  // bag-lifted apply must output boolean
	ErrorTypeConditionBoolean    ErrorType = "condition-boolean"      // condition must type to atomic boolean
	ErrorTypeNoMatchingSignature ErrorType = "no-matching-signature"

	// Output errors.
	ErrorTypePolicyNoCondition    ErrorType = "policy-no-condition"    // deconditioning a condition-free policy
	ErrorTypePolicySetNoCondition ErrorType = "policyset-no-condition" // deconditioning a condition-free policyset
	ErrorTypePolicyHasCondition   ErrorType = "policy-has-condition"   // conditioned policy emitted without wrapping
	ErrorTypeMissingFilename      ErrorType = "missing-filename"       // output element has no derivable filename
	ErrorTypeWrite                ErrorType = "write"                  // XACML write failure
)

// Location represents the source location of an AST node in the original
// ALFA file. It enables precise error reporting with file, line, and
// column information.
type Location struct {
	File   string // Path to the ALFA file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Error represents a rich error with location, context, and suggestions.
// It provides detailed information for debugging ALFA policy issues.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Location   Location  // Source location (file, line, column)
	Context    string    // Surrounding lines of source
	Suggestion string    // Suggested fix (optional)
}

// New creates an error of the given type at the given location.
func New(errType ErrorType, message string, location Location) *Error {
	return &Error{
		Type:     errType,
		Message:  message,
		Location: location,
	}
}

// Newf creates an error with a formatted message and no location.
func Newf(errType ErrorType, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithType changes the error category and returns the error.
func (e *Error) WithType(t ErrorType) *Error {
	e.Type = t
	return e
}

// WithSuggestion attaches a suggested fix and returns the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Error implements the error interface.
// It returns a formatted error message with location and context.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// ErrorList represents a collection of errors encountered during parsing
// or compilation. It allows accumulating multiple errors instead of
// failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
// It returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains at least one error of
// the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
