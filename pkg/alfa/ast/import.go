package ast

import "strings"

// Import represents a single import statement within a namespace.
// A wildcard import (`import a.b.*`) brings every symbol under the path
// into scope; a static import (`import a.b.c`) brings in one symbol.
type Import struct {
	// Components of the imported path, without any trailing wildcard.
	Components []string
	// Wildcard is true for `import path.*`.
	Wildcard bool
	// Loc is where the import statement appeared.
	Loc Location
}

// Path returns the dotted import path.
func (i *Import) Path() string {
	return strings.Join(i.Components, ".")
}

// LastComponent returns the final path component, or "" for an empty path.
func (i *Import) LastComponent() string {
	if len(i.Components) == 0 {
		return ""
	}
	return i.Components[len(i.Components)-1]
}
