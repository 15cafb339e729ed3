package compiler

import (
	"log/slog"
	"sort"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// Resolver maps fully-qualified dotted names to elements of one kind
// (attributes, functions, policies, ...). It embodies the namespace
// resolution rules shared by every element that can be referenced from
// ALFA source.
type Resolver[T any] struct {
	kind     string
	elements map[string]T
}

// NewResolver creates an empty resolver. The kind appears in error and
// log messages ("attribute", "policy combinator", ...).
func NewResolver[T any](kind string) *Resolver[T] {
	return &Resolver[T]{
		kind:     kind,
		elements: make(map[string]T),
	}
}

// Register inserts an element under its fully-qualified name. An empty
// name marks an anonymous element; those cannot be looked up, so the
// registration is silently skipped.
func (r *Resolver[T]) Register(fqName string, elem T) *alfaErrors.Error {
	if fqName == "" {
		slog.Debug("ignoring registration of anonymous element", "kind", r.kind)
		return nil
	}
	if _, exists := r.elements[fqName]; exists {
		return alfaErrors.Newf(alfaErrors.ErrorTypeDuplicateSymbol,
			"duplicate %s definition: '%s'", r.kind, fqName)
	}
	slog.Debug("registering element", "kind", r.kind, "name", fqName)
	r.elements[fqName] = elem
	return nil
}

// ExistsFQ reports whether a fully-qualified name is registered.
func (r *Resolver[T]) ExistsFQ(fqName string) bool {
	_, ok := r.elements[fqName]
	return ok
}

// GetFQ fetches an element by its exact fully-qualified name.
func (r *Resolver[T]) GetFQ(fqName string) (T, bool) {
	elem, ok := r.elements[fqName]
	return elem, ok
}

// Names lists all registered fully-qualified names, unsorted.
func (r *Resolver[T]) Names() []string {
	names := make([]string, 0, len(r.elements))
	for n := range r.elements {
		names = append(names, n)
	}
	return names
}

// Elements lists all registered elements sorted by fully-qualified name.
func (r *Resolver[T]) Elements() []T {
	names := r.Names()
	sort.Strings(names)
	elems := make([]T, 0, len(names))
	for _, n := range names {
		elems = append(elems, r.elements[n])
	}
	return elems
}

// Lookup resolves a symbol as written in ALFA source to a registered
// element. The symbol may itself contain dotted components. sourceNS is
// the namespace the reference appears in; imports are the import
// statements in effect there. Six rules are tried in order:
//
//  1. child of the source namespace
//  2. fully-qualified from the root
//  3. static import, relative to the source namespace
//  4. static import, fully qualified
//  5. wildcard import, relative to the source namespace
//  6. wildcard import, fully qualified
//
// Rules drawing on imports can match more than one candidate, which is
// an ambiguity error rather than a pick.
func (r *Resolver[T]) Lookup(symbol string, sourceNS []string, loc ast.Location, imports []*ast.Import) (T, *alfaErrors.Error) {
	var zero T
	slog.Debug("lookup", "kind", r.kind, "symbol", symbol, "namespace", strings.Join(sourceNS, "."))

	// Rule 1: child match.
	if elem, ok := r.elements[strings.Join(sourceNS, ".")+"."+symbol]; ok {
		return elem, nil
	}
	// Rule 2: root match.
	if elem, ok := r.elements[symbol]; ok {
		return elem, nil
	}

	var staticImports, wildcardImports []*ast.Import
	for _, imp := range imports {
		if imp.Wildcard {
			wildcardImports = append(wildcardImports, imp)
		} else {
			staticImports = append(staticImports, imp)
		}
	}

	// Rules 3 and 4: a static import applies only when its last
	// component equals the entire symbol.
	prefix := strings.Join(sourceNS, ".") + "."
	if elem, ok, err := r.matchImports(symbol, staticImports, func(imp *ast.Import) (string, bool) {
		if imp.LastComponent() != symbol {
			return "", false
		}
		return prefix + imp.Path(), true
	}); err != nil || ok {
		return elem, err
	}
	if elem, ok, err := r.matchImports(symbol, staticImports, func(imp *ast.Import) (string, bool) {
		if imp.LastComponent() != symbol {
			return "", false
		}
		return imp.Path(), true
	}); err != nil || ok {
		return elem, err
	}
	// Rules 5 and 6: wildcard imports name a namespace the symbol may
	// live under.
	if elem, ok, err := r.matchImports(symbol, wildcardImports, func(imp *ast.Import) (string, bool) {
		return prefix + imp.Path() + "." + symbol, true
	}); err != nil || ok {
		return elem, err
	}
	if elem, ok, err := r.matchImports(symbol, wildcardImports, func(imp *ast.Import) (string, bool) {
		return imp.Path() + "." + symbol, true
	}); err != nil || ok {
		return elem, err
	}

	return zero, alfaErrors.New(alfaErrors.ErrorTypeSymbolNotFound,
		"all referenced symbols must be defined", loc).
		WithSuggestion("this " + r.kind + " could not be resolved: '" + symbol + "'")
}

// matchImports applies one resolution rule across a set of imports.
// Exactly one candidate may exist in the element map; more than one is
// ambiguous.
func (r *Resolver[T]) matchImports(symbol string, imports []*ast.Import, candidate func(*ast.Import) (string, bool)) (T, bool, *alfaErrors.Error) {
	var zero T
	var matches []T
	for _, imp := range imports {
		key, ok := candidate(imp)
		if !ok {
			continue
		}
		if elem, found := r.elements[key]; found {
			matches = append(matches, elem)
		}
	}
	switch len(matches) {
	case 0:
		return zero, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return zero, false, alfaErrors.Newf(alfaErrors.ErrorTypeAmbiguousImport,
			"symbol '%s' resolved to multiple locations from import statements", symbol)
	}
}
