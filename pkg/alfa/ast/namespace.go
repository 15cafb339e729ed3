package ast

import "strings"

// Namespace is the top-level container of an ALFA document. All
// declarations and policies live inside a namespace; namespaces nest.
type Namespace struct {
	// Path is the declared namespace components from general to most
	// specific, the full path from the root.
	Path []string
	// Namespaces are child namespaces contained within.
	Namespaces []*Namespace
	// Imports declared in this namespace.
	Imports []*Import

	PolicySets        []*PolicySet
	Policies          []*Policy
	Rules             []*RuleDef
	RuleCombinators   []*RuleCombinator
	PolicyCombinators []*PolicyCombinator
	Types             []*TypeDef
	Categories        []*Category
	Attributes        []*Attribute
	Functions         []*Function
	InfixFns          []*Infix
	Advice            []*AdviceDef
	Obligations       []*ObligationDef

	Loc Location
}

// DottedName returns the namespace path joined with dots.
func (n *Namespace) DottedName() string {
	return strings.Join(n.Path, ".")
}

// IsRoot returns true for a single-component namespace.
func (n *Namespace) IsRoot() bool {
	return len(n.Path) == 1
}

// AllPolicies returns the policies declared at this level and inside all
// child namespaces.
func (n *Namespace) AllPolicies() []*Policy {
	ps := make([]*Policy, 0, len(n.Policies))
	ps = append(ps, n.Policies...)
	for _, child := range n.Namespaces {
		ps = append(ps, child.AllPolicies()...)
	}
	return ps
}

// TopPolicySets returns the policysets declared at this namespace level.
func (n *Namespace) TopPolicySets() []*PolicySet {
	return n.PolicySets
}

// Document is the parsed form of one ALFA source file.
type Document struct {
	// Filename the source was read from.
	Filename string
	// Namespaces are the top-level namespaces of the document.
	Namespaces []*Namespace
}

// Collection gathers the parsed documents of a compilation.
type Collection struct {
	Documents []*Document
}

// Add appends a parsed document to the collection.
func (c *Collection) Add(d *Document) {
	c.Documents = append(c.Documents, d)
}

// Len returns the number of documents in the collection.
func (c *Collection) Len() int {
	return len(c.Documents)
}

// PolicySets returns the top-level policysets across all documents.
func (c *Collection) PolicySets() []*PolicySet {
	var out []*PolicySet
	for _, d := range c.Documents {
		for _, ns := range d.Namespaces {
			out = append(out, ns.TopPolicySets()...)
		}
	}
	return out
}

// Policies returns all policies across all documents, including policies
// in nested namespaces.
func (c *Collection) Policies() []*Policy {
	var out []*Policy
	for _, d := range c.Documents {
		for _, ns := range d.Namespaces {
			out = append(out, ns.AllPolicies()...)
		}
	}
	return out
}
