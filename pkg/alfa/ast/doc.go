// Package ast defines the Abstract Syntax Tree for ALFA policy documents.
//
// The AST covers namespaces, imports, declarations (types, categories,
// attributes, functions, infix operators, combining algorithms, obligations
// and advice), policies, policysets, rules, targets, and conditions.
//
// Policies and policysets may be anonymous in ALFA source; their names are
// held in shared NameSlot cells and filled in during finalization, after
// all sibling names are known. The builtin definitions the compiler
// registers under the _A2X namespace also live here, as plain data tables.
package ast
