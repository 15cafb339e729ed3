// Package parser turns ALFA source files into AST documents.
//
// The parser is a hand-written recursive-descent parser over a small
// token stream. Declarations are registered with a compiler.Context as
// they are parsed, so duplicate symbols and duplicate identifier URIs
// are reported at the declaration site. Comments preceding a policy,
// policyset, or rule become its description.
//
// Condition expressions are collected as a flat sequence of operands
// and operators; precedence is applied afterwards by the ast package's
// expression builder, so user-declared operators participate in the
// same precedence scheme as the builtin ones.
package parser
