// Package errors provides rich error types for ALFA parsing and
// compilation.
//
// Errors carry a category, a source location, optional surrounding source
// context, and an optional suggestion. The ErrorList type accumulates
// multiple errors so that a single compile pass can report everything it
// finds instead of stopping at the first problem.
package errors
