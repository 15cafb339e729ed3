// Package compiler holds the shared state of an ALFA compilation: the
// namespace-aware symbol resolvers, the registered standard and
// protected builtin elements, the imports in effect per namespace, and
// the counters that assign names to anonymous policies and rules.
package compiler
