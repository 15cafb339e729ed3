// Alfac is a compiler from ALFA (Abbreviated Language for Authorization)
// to XACML 3.0 policy documents.
//
// It parses one or more ALFA source files, resolves every named element
// across namespaces and imports, and writes one XACML XML file per
// top-level policy or policy set.
//
// Usage:
//
//	# Compile sources into the xacml/ directory
//	alfac compile -i policies/ -o xacml/
//
//	# Check sources for errors without writing output
//	alfac check -i policies/
//
//	# Recompile automatically when sources change
//	alfac watch -i policies/ -o xacml/
//
//	# Print the built-in ALFA definitions
//	alfac builtins
//
//	# Show version information
//	alfac version
package main

func main() {
	Execute()
}
