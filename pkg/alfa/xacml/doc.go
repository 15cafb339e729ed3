// Package xacml converts resolved ALFA policies into XACML 3.0
// documents.
//
// The conversion keeps the compiler context on the AST side: AST nodes
// are lowered into plain structs that carry only what XML serialization
// needs (URIs, lexical values, flags). Policies with conditions are
// rewritten into equivalent policysets before lowering, since XACML
// policies cannot carry conditions.
package xacml
