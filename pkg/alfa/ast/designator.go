package ast

import "strings"

// AttributeDesignator references a declared attribute inside a condition
// or target, optionally requiring presence or restricting the issuer.
type AttributeDesignator struct {
	// Attribute is the possibly-qualified attribute name.
	Attribute []string
	// Issuer restricts matches to a specific issuer, "" for any.
	Issuer string
	// MustBePresent requires the attribute to exist at evaluation time.
	MustBePresent bool

	Loc Location
}

// FullyQualifiedName returns the dotted attribute reference as written.
func (d *AttributeDesignator) FullyQualifiedName() string {
	return strings.Join(d.Attribute, ".")
}

// String renders the designator in ALFA syntax.
func (d *AttributeDesignator) String() string {
	var opts []string
	if d.MustBePresent {
		opts = append(opts, "mustbepresent")
	}
	if d.Issuer != "" {
		opts = append(opts, "issuer=\""+d.Issuer+"\"")
	}
	if len(opts) == 0 {
		return strings.Join(d.Attribute, ".")
	}
	return strings.Join(d.Attribute, ".") + "[" + strings.Join(opts, " ") + "]"
}
