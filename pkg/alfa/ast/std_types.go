package ast

// SystemNS is the namespace the builtin definitions live under. It is
// wildcard-imported into every namespace.
const SystemNS = "_A2X"

// ProtectedNS holds internal definitions the compiler itself depends on.
// They are always registered, even with builtins disabled, and must be
// referenced fully qualified.
const ProtectedNS = "_A2X.PROTECTED"

func makeStdType(id, uri string) *TypeDef {
	return &TypeDef{ID: id, URI: uri, NS: []string{SystemNS}}
}

// StandardTypes returns the builtin type definitions.
func StandardTypes() []*TypeDef {
	return []*TypeDef{
		makeStdType("string", StringURI),
		makeStdType("boolean", BooleanURI),
		makeStdType("integer", IntegerURI),
		makeStdType("double", DoubleURI),
		makeStdType("anyURI", "http://www.w3.org/2001/XMLSchema#anyURI"),
		makeStdType("base64Binary", "http://www.w3.org/2001/XMLSchema#base64Binary"),
		makeStdType("date", "http://www.w3.org/2001/XMLSchema#date"),
		makeStdType("dateTime", "http://www.w3.org/2001/XMLSchema#dateTime"),
		makeStdType("dayTimeDuration", "http://www.w3.org/2001/XMLSchema#dayTimeDuration"),
		makeStdType("hexBinary", "http://www.w3.org/2001/XMLSchema#hexBinary"),
		makeStdType("rfc822Name", "urn:oasis:names:tc:xacml:1.0:data-type:rfc822Name"),
		makeStdType("time", "http://www.w3.org/2001/XMLSchema#time"),
		makeStdType("x500Name", "urn:oasis:names:tc:xacml:1.0:data-type:x500Name"),
		makeStdType("xpath", "urn:oasis:names:tc:xacml:3.0:data-type:xpathExpression"),
		makeStdType("yearMonthDuration", "http://www.w3.org/2001/XMLSchema#yearMonthDuration"),
		makeStdType("dnsName", "urn:oasis:names:tc:xacml:2.0:data-type:dnsName"),
		makeStdType("ipAddress", "urn:oasis:names:tc:xacml:2.0:data-type:ipAddress"),
	}
}

func makeStdCat(id, uri string) *Category {
	return &Category{ID: id, URI: uri, NS: []string{SystemNS}}
}

// StandardCategories returns the builtin attribute categories.
func StandardCategories() []*Category {
	return []*Category{
		makeStdCat("subjectCat", "urn:oasis:names:tc:xacml:1.0:subject-category:access-subject"),
		makeStdCat("codebaseCat", "urn:oasis:names:tc:xacml:1.0:subject-category:codebase"),
		makeStdCat("intermediarySubjectCat", "urn:oasis:names:tc:xacml:1.0:subject-category:intermediary-subject"),
		makeStdCat("recipientSubjectCat", "urn:oasis:names:tc:xacml:1.0:subject-category:recipient-subject"),
		makeStdCat("requestingMachineCat", "urn:oasis:names:tc:xacml:1.0:subject-category:requesting-machine"),
		makeStdCat("resourceCat", "urn:oasis:names:tc:xacml:3.0:attribute-category:resource"),
		makeStdCat("actionCat", "urn:oasis:names:tc:xacml:3.0:attribute-category:action"),
		makeStdCat("environmentCat", "urn:oasis:names:tc:xacml:3.0:attribute-category:environment"),
	}
}
