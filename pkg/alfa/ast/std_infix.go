package ast

func sig(uri, first, second, output string) InfixSignature {
	return InfixSignature{URI: uri, FirstArg: first, SecondArg: second, Output: output}
}

// StandardInfixOperators returns the builtin operator table. Signature
// order matters: the first signature whose argument types match wins.
func StandardInfixOperators() []*Infix {
	ns := []string{SystemNS}
	return []*Infix{
		{
			Operator:    "==",
			AllowBags:   true,
			Commutative: true,
			NS:          ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:string-equal", "string", "string", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:boolean-equal", "boolean", "boolean", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-equal", "integer", "integer", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:date-equal", "date", "date", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-equal", "double", "double", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:time-equal", "time", "time", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:dateTime-equal", "dateTime", "dateTime", "boolean"),
				sig("urn:oasis:names:tc:xacml:3.0:function:dayTimeDuration-equal", "dayTimeDuration", "dayTimeDuration", "boolean"),
				sig("urn:oasis:names:tc:xacml:3.0:function:yearMonthDuration-equal", "yearMonthDuration", "yearMonthDuration", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:anyURI-equal", "anyURI", "anyURI", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:x500Name-equal", "x500Name", "x500Name", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:rfc822Name-equal", "rfc822Name", "rfc822Name", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:hexBinary-equal", "hexBinary", "hexBinary", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:base64Binary-equal", "base64Binary", "base64Binary", "boolean"),
			},
		},
		{
			Operator:  "<",
			AllowBags: true,
			NS:        ns,
			Inverse:   ">",
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-less-than", "integer", "integer", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-less-than", "double", "double", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:string-less-than", "string", "string", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:time-less-than", "time", "time", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:dateTime-less-than", "dateTime", "dateTime", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:date-less-than", "date", "date", "boolean"),
			},
		},
		{
			Operator:  ">=",
			AllowBags: true,
			NS:        ns,
			Inverse:   "<=",
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-greater-than-or-equal", "integer", "integer", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-greater-than-or-equal", "double", "double", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:string-greater-than-or-equal", "string", "string", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:time-greater-than-or-equal", "time", "time", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:dateTime-greater-than-or-equal", "dateTime", "dateTime", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:date-greater-than-or-equal", "date", "date", "boolean"),
			},
		},
		{
			Operator:  "<=",
			AllowBags: true,
			NS:        ns,
			Inverse:   ">=",
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-less-than-or-equal", "integer", "integer", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-less-than-or-equal", "double", "double", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:string-less-than-or-equal", "string", "string", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:time-less-than-or-equal", "time", "time", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:dateTime-less-than-or-equal", "dateTime", "dateTime", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:date-less-than-or-equal", "date", "date", "boolean"),
			},
		},
		{
			Operator:  ">",
			AllowBags: true,
			NS:        ns,
			Inverse:   "<",
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-greater-than", "integer", "integer", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-greater-than", "double", "double", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:string-greater-than", "string", "string", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:time-greater-than", "time", "time", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:dateTime-greater-than", "dateTime", "dateTime", "boolean"),
				sig("urn:oasis:names:tc:xacml:1.0:function:date-greater-than", "date", "date", "boolean"),
			},
		},
		{
			Operator:    "&&",
			Commutative: true,
			NS:          ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:and", "boolean", "boolean", "boolean"),
			},
		},
		{
			Operator:    "||",
			Commutative: true,
			NS:          ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:or", "boolean", "boolean", "boolean"),
			},
		},
		{
			Operator:    "+",
			Commutative: true,
			NS:          ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-add", "integer", "integer", "integer"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-add", "double", "double", "double"),
				sig("urn:oasis:names:tc:xacml:2.0:function:string-concatenate", "string", "string", "string"),
			},
		},
		{
			Operator: "-",
			NS:       ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-subtract", "integer", "integer", "integer"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-subtract", "double", "double", "double"),
			},
		},
		{
			Operator:    "*",
			Commutative: true,
			NS:          ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-multiply", "integer", "integer", "integer"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-multiply", "double", "double", "double"),
			},
		},
		{
			Operator: "/",
			NS:       ns,
			Signatures: []InfixSignature{
				sig("urn:oasis:names:tc:xacml:1.0:function:integer-divide", "integer", "integer", "integer"),
				sig("urn:oasis:names:tc:xacml:1.0:function:double-divide", "double", "double", "double"),
			},
		},
	}
}
