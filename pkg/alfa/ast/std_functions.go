package ast

func atomic(t string) FunctionArg    { return FunctionArg{Kind: ArgAtomic, Type: t} }
func atomicBag(t string) FunctionArg { return FunctionArg{Kind: ArgAtomicBag, Type: t} }

func mkFn(id, uri string, args []FunctionArg, wildcard bool, output FunctionArg) *Function {
	return &Function{
		ID:     id,
		NS:     []string{SystemNS},
		URI:    uri,
		Inputs: FunctionInputs{Args: args, Wildcard: wildcard},
		Output: output,
	}
}

func urn(version, name string) string {
	return "urn:oasis:names:tc:xacml:" + version + ":function:" + name
}

// typeVersions maps each data type to the XACML spec version its
// equal, bag, and set functions were introduced in.
var typeVersions = map[string]string{
	"dayTimeDuration":   "3.0",
	"yearMonthDuration": "3.0",
	"ipAddress":         "2.0",
	"dnsName":           "2.0",
}

func typeVersion(t string) string {
	if v, ok := typeVersions[t]; ok {
		return v
	}
	return "1.0"
}

// StandardFunctions returns the builtin function declarations from the
// XACML 3.0 function taxonomy (appendix A.3).
func StandardFunctions() []*Function {
	boolOut := atomic("boolean")
	var fns []*Function

	equalTypes := []string{
		"string", "boolean", "integer", "double", "date", "time", "dateTime",
		"dayTimeDuration", "yearMonthDuration", "anyURI", "x500Name",
		"rfc822Name", "hexBinary", "base64Binary",
	}
	for _, t := range equalTypes {
		fns = append(fns, mkFn(t+"Equal", urn(typeVersion(t), t+"-equal"),
			[]FunctionArg{atomic(t), atomic(t)}, false, boolOut))
	}
	fns = append(fns, mkFn("stringEqualIgnoreCase",
		urn("3.0", "string-equal-ignore-case"),
		[]FunctionArg{atomic("string"), atomic("string")}, false, boolOut))

	// arithmetic
	for _, t := range []string{"integer", "double"} {
		out := atomic(t)
		two := []FunctionArg{atomic(t), atomic(t)}
		fns = append(fns,
			mkFn(t+"Add", urn("1.0", t+"-add"), two, false, out),
			mkFn(t+"Subtract", urn("1.0", t+"-subtract"), two, false, out),
			mkFn(t+"Multiply", urn("1.0", t+"-multiply"), two, false, out),
			mkFn(t+"Divide", urn("1.0", t+"-divide"), two, false, out),
		)
	}
	fns = append(fns,
		mkFn("integerMod", urn("1.0", "integer-mod"),
			[]FunctionArg{atomic("integer"), atomic("integer")}, false, atomic("integer")),
		mkFn("integerAbs", urn("1.0", "integer-abs"),
			[]FunctionArg{atomic("integer")}, false, atomic("integer")),
		mkFn("doubleAbs", urn("1.0", "double-abs"),
			[]FunctionArg{atomic("double")}, false, atomic("double")),
		mkFn("round", urn("1.0", "round"),
			[]FunctionArg{atomic("double")}, false, atomic("double")),
		mkFn("floor", urn("1.0", "floor"),
			[]FunctionArg{atomic("double")}, false, atomic("double")),
	)

	// string normalization and numeric conversion
	fns = append(fns,
		mkFn("stringNormalizeSpace", urn("1.0", "string-normalize-space"),
			[]FunctionArg{atomic("string")}, false, atomic("string")),
		mkFn("stringNormalizeToLowerCase", urn("1.0", "string-normalize-to-lower-case"),
			[]FunctionArg{atomic("string")}, false, atomic("string")),
		mkFn("doubleToInteger", urn("1.0", "double-to-integer"),
			[]FunctionArg{atomic("double")}, false, atomic("integer")),
		mkFn("integerToDouble", urn("1.0", "integer-to-double"),
			[]FunctionArg{atomic("integer")}, false, atomic("double")),
	)

	// logical
	fns = append(fns,
		mkFn("orFunction", urn("1.0", "or"),
			[]FunctionArg{atomic("boolean")}, true, boolOut),
		mkFn("andFunction", urn("1.0", "and"),
			[]FunctionArg{atomic("boolean")}, true, boolOut),
		mkFn("nOf", urn("1.0", "n-of"),
			[]FunctionArg{atomic("integer"), atomic("boolean")}, true, boolOut),
		mkFn("not", urn("1.0", "not"),
			[]FunctionArg{atomic("boolean")}, false, boolOut),
	)

	// comparisons
	for _, t := range []string{"integer", "double", "string", "time", "dateTime", "date"} {
		two := []FunctionArg{atomic(t), atomic(t)}
		fns = append(fns,
			mkFn(t+"GreaterThan", urn("1.0", t+"-greater-than"), two, false, boolOut),
			mkFn(t+"GreaterThanOrEqual", urn("1.0", t+"-greater-than-or-equal"), two, false, boolOut),
			mkFn(t+"LessThan", urn("1.0", t+"-less-than"), two, false, boolOut),
			mkFn(t+"LessThanOrEqual", urn("1.0", t+"-less-than-or-equal"), two, false, boolOut),
		)
	}
	fns = append(fns, mkFn("timeInRange", urn("2.0", "time-in-range"),
		[]FunctionArg{atomic("time"), atomic("time")}, false, boolOut))

	// date arithmetic
	fns = append(fns,
		mkFn("dateTimeAddDayTimeDuration", urn("3.0", "dateTime-add-dayTimeDuration"),
			[]FunctionArg{atomic("dateTime"), atomic("dayTimeDuration")}, false, atomic("dateTime")),
		mkFn("dateTimeAddYearMonthDuration", urn("3.0", "dateTime-add-yearMonthDuration"),
			[]FunctionArg{atomic("dateTime"), atomic("yearMonthDuration")}, false, atomic("dateTime")),
		mkFn("dateTimeSubtractDayTimeDuration", urn("3.0", "dateTime-subtract-dayTimeDuration"),
			[]FunctionArg{atomic("dateTime"), atomic("dayTimeDuration")}, false, atomic("dateTime")),
		mkFn("dateTimeSubtractYearMonthDuration", urn("3.0", "dateTime-subtract-yearMonthDuration"),
			[]FunctionArg{atomic("dateTime"), atomic("yearMonthDuration")}, false, atomic("dateTime")),
		mkFn("dateAddYearMonthDuration", urn("3.0", "date-add-yearMonthDuration"),
			[]FunctionArg{atomic("date"), atomic("yearMonthDuration")}, false, atomic("date")),
		mkFn("dateSubtractYearMonthDuration", urn("3.0", "date-subtract-yearMonthDuration"),
			[]FunctionArg{atomic("date"), atomic("yearMonthDuration")}, false, atomic("date")),
	)

	// bag functions
	bagTypes := []string{
		"string", "boolean", "integer", "double", "time", "date", "dateTime",
		"anyURI", "hexBinary", "base64Binary", "dayTimeDuration",
		"yearMonthDuration", "x500Name", "rfc822Name", "ipAddress", "dnsName",
	}
	for _, t := range bagTypes {
		v := typeVersion(t)
		fns = append(fns,
			mkFn(t+"OneAndOnly", urn(v, t+"-one-and-only"),
				[]FunctionArg{atomicBag(t)}, false, atomic(t)),
			mkFn(t+"BagSize", urn(v, t+"-bag-size"),
				[]FunctionArg{atomicBag(t)}, false, atomic("integer")),
		)
		// ipAddress and dnsName have no is-in function
		if t != "ipAddress" && t != "dnsName" {
			fns = append(fns, mkFn(t+"IsIn", urn(v, t+"-is-in"),
				[]FunctionArg{atomic(t), atomicBag(t)}, false, boolOut))
		}
		fns = append(fns, mkFn(t+"Bag", urn(v, t+"-bag"),
			[]FunctionArg{atomic(t)}, true, atomicBag(t)))
	}

	fns = append(fns, mkFn("stringConcatenate", urn("2.0", "string-concatenate"),
		[]FunctionArg{atomic("string"), atomic("string")}, true, atomic("string")))

	// string conversions
	convTypes := []string{
		"boolean", "integer", "double", "time", "date", "dateTime", "anyURI",
		"dayTimeDuration", "yearMonthDuration", "x500Name", "rfc822Name",
		"ipAddress", "dnsName",
	}
	for _, t := range convTypes {
		id := upperFirst(t)
		fns = append(fns,
			mkFn(t+"FromString", urn("3.0", t+"-from-string"),
				[]FunctionArg{atomic("string")}, false, atomic(t)),
			mkFn("stringFrom"+id, urn("3.0", "string-from-"+t),
				[]FunctionArg{atomic(t)}, false, atomic("string")),
		)
	}

	// substring matching
	for _, t := range []string{"string", "anyURI"} {
		fns = append(fns,
			mkFn(t+"StartsWith", urn("3.0", t+"-starts-with"),
				[]FunctionArg{atomic("string"), atomic(t)}, false, boolOut),
			mkFn(t+"EndsWith", urn("3.0", t+"-ends-with"),
				[]FunctionArg{atomic("string"), atomic(t)}, false, boolOut),
			mkFn(t+"Contains", urn("3.0", t+"-contains"),
				[]FunctionArg{atomic("string"), atomic(t)}, false, boolOut),
			mkFn(t+"Substring", urn("3.0", t+"-substring"),
				[]FunctionArg{atomic(t), atomic("integer"), atomic("integer")}, false, atomic("string")),
		)
	}

	// higher-order bag functions
	hofArgs := []FunctionArg{
		{Kind: ArgFunction},
		{Kind: ArgAnyAtomicOrBag},
		{Kind: ArgAnyAtomicOrBag},
	}
	anyBagArgs := []FunctionArg{
		{Kind: ArgFunction},
		{Kind: ArgAnyAtomicBag},
		{Kind: ArgAnyAtomicBag},
	}
	fns = append(fns,
		mkFn("anyOf", urn("3.0", "any-of"), hofArgs, true, boolOut),
		mkFn("allOf", urn("3.0", "all-of"), hofArgs, true, boolOut),
		mkFn("anyOfAny", urn("3.0", "any-of-any"), hofArgs, true, boolOut),
		mkFn("allOfAny", urn("1.0", "all-of-any"), anyBagArgs, false, boolOut),
		mkFn("anyOfAll", urn("1.0", "any-of-all"), anyBagArgs, false, boolOut),
		mkFn("allOfAll", urn("1.0", "all-of-all"), anyBagArgs, false, boolOut),
		mkFn("map", urn("3.0", "map"), hofArgs, true, FunctionArg{Kind: ArgAnyAtomicBag}),
	)

	// regexp and special matching
	fns = append(fns,
		mkFn("x500NameMatch", urn("1.0", "x500Name-match"),
			[]FunctionArg{atomic("x500Name"), atomic("x500Name")}, false, boolOut),
		mkFn("rfc822NameMatch", urn("1.0", "rfc822Name-match"),
			[]FunctionArg{atomic("string"), atomic("rfc822Name")}, false, boolOut),
		mkFn("stringRegexpMatch", urn("1.0", "string-regexp-match"),
			[]FunctionArg{atomic("string"), atomic("string")}, false, boolOut),
	)
	for _, t := range []string{"anyURI", "ipAddress", "dnsName", "rfc822Name", "x500Name"} {
		fns = append(fns, mkFn(t+"RegexpMatch", urn("2.0", t+"-regexp-match"),
			[]FunctionArg{atomic("string"), atomic(t)}, false, boolOut))
	}

	// xpath
	fns = append(fns,
		mkFn("xpathNodeCount", urn("3.0", "xpath-node-count"),
			[]FunctionArg{atomic("xpath")}, false, atomic("integer")),
		mkFn("xpathNodeEqual", urn("3.0", "xpath-node-equal"),
			[]FunctionArg{atomic("xpath"), atomic("xpath")}, false, boolOut),
		mkFn("xpathNodeMatch", urn("3.0", "xpath-node-match"),
			[]FunctionArg{atomic("xpath"), atomic("xpath")}, false, boolOut),
	)

	// set functions
	setTypes := []string{
		"string", "boolean", "integer", "double", "time", "date", "dateTime",
		"anyURI", "hexBinary", "base64Binary", "dayTimeDuration",
		"yearMonthDuration", "x500Name", "rfc822Name",
	}
	for _, t := range setTypes {
		v := typeVersion(t)
		twoBags := []FunctionArg{atomicBag(t), atomicBag(t)}
		fns = append(fns,
			mkFn(t+"Intersection", urn(v, t+"-intersection"), twoBags, false, atomicBag(t)),
			mkFn(t+"AtLeastOneMemberOf", urn(v, t+"-at-least-one-member-of"), twoBags, false, boolOut),
			mkFn(t+"Union", urn(v, t+"-union"), twoBags, true, atomicBag(t)),
			mkFn(t+"Subset", urn(v, t+"-subset"), twoBags, false, boolOut),
			mkFn(t+"SetEquals", urn(v, t+"-set-equals"), twoBags, false, boolOut),
		)
	}

	fns = append(fns, mkFn("accessPermitted", urn("3.0", "access-permitted"),
		[]FunctionArg{atomic("anyURI"), atomic("string")}, false, boolOut))

	return fns
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
