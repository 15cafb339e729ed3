package ast

func mkAttr(id, typeName, cat, uri string) *Attribute {
	return &Attribute{
		ID:       id,
		Type:     typeName,
		Category: cat,
		URI:      uri,
		NS:       []string{SystemNS},
	}
}

// StandardAttributes returns the builtin attributes from XACML spec
// 10.2.5 and 10.2.6.
func StandardAttributes() []*Attribute {
	return []*Attribute{
		mkAttr("currentTime", "time", "environmentCat",
			"urn:oasis:names:tc:xacml:1.0:environment:current-time"),
		mkAttr("currentDate", "time", "environmentCat",
			"urn:oasis:names:tc:xacml:1.0:environment:current-date"),
		mkAttr("currentDateTime", "time", "environmentCat",
			"urn:oasis:names:tc:xacml:1.0:environment:current-dateTime"),
		mkAttr("subjectLocalityDnsName", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:authn-locality:dns-name"),
		mkAttr("subjectLocalityIpAddress", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:authn-locality:ip-address"),
		mkAttr("authenticationMethod", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:authentication-method"),
		mkAttr("authenticationTime", "dateTime", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:authentication-time"),
		mkAttr("keyInfo", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:key-info"),
		mkAttr("requestTime", "dateTime", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:request-time"),
		mkAttr("sessionStartTime", "dateTime", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:session-start-time"),
		mkAttr("subjectId", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:subject-id"),
		mkAttr("subjectIdQualifier", "string", "subjectCat",
			"urn:oasis:names:tc:xacml:1.0:subject:subject-id-qualifier"),
		mkAttr("resourceLocation", "string", "resourceCat",
			"urn:oasis:names:tc:xacml:1.0:resource:resource-location"),
		mkAttr("resourceId", "string", "resourceCat",
			"urn:oasis:names:tc:xacml:1.0:resource:resource-id"),
		mkAttr("simpleFileName", "string", "resourceCat",
			"urn:oasis:names:tc:xacml:1.0:resource:simple-file-name"),
		mkAttr("actionId", "string", "actionCat",
			"urn:oasis:names:tc:xacml:1.0:action:action-id"),
		mkAttr("impliedAction", "string", "actionCat",
			"urn:oasis:names:tc:xacml:1.0:action:implied-action"),
	}
}
