package xacml

import (
	"encoding/xml"
	"io"
	"strconv"

	"mercator-hq/alfac/pkg/alfa/ast"
)

// docWriter is a sticky-error token writer over an xml.Encoder. Once a
// write fails, later calls are no-ops and err() reports the failure.
type docWriter struct {
	enc     *xml.Encoder
	failure error
}

func newDocWriter(w io.Writer) (*docWriter, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return nil, err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &docWriter{enc: enc}, nil
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (d *docWriter) start(name string, attrs ...xml.Attr) {
	if d.failure != nil {
		return
	}
	d.failure = d.enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "xacml3:" + name},
		Attr: attrs,
	})
}

func (d *docWriter) end(name string) {
	if d.failure != nil {
		return
	}
	d.failure = d.enc.EncodeToken(xml.EndElement{
		Name: xml.Name{Local: "xacml3:" + name},
	})
}

func (d *docWriter) text(s string) {
	if d.failure != nil {
		return
	}
	d.failure = d.enc.EncodeToken(xml.CharData(s))
}

// textElement writes a whole element containing only character data.
func (d *docWriter) textElement(name, s string) {
	d.start(name)
	d.text(s)
	d.end(name)
}

func (d *docWriter) close() error {
	if d.failure != nil {
		return d.failure
	}
	return d.enc.Flush()
}

// WriteXML serializes the policy set as a standalone XACML document.
func (p *PolicySet) WriteXML(w io.Writer) error {
	d, err := newDocWriter(w)
	if err != nil {
		return err
	}
	p.writeXML(d, true)
	return d.close()
}

// WriteXML serializes the policy as a standalone XACML document.
func (p *Policy) WriteXML(w io.Writer) error {
	d, err := newDocWriter(w)
	if err != nil {
		return err
	}
	p.writeXML(d, true)
	return d.close()
}

func (p *PolicySet) writeXML(d *docWriter, root bool) {
	attrs := []xml.Attr{
		attr("PolicySetId", p.ID),
		attr("PolicyCombiningAlgId", p.CombiningAlg),
		attr("Version", "1.0"),
	}
	if root {
		attrs = append(attrs, attr("xmlns:xacml3", CoreSchemaNS))
	}
	d.start("PolicySet", attrs...)
	if p.Description != "" {
		d.textElement("Description", p.Description)
	}
	p.Target.writeXML(d)
	for _, c := range p.Children {
		switch {
		case c.PolicyIDRef != "":
			d.textElement("PolicyIdReference", c.PolicyIDRef)
		case c.PolicySetIDRef != "":
			d.textElement("PolicySetIdReference", c.PolicySetIDRef)
		case c.Policy != nil:
			c.Policy.writeXML(d, false)
		case c.PolicySet != nil:
			c.PolicySet.writeXML(d, false)
		}
	}
	writePrescriptions(d, p.Prescriptions)
	d.end("PolicySet")
}

func (p *Policy) writeXML(d *docWriter, root bool) {
	attrs := []xml.Attr{
		attr("PolicyId", p.ID),
		attr("RuleCombiningAlgId", p.CombiningAlg),
		attr("Version", "1.0"),
	}
	if root {
		attrs = append(attrs, attr("xmlns:xacml3", CoreSchemaNS))
	}
	d.start("Policy", attrs...)
	if p.Description != "" {
		d.textElement("Description", p.Description)
	}
	p.Target.writeXML(d)
	for i := range p.Rules {
		p.Rules[i].writeXML(d)
	}
	writePrescriptions(d, p.Prescriptions)
	d.end("Policy")
}

func (r *Rule) writeXML(d *docWriter) {
	d.start("Rule",
		attr("Effect", r.Effect.String()),
		attr("RuleId", r.ID))
	if r.Description != "" {
		d.textElement("Description", r.Description)
	}
	r.Target.writeXML(d)
	if r.Condition != nil {
		d.start("Condition")
		writeExpression(d, r.Condition.Expr)
		d.end("Condition")
	}
	writePrescriptions(d, r.Prescriptions)
	d.end("Rule")
}

func (t *Target) writeXML(d *docWriter) {
	d.start("Target")
	for _, anyOf := range t.AnyOfs {
		d.start("AnyOf")
		for _, allOf := range anyOf.AllOfs {
			d.start("AllOf")
			for i := range allOf.Matches {
				allOf.Matches[i].writeXML(d)
			}
			d.end("AllOf")
		}
		d.end("AnyOf")
	}
	d.end("Target")
}

func (m *Match) writeXML(d *docWriter) {
	d.start("Match", attr("MatchId", m.MatchID))
	d.start("AttributeValue", attr("DataType", m.ValueType))
	d.text(m.Value)
	d.end("AttributeValue")
	attrs := []xml.Attr{
		attr("AttributeId", m.DesignatorID),
		attr("Category", m.DesignatorCategory),
		attr("DataType", m.DesignatorType),
		attr("MustBePresent", strconv.FormatBool(m.MustBePresent)),
	}
	if m.Issuer != "" {
		attrs = append(attrs, attr("Issuer", m.Issuer))
	}
	d.start("AttributeDesignator", attrs...)
	d.end("AttributeDesignator")
	d.end("Match")
}

func writeExpression(d *docWriter, e Expression) {
	switch e := e.(type) {
	case *Apply:
		d.start("Apply", attr("FunctionId", e.FunctionURI))
		for _, a := range e.Arguments {
			writeExpression(d, a)
		}
		d.end("Apply")
	case *FunctionRef:
		d.start("Function", attr("FunctionId", e.FunctionURI))
		d.end("Function")
	case *AttributeValue:
		e.writeXML(d)
	case *AttributeDesignator:
		e.writeXML(d)
	}
}

func (v *AttributeValue) writeXML(d *docWriter) {
	d.start("AttributeValue", attr("DataType", v.TypeURI))
	d.text(v.Value)
	d.end("AttributeValue")
}

func (a *AttributeDesignator) writeXML(d *docWriter) {
	attrs := []xml.Attr{
		attr("AttributeId", a.AttributeID),
		attr("Category", a.Category),
		attr("DataType", a.TypeURI),
	}
	if a.Issuer != "" {
		attrs = append(attrs, attr("Issuer", a.Issuer))
	}
	attrs = append(attrs, attr("MustBePresent", strconv.FormatBool(a.MustBePresent)))
	d.start("AttributeDesignator", attrs...)
	d.end("AttributeDesignator")
}

// writePrescriptions writes the ObligationExpressions and
// AdviceExpressions blocks, omitting empty ones.
func writePrescriptions(d *docWriter, exprs []PrescriptionExpr) {
	obligations, advice := splitPrescriptions(exprs)
	if len(obligations) > 0 {
		d.start("ObligationExpressions")
		for i := range obligations {
			obligations[i].writeXML(d)
		}
		d.end("ObligationExpressions")
	}
	if len(advice) > 0 {
		d.start("AdviceExpressions")
		for i := range advice {
			advice[i].writeXML(d)
		}
		d.end("AdviceExpressions")
	}
}

func (p *PrescriptionExpr) writeXML(d *docWriter) {
	if p.Kind == ast.PrescriptionAdvice {
		d.start("AdviceExpression",
			attr("AdviceId", p.ID),
			attr("AppliesTo", p.FulfillOn.String()))
	} else {
		d.start("ObligationExpression",
			attr("ObligationId", p.ID),
			attr("FulfillOn", p.FulfillOn.String()))
	}
	for _, a := range p.Assignments {
		d.start("AttributeAssignmentExpression",
			attr("AttributeId", a.AttributeID),
			attr("Category", a.Category))
		if a.Value != nil {
			a.Value.writeXML(d)
		} else if a.Designator != nil {
			a.Designator.writeXML(d)
		}
		d.end("AttributeAssignmentExpression")
	}
	if p.Kind == ast.PrescriptionAdvice {
		d.end("AdviceExpression")
	} else {
		d.end("ObligationExpression")
	}
}
