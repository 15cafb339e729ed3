package ast

import "testing"

func attrAtom(name string) CondItem {
	return CondItem{Atom: &AttributeRef{Designator: AttributeDesignator{Attribute: []string{name}}}}
}

func opItem(symbol string) CondItem {
	return CondItem{Op: &Operator{Operator: symbol}}
}

func TestBuildExpressionSingleAtom(t *testing.T) {
	expr, err := BuildExpression([]CondItem{attrAtom("a")}, Location{})
	if err != nil {
		t.Fatalf("BuildExpression() error = %v", err)
	}
	if _, ok := expr.(*AttributeRef); !ok {
		t.Errorf("expr = %T, want *AttributeRef", expr)
	}
}

func TestBuildExpressionPrecedence(t *testing.T) {
	// '&&' binds tighter than '==', so a == b && c groups as a == (b && c).
	items := []CondItem{attrAtom("a"), opItem("=="), attrAtom("b"), opItem("&&"), attrAtom("c")}

	expr, err := BuildExpression(items, Location{})
	if err != nil {
		t.Fatalf("BuildExpression() error = %v", err)
	}

	root, ok := expr.(*InfixExpr)
	if !ok {
		t.Fatalf("expr = %T, want *InfixExpr", expr)
	}
	if root.Op.Operator != "==" {
		t.Fatalf("root operator = %q, want %q", root.Op.Operator, "==")
	}
	right, ok := root.Right.(*InfixExpr)
	if !ok || right.Op.Operator != "&&" {
		t.Errorf("right = %v, want infix &&", root.Right)
	}
}

func TestBuildExpressionRightAssociative(t *testing.T) {
	// '||' is right associative: a || b || c groups as a || (b || c).
	items := []CondItem{attrAtom("a"), opItem("||"), attrAtom("b"), opItem("||"), attrAtom("c")}

	expr, err := BuildExpression(items, Location{})
	if err != nil {
		t.Fatalf("BuildExpression() error = %v", err)
	}

	root := expr.(*InfixExpr)
	if _, ok := root.Right.(*InfixExpr); !ok {
		t.Errorf("Right = %T, want *InfixExpr (right associative)", root.Right)
	}
	if _, ok := root.Left.(*AttributeRef); !ok {
		t.Errorf("Left = %T, want *AttributeRef", root.Left)
	}
}

func TestBuildExpressionLeftAssociative(t *testing.T) {
	// comparisons are left associative: a < b < c groups as (a < b) < c.
	items := []CondItem{attrAtom("a"), opItem("<"), attrAtom("b"), opItem("<"), attrAtom("c")}

	expr, err := BuildExpression(items, Location{})
	if err != nil {
		t.Fatalf("BuildExpression() error = %v", err)
	}

	root := expr.(*InfixExpr)
	if _, ok := root.Left.(*InfixExpr); !ok {
		t.Errorf("Left = %T, want *InfixExpr (left associative)", root.Left)
	}
}

func TestBuildExpressionErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []CondItem
	}{
		{name: "empty", items: nil},
		{name: "leading operator", items: []CondItem{opItem("&&"), attrAtom("a")}},
		{name: "two atoms without operator", items: []CondItem{attrAtom("a"), attrAtom("b")}},
		{name: "trailing operator", items: []CondItem{attrAtom("a"), opItem("&&")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildExpression(tt.items, Location{}); err == nil {
				t.Error("BuildExpression() error = nil, want error")
			}
		})
	}
}

func TestBindingPower(t *testing.T) {
	tests := []struct {
		symbol      string
		left, right int
	}{
		{"||", 12, 11},
		{"&&", 10, 9},
		{"==", 7, 8},
		{">=", 7, 8},
		{"+", 3, 4},
		{"*", 1, 2},
		{"~", 0, 0},
	}

	for _, tt := range tests {
		l, r := BindingPower(tt.symbol)
		if l != tt.left || r != tt.right {
			t.Errorf("BindingPower(%q) = %d, %d, want %d, %d", tt.symbol, l, r, tt.left, tt.right)
		}
	}
}

func TestOperatorQualifiedName(t *testing.T) {
	plain := Operator{Operator: ">="}
	if got := plain.QualifiedName(); got != ">=" {
		t.Errorf("QualifiedName() = %q, want %q", got, ">=")
	}

	qualified := Operator{NS: []string{"com", "acme"}, Operator: ">="}
	if got := qualified.QualifiedName(); got != "com.acme.>=" {
		t.Errorf("QualifiedName() = %q, want %q", got, "com.acme.>=")
	}
}
