package parser

import "testing"

func lexAll(t *testing.T, src string) []token {
	t.Helper()
	l := newLexer("test.alfa", []byte(src))
	var toks []token
	for {
		tok := l.next()
		if tok.Kind == tokEOF {
			return toks
		}
		if tok.Kind == tokError {
			t.Fatalf("lexer error: %s at %s", tok.Text, tok.Loc)
		}
		toks = append(toks, tok)
	}
}

func TestLexerTokenKinds(t *testing.T) {
	toks := lexAll(t, `namespace com.acme { policy p1 = "urn:x" }`)

	want := []struct {
		kind tokenKind
		text string
	}{
		{tokIdent, "namespace"},
		{tokIdent, "com"},
		{tokDot, "."},
		{tokIdent, "acme"},
		{tokLBrace, "{"},
		{tokIdent, "policy"},
		{tokIdent, "p1"},
		{tokOperator, "="},
		{tokString, "urn:x"},
		{tokRBrace, "}"},
	}

	if len(toks) != len(want) {
		t.Fatalf("token count = %d, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %v %q, want %v %q", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestLexerMaximalMunchOperators(t *testing.T) {
	toks := lexAll(t, `a == b -> c >= d && e`)

	var ops []string
	for _, tok := range toks {
		if tok.Kind == tokOperator {
			ops = append(ops, tok.Text)
		}
	}

	want := []string{"==", "->", ">=", "&&"}
	if len(ops) != len(want) {
		t.Fatalf("operators = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("operator %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestLexerNegativeNumbers(t *testing.T) {
	// After an operand, '-' is subtraction; elsewhere it starts a
	// negative literal.
	toks := lexAll(t, `(-2) a - 2`)

	if toks[1].Kind != tokNumber || toks[1].Text != "-2" {
		t.Errorf("token after '(' = %v %q, want number -2", toks[1].Kind, toks[1].Text)
	}

	if toks[4].Kind != tokOperator || toks[4].Text != "-" {
		t.Errorf("token after ident = %v %q, want operator -", toks[4].Kind, toks[4].Text)
	}
	if toks[5].Kind != tokNumber || toks[5].Text != "2" {
		t.Errorf("final token = %v %q, want number 2", toks[5].Kind, toks[5].Text)
	}
}

func TestLexerDecimalNumber(t *testing.T) {
	toks := lexAll(t, `3.25`)
	if len(toks) != 1 || toks[0].Kind != tokNumber || toks[0].Text != "3.25" {
		t.Errorf("tokens = %v, want single number 3.25", toks)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\"b\n"`)
	if toks[0].Text != "a\"b\n" {
		t.Errorf("string = %q", toks[0].Text)
	}

	toks = lexAll(t, `'single'`)
	if toks[0].Kind != tokString || toks[0].Text != "single" {
		t.Errorf("single-quoted = %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := newLexer("test.alfa", []byte(`"oops`))
	tok := l.next()
	if tok.Kind != tokError {
		t.Errorf("kind = %v, want error", tok.Kind)
	}
}

func TestLexerComments(t *testing.T) {
	l := newLexer("test.alfa", []byte("// a line comment\nnamespace /* inline\nblock */ x"))

	tok := l.next()
	if tok.Kind != tokComment || tok.Text != "a line comment" {
		t.Errorf("line comment = %v %q", tok.Kind, tok.Text)
	}

	tok = l.next()
	if tok.Kind != tokIdent || tok.Text != "namespace" {
		t.Errorf("after comment = %v %q", tok.Kind, tok.Text)
	}

	tok = l.next()
	if tok.Kind != tokComment || tok.Text != "inline\nblock" {
		t.Errorf("block comment = %v %q", tok.Kind, tok.Text)
	}
}

func TestLexerLocations(t *testing.T) {
	l := newLexer("test.alfa", []byte("namespace x {\n  policy\n}"))

	l.next() // namespace
	l.next() // x
	l.next() // {

	tok := l.next()
	if tok.Text != "policy" {
		t.Fatalf("token = %q, want policy", tok.Text)
	}
	if tok.Loc.Line != 2 || tok.Loc.Column != 3 {
		t.Errorf("policy location = %d:%d, want 2:3", tok.Loc.Line, tok.Loc.Column)
	}
	if tok.Loc.File != "test.alfa" {
		t.Errorf("location file = %q", tok.Loc.File)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := newLexer("test.alfa", []byte("#"))
	tok := l.next()
	if tok.Kind != tokError {
		t.Errorf("kind = %v, want error", tok.Kind)
	}
}
