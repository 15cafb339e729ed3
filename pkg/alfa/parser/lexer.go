package parser

import (
	"strings"

	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokOperator
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokDot
	tokComma
	tokColon
	tokComment
	tokError
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokOperator:
		return "operator"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokDot:
		return "'.'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokComment:
		return "comment"
	}
	return "invalid token"
}

type token struct {
	Kind tokenKind
	Text string
	Loc  alfaErrors.Location
}

// operator characters are lexed with maximal munch, so "==", "->", and
// ">=" each arrive as a single token.
const operatorChars = "=<>&|+-*/%^@!~"

// lexer splits ALFA source into tokens with line and column tracking.
// Comments are emitted as tokens; they carry the descriptions of
// policies and rules.
type lexer struct {
	src      []byte
	file     string
	pos      int
	line     int
	col      int
	lastKind tokenKind
}

func newLexer(file string, src []byte) *lexer {
	return &lexer{src: src, file: file, line: 1, col: 1}
}

func (l *lexer) location() alfaErrors.Location {
	return alfaErrors.Location{File: l.file, Line: l.line, Column: l.col}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// next returns the next token. tokError tokens carry a message in Text.
func (l *lexer) next() token {
	for l.pos < len(l.src) {
		switch b := l.peekByte(); b {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			goto scan
		}
	}
scan:
	loc := l.location()
	if l.pos >= len(l.src) {
		return token{Kind: tokEOF, Loc: loc}
	}

	b := l.peekByte()
	switch {
	case b == '/' && l.peekByteAt(1) == '/':
		return l.lineComment(loc)
	case b == '/' && l.peekByteAt(1) == '*':
		return l.blockComment(loc)
	case isIdentStart(b):
		start := l.pos
		for l.pos < len(l.src) && isIdentChar(l.peekByte()) {
			l.advance()
		}
		return l.emit(token{Kind: tokIdent, Text: string(l.src[start:l.pos]), Loc: loc})
	case isDigit(b):
		return l.emit(l.number(loc))
	case b == '-' && isDigit(l.peekByteAt(1)) && !l.afterOperand():
		return l.emit(l.number(loc))
	case b == '"' || b == '\'':
		return l.emit(l.stringLiteral(loc))
	case b == '{':
		l.advance()
		return l.emit(token{Kind: tokLBrace, Text: "{", Loc: loc})
	case b == '}':
		l.advance()
		return l.emit(token{Kind: tokRBrace, Text: "}", Loc: loc})
	case b == '(':
		l.advance()
		return l.emit(token{Kind: tokLParen, Text: "(", Loc: loc})
	case b == ')':
		l.advance()
		return l.emit(token{Kind: tokRParen, Text: ")", Loc: loc})
	case b == '[':
		l.advance()
		return l.emit(token{Kind: tokLBracket, Text: "[", Loc: loc})
	case b == ']':
		l.advance()
		return l.emit(token{Kind: tokRBracket, Text: "]", Loc: loc})
	case b == '.':
		l.advance()
		return l.emit(token{Kind: tokDot, Text: ".", Loc: loc})
	case b == ',':
		l.advance()
		return l.emit(token{Kind: tokComma, Text: ",", Loc: loc})
	case b == ':':
		l.advance()
		return l.emit(token{Kind: tokColon, Text: ":", Loc: loc})
	case strings.IndexByte(operatorChars, b) >= 0:
		start := l.pos
		for l.pos < len(l.src) && strings.IndexByte(operatorChars, l.peekByte()) >= 0 {
			l.advance()
		}
		return l.emit(token{Kind: tokOperator, Text: string(l.src[start:l.pos]), Loc: loc})
	default:
		l.advance()
		return l.emit(token{Kind: tokError, Text: "unexpected character '" + string(b) + "'", Loc: loc})
	}
}

// afterOperand reports whether the previous token could end an
// expression operand, which makes a following '-' a subtraction rather
// than a negative literal.
func (l *lexer) afterOperand() bool {
	switch l.lastKind {
	case tokIdent, tokNumber, tokString, tokRParen, tokRBracket:
		return true
	}
	return false
}

func (l *lexer) emit(t token) token {
	if t.Kind != tokComment {
		l.lastKind = t.Kind
	}
	return t
}

func (l *lexer) number(loc alfaErrors.Location) token {
	start := l.pos
	if l.peekByte() == '-' {
		l.advance()
	}
	seenDot := false
	for l.pos < len(l.src) {
		b := l.peekByte()
		if isDigit(b) {
			l.advance()
		} else if b == '.' && !seenDot && isDigit(l.peekByteAt(1)) {
			seenDot = true
			l.advance()
		} else {
			break
		}
	}
	return token{Kind: tokNumber, Text: string(l.src[start:l.pos]), Loc: loc}
}

func (l *lexer) stringLiteral(loc alfaErrors.Location) token {
	quote := l.advance()
	var sb strings.Builder
	for l.pos < len(l.src) {
		b := l.advance()
		if b == quote {
			return token{Kind: tokString, Text: sb.String(), Loc: loc}
		}
		if b == '\\' && l.pos < len(l.src) {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(b)
	}
	return token{Kind: tokError, Text: "unterminated string literal", Loc: loc}
}

func (l *lexer) lineComment(loc alfaErrors.Location) token {
	l.advance() // /
	l.advance() // /
	start := l.pos
	for l.pos < len(l.src) && l.peekByte() != '\n' {
		l.advance()
	}
	return token{Kind: tokComment, Text: strings.TrimSpace(string(l.src[start:l.pos])), Loc: loc}
}

func (l *lexer) blockComment(loc alfaErrors.Location) token {
	l.advance() // /
	l.advance() // *
	start := l.pos
	for l.pos < len(l.src) {
		if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
			text := string(l.src[start:l.pos])
			l.advance()
			l.advance()
			text = strings.Trim(text, "*")
			return token{Kind: tokComment, Text: strings.TrimSpace(text), Loc: loc}
		}
		l.advance()
	}
	return token{Kind: tokError, Text: "unterminated block comment", Loc: loc}
}
