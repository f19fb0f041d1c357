package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenVariable
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
)

type token struct {
	kind  tokenKind
	text  string
	value float64 // set for tokenNumber
	pos   int
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == '+' || ch == '-' || ch == '*' || ch == '/':
		l.pos++
		return token{kind: tokenOperator, text: string(ch), pos: start}, nil
	case ch == '(':
		l.pos++
		return token{kind: tokenLeftParen, text: "(", pos: start}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokenRightParen, text: ")", pos: start}, nil
	case ch == ',':
		l.pos++
		return token{kind: tokenComma, text: ",", pos: start}, nil
	case ch == '[':
		end := strings.IndexByte(l.input[l.pos:], ']')
		if end < 0 {
			return token{}, fmt.Errorf("unterminated variable reference at position %d", start)
		}
		name := l.input[l.pos+1 : l.pos+end]
		if strings.TrimSpace(name) == "" {
			return token{}, fmt.Errorf("empty variable reference at position %d", start)
		}
		l.pos += end + 1
		return token{kind: tokenVariable, text: name, pos: start}, nil
	case ch >= '0' && ch <= '9' || ch == '.':
		for l.pos < len(l.input) && (l.input[l.pos] >= '0' && l.input[l.pos] <= '9' || l.input[l.pos] == '.') {
			l.pos++
		}
		text := l.input[start:l.pos]
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, fmt.Errorf("invalid number %q at position %d", text, start)
		}
		return token{kind: tokenNumber, text: text, value: value, pos: start}, nil
	case isIdentStart(rune(ch)):
		for l.pos < len(l.input) && isIdentRune(rune(l.input[l.pos])) {
			l.pos++
		}
		return token{kind: tokenIdent, text: l.input[start:l.pos], pos: start}, nil
	default:
		return token{}, fmt.Errorf("unexpected character %q at position %d", string(ch), start)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
