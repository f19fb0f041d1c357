package formula

import (
	"fmt"
	"strings"
)

// ParseError is returned for any formula outside the supported grammar.
type ParseError struct {
	Formula string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid formula %q: %s", e.Formula, e.Message)
}

var functionArity = map[FuncName]int{
	FuncRoundUp:   1,
	FuncRoundDown: 1,
	FuncRound:     1,
	FuncMax:       2,
	FuncMin:       2,
}

type parser struct {
	formula string
	lex     *lexer
	current token
}

// Parse compiles a formula string into an expression tree. The grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = NUMBER | "[" name "]" | "(" expr ")" | ("+" | "-") factor | FUNC "(" args ")"
//
// Function names are case-insensitive. Anything else is a ParseError.
func Parse(input string) (Node, error) {
	p := &parser{formula: input, lex: newLexer(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.current.kind != tokenEOF {
		return nil, p.errorf("unexpected %q at position %d", p.current.text, p.current.pos)
	}
	return node, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return &ParseError{Formula: p.formula, Message: err.Error()}
	}
	p.current = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Formula: p.formula, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.current.kind == tokenOperator && (p.current.text == "+" || p.current.text == "-") {
		op := rune(p.current.text[0])
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.current.kind == tokenOperator && (p.current.text == "*" || p.current.text == "/") {
		op := rune(p.current.text[0])
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (Node, error) {
	switch p.current.kind {
	case tokenNumber:
		node := &NumberLit{Value: p.current.value}
		return node, p.advance()

	case tokenVariable:
		node := &VarRef{Name: NormalizeName(p.current.text)}
		return node, p.advance()

	case tokenOperator:
		if p.current.text == "+" || p.current.text == "-" {
			op := rune(p.current.text[0])
			if err := p.advance(); err != nil {
				return nil, err
			}
			operand, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{Op: op, Operand: operand}, nil
		}
		return nil, p.errorf("unexpected operator %q at position %d", p.current.text, p.current.pos)

	case tokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.current.kind != tokenRightParen {
			return nil, p.errorf("expected ')' at position %d", p.current.pos)
		}
		return node, p.advance()

	case tokenIdent:
		return p.parseCall()

	case tokenEOF:
		return nil, p.errorf("unexpected end of formula")

	default:
		return nil, p.errorf("unexpected %q at position %d", p.current.text, p.current.pos)
	}
}

func (p *parser) parseCall() (Node, error) {
	name := FuncName(strings.ToUpper(p.current.text))
	arity, ok := functionArity[name]
	if !ok {
		return nil, p.errorf("unknown function %q at position %d", p.current.text, p.current.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.kind != tokenLeftParen {
		return nil, p.errorf("expected '(' after %s", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	args := make([]Node, 0, arity)
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current.kind == tokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if p.current.kind != tokenRightParen {
		return nil, p.errorf("expected ')' to close %s call", name)
	}
	if len(args) != arity {
		return nil, p.errorf("%s expects %d argument(s), got %d", name, arity, len(args))
	}
	return &CallExpr{Func: name, Args: args}, p.advance()
}
