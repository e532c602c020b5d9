package exprs

import (
	"fmt"
	"strconv"
	"unicode"
)

type exprTokenKind int

const (
	tokNumber exprTokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type exprToken struct {
	kind exprTokenKind
	text string
	pos  int
}

type exprParser struct {
	input  string
	tokens []exprToken
	at     int
}

// Parse reads an index expression such as "N-1", "i+1", "2N" or "N*M" into
// canonical form. Juxtaposition means multiplication, so "2N" is "2*N".
func Parse(s string) (Expr, error) {
	tokens, err := lexExpr(s)
	if err != nil {
		return Expr{}, err
	}
	p := &exprParser{input: s, tokens: tokens}
	e, err := p.parseSum()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Expr{}, fmt.Errorf("unexpected %q at offset %d in %q", tok.text, tok.pos, s)
	}
	return e, nil
}

// MustParse is Parse for expressions known to be well formed, mostly tests
// and internally constructed strings.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func lexExpr(s string) ([]exprToken, error) {
	var tokens []exprToken
	i := 0
	for i < len(s) {
		c := rune(s[i])
		switch {
		case c == ' ' || c == '\t':
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(s) && unicode.IsDigit(rune(s[j])) {
				j++
			}
			tokens = append(tokens, exprToken{kind: tokNumber, text: s[i:j], pos: i})
			i = j
		case unicode.IsLetter(c):
			j := i
			for j < len(s) && unicode.IsLetter(rune(s[j])) {
				j++
			}
			tokens = append(tokens, exprToken{kind: tokIdent, text: s[i:j], pos: i})
			i = j
		case c == '+':
			tokens = append(tokens, exprToken{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			tokens = append(tokens, exprToken{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			tokens = append(tokens, exprToken{kind: tokStar, text: "*", pos: i})
			i++
		case c == '/':
			tokens = append(tokens, exprToken{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '(':
			tokens = append(tokens, exprToken{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, exprToken{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in %q", c, i, s)
		}
	}
	tokens = append(tokens, exprToken{kind: tokEOF, text: "", pos: len(s)})
	return tokens, nil
}

func (p *exprParser) peek() exprToken {
	return p.tokens[p.at]
}

func (p *exprParser) next() exprToken {
	tok := p.tokens[p.at]
	if tok.kind != tokEOF {
		p.at++
	}
	return tok
}

func (p *exprParser) parseSum() (Expr, error) {
	var res Expr
	neg := false
	switch p.peek().kind {
	case tokMinus:
		p.next()
		neg = true
	case tokPlus:
		p.next()
	}
	res, err := p.parseProduct()
	if err != nil {
		return Expr{}, err
	}
	if neg {
		res = Sub(Const(0), res)
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.parseProduct()
			if err != nil {
				return Expr{}, err
			}
			res = Add(res, rhs)
		case tokMinus:
			p.next()
			rhs, err := p.parseProduct()
			if err != nil {
				return Expr{}, err
			}
			res = Sub(res, rhs)
		default:
			return res, nil
		}
	}
}

func (p *exprParser) parseProduct() (Expr, error) {
	res, err := p.parseFactor()
	if err != nil {
		return Expr{}, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			rhs, err := p.parseFactor()
			if err != nil {
				return Expr{}, err
			}
			res = Mul(res, rhs)
		case tokSlash:
			p.next()
			rhs, err := p.parseFactor()
			if err != nil {
				return Expr{}, err
			}
			res, err = Div(res, rhs)
			if err != nil {
				return Expr{}, err
			}
		case tokNumber, tokIdent, tokLParen:
			// juxtaposition, e.g. "2N" or "2(N+1)"
			rhs, err := p.parseFactor()
			if err != nil {
				return Expr{}, err
			}
			res = Mul(res, rhs)
		default:
			return res, nil
		}
	}
}

func (p *exprParser) parseFactor() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return Expr{}, fmt.Errorf("number %q out of range in %q", tok.text, p.input)
		}
		return Const(n), nil
	case tokIdent:
		return Var(tok.text), nil
	case tokMinus:
		inner, err := p.parseFactor()
		if err != nil {
			return Expr{}, err
		}
		return Sub(Const(0), inner), nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return Expr{}, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return Expr{}, fmt.Errorf("missing closing paren in %q", p.input)
		}
		return inner, nil
	case tokEOF:
		return Expr{}, fmt.Errorf("unexpected end of expression in %q", p.input)
	default:
		return Expr{}, fmt.Errorf("unexpected %q at offset %d in %q", tok.text, tok.pos, p.input)
	}
}

// Canonical reparses s and renders its canonical form, so that any two
// spellings of the same index compare equal as strings.
func Canonical(s string) (string, error) {
	e, err := Parse(s)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}
