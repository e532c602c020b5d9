package analyzer

import (
	"fmt"
	"strings"
)

// Pos is a line/column position within a format string.
type Pos struct {
	Line int
	Col  int
}

// Tree is a raw parse tree node, before dots are resolved into loops.
type Tree interface {
	Pos() Pos
	treeString() string
}

// SeqTree is an ordered run of parse tree nodes.
type SeqTree struct {
	Items []Tree
	At    Pos
}

// ItemTree is a variable occurrence with raw (unsimplified) subscripts.
type ItemTree struct {
	Name    string
	Indices []string
	At      Pos
}

// NewlineTree is an end-of-line marker.
type NewlineTree struct {
	At Pos
}

// DotsTree is a `first ... last` repetition, horizontal or vertical.
type DotsTree struct {
	First Tree
	Last  Tree
	At    Pos
}

func (t SeqTree) Pos() Pos     { return t.At }
func (t ItemTree) Pos() Pos    { return t.At }
func (t NewlineTree) Pos() Pos { return t.At }
func (t DotsTree) Pos() Pos    { return t.At }

func (t SeqTree) treeString() string {
	parts := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		parts = append(parts, it.treeString())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (t ItemTree) treeString() string {
	if len(t.Indices) == 0 {
		return t.Name
	}
	return t.Name + "_{" + strings.Join(t.Indices, ",") + "}"
}

func (t NewlineTree) treeString() string { return "<nl>" }

func (t DotsTree) treeString() string {
	return fmt.Sprintf("dots(%s, %s)", t.First.treeString(), t.Last.treeString())
}

type parser struct {
	tokens []token
	at     int
}

// parseFormat builds the parse tree for a tokenized format string.
//
// Grammar, as in the original analyzer:
//
//	main  : lines main | lines
//	lines : line | line VDOTS NEWLINE line | line DOTS NEWLINE line
//	line  : items NEWLINE
//	items : item DOTS item items | item DOTS item | item items | item
//	item  : IDENT | IDENT _ NUMBER | IDENT _ IDENT | IDENT _ { exprs }
func parseFormat(tokens []token) (Tree, error) {
	p := &parser{tokens: tokens}
	var lines []Tree
	first := p.peek()
	for p.peek().kind != tkEOF {
		ln, err := p.parseLines()
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		return nil, &ParseError{Token: tkEOF.String(), Text: "", Line: first.line, Col: first.col}
	}
	return SeqTree{Items: lines, At: pos(first)}, nil
}

func pos(t token) Pos { return Pos{Line: t.line, Col: t.col} }

func (p *parser) peek() token { return p.tokens[p.at] }

func (p *parser) next() token {
	t := p.tokens[p.at]
	if t.kind != tkEOF {
		p.at++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return token{}, &ParseError{Token: t.kind.String(), Text: t.text, Line: t.line, Col: t.col}
	}
	return t, nil
}

// lines : line | line VDOTS NEWLINE line | line DOTS NEWLINE line
func (p *parser) parseLines() (Tree, error) {
	first, err := p.parseLine()
	if err != nil {
		return nil, err
	}
	k := p.peek().kind
	if k != tkVdots && k != tkDots {
		return first, nil
	}
	dotsTok := p.next()
	if _, err := p.expect(tkNewline); err != nil {
		return nil, err
	}
	last, err := p.parseLine()
	if err != nil {
		return nil, err
	}
	return DotsTree{First: first, Last: last, At: pos(dotsTok)}, nil
}

// line : items NEWLINE
func (p *parser) parseLine() (Tree, error) {
	start := p.peek()
	items, err := p.parseItems()
	if err != nil {
		return nil, err
	}
	nl, err := p.expect(tkNewline)
	if err != nil {
		return nil, err
	}
	items = append(items, NewlineTree{At: pos(nl)})
	return SeqTree{Items: items, At: pos(start)}, nil
}

// items : item DOTS item items | item DOTS item | item items | item
func (p *parser) parseItems() ([]Tree, error) {
	var items []Tree
	for {
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if p.peek().kind == tkDots {
			dotsTok := p.next()
			last, err := p.parseItem()
			if err != nil {
				return nil, err
			}
			items = append(items, DotsTree{First: it, Last: last, At: pos(dotsTok)})
		} else {
			items = append(items, it)
		}
		if p.peek().kind != tkIdent {
			return items, nil
		}
	}
}

// item : IDENT | IDENT _ NUMBER | IDENT _ IDENT | IDENT _ { exprs }
func (p *parser) parseItem() (Tree, error) {
	name, err := p.expect(tkIdent)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkUnderscore {
		return ItemTree{Name: name.text, At: pos(name)}, nil
	}
	p.next()
	switch t := p.peek(); t.kind {
	case tkNumber, tkIdent:
		p.next()
		return ItemTree{Name: name.text, Indices: []string{t.text}, At: pos(name)}, nil
	case tkLBrace:
		p.next()
		indices, err := p.parseExprs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkRBrace); err != nil {
			return nil, err
		}
		return ItemTree{Name: name.text, Indices: indices, At: pos(name)}, nil
	default:
		return nil, &ParseError{Token: t.kind.String(), Text: t.text, Line: t.line, Col: t.col}
	}
}

// exprs : expr COMMA exprs | expr
func (p *parser) parseExprs() ([]string, error) {
	var out []string
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.peek().kind != tkComma {
			return out, nil
		}
		p.next()
	}
}

// expr : IDENT | NUMBER | NUMBER IDENT | IDENT binop expr | NUMBER binop expr
//
// The result is an expression string; `NUMBER IDENT` is implicit
// multiplication, so `2N` yields "2 * N".
func (p *parser) parseExpr() (string, error) {
	t := p.next()
	if t.kind != tkIdent && t.kind != tkNumber {
		return "", &ParseError{Token: t.kind.String(), Text: t.text, Line: t.line, Col: t.col}
	}
	if t.kind == tkNumber && p.peek().kind == tkIdent {
		id := p.next()
		return t.text + " * " + id.text, nil
	}
	if op, ok := binopText(p.peek().kind); ok {
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return "", err
		}
		return t.text + " " + op + " " + rhs, nil
	}
	return t.text, nil
}

func binopText(k tokenKind) (string, bool) {
	switch k {
	case tkAdd:
		return "+", true
	case tkSub:
		return "-", true
	case tkMul:
		return "*", true
	case tkDiv:
		return "/", true
	}
	return "", false
}
