package analyzer

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tkNewline tokenKind = iota
	tkIdent
	tkNumber
	tkUnderscore
	tkLBrace
	tkRBrace
	tkComma
	tkAdd
	tkSub
	tkMul
	tkDiv
	tkDots
	tkVdots
	tkEOF
)

func (k tokenKind) String() string {
	switch k {
	case tkNewline:
		return "NEWLINE"
	case tkIdent:
		return "IDENT"
	case tkNumber:
		return "NUMBER"
	case tkUnderscore:
		return "UNDERSCORE"
	case tkLBrace:
		return "LBRACE"
	case tkRBrace:
		return "RBRACE"
	case tkComma:
		return "COMMA"
	case tkAdd:
		return "ADD"
	case tkSub:
		return "SUB"
	case tkMul:
		return "MUL"
	case tkDiv:
		return "DIV"
	case tkDots:
		return "DOTS"
	case tkVdots:
		return "VDOTS"
	case tkEOF:
		return "EOF"
	}
	return "UNKNOWN"
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// texCommands maps the TeX commands that carry meaning in a format string
// to their token kind; spacing commands are handled inline by the lexer.
var texCommands = map[string]tokenKind{
	"times": tkMul,
	"dots":  tkDots,
	"ldots": tkDots,
	"cdots": tkDots,
	"vdots": tkVdots,
}

// lexFormat tokenizes the text of a format <pre> block. Spaces, tabs, `$`
// and TeX spacing are ignored; `...`, `…`, `\dots` and friends all read as
// DOTS, `:`, `⋮` and `\vdots` as VDOTS.
func lexFormat(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	line, col := 1, 1
	i := 0

	emit := func(kind tokenKind, text string) {
		tokens = append(tokens, token{kind: kind, text: text, line: line, col: col})
	}

	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\n':
			emit(tkNewline, "\n")
			i++
			line++
			col = 1
			continue
		case c == '\r':
			// part of \r\n; bare \r also ends a line
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
				continue
			}
			emit(tkNewline, "\n")
			i++
			line++
			col = 1
			continue
		case c == ' ' || c == '\t' || c == '$' || c == '~':
			i++
			col++
			continue
		case c == '\\':
			j := i + 1
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := string(runes[i+1 : j])
			if word == "" {
				// \  \, \; are TeX spacing
				if j < len(runes) && (runes[j] == ' ' || runes[j] == ',' || runes[j] == ';') {
					i = j + 1
					col += 2
					continue
				}
				return nil, &LexError{Ch: c, Line: line, Col: col}
			}
			kind, ok := texCommands[word]
			if !ok {
				return nil, &LexError{Ch: c, Line: line, Col: col}
			}
			emit(kind, "\\"+word)
			col += j - i
			i = j
			continue
		case c == '…':
			emit(tkDots, "…")
		case c == '⋮':
			emit(tkVdots, "⋮")
		case c == '.':
			j := i
			for j < len(runes) && runes[j] == '.' {
				j++
			}
			if j-i < 2 {
				return nil, &LexError{Ch: c, Line: line, Col: col}
			}
			emit(tkDots, strings.Repeat(".", j-i))
			col += j - i
			i = j
			continue
		case c == ':':
			emit(tkVdots, ":")
		case c == '_':
			emit(tkUnderscore, "_")
		case c == '{':
			emit(tkLBrace, "{")
		case c == '}':
			emit(tkRBrace, "}")
		case c == ',':
			emit(tkComma, ",")
		case c == '+':
			emit(tkAdd, "+")
		case c == '-':
			emit(tkSub, "-")
		case c == '*' || c == '×':
			emit(tkMul, "*")
		case c == '/':
			emit(tkDiv, "/")
		case unicode.IsLetter(c) && c < 128:
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) && runes[j] < 128 {
				j++
			}
			emit(tkIdent, string(runes[i:j]))
			col += j - i
			i = j
			continue
		case unicode.IsDigit(c):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			emit(tkNumber, string(runes[i:j]))
			col += j - i
			i = j
			continue
		default:
			return nil, &LexError{Ch: c, Line: line, Col: col}
		}
		i++
		col++
	}
	tokens = append(tokens, token{kind: tkEOF, text: "", line: line, col: col})
	return tokens, nil
}
