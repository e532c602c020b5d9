package analyzer

import "fmt"

// LexError reports an unexpected character in a format string.
type LexError struct {
	Ch   rune
	Line int
	Col  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at line %d column %d", e.Ch, e.Line, e.Col)
}

// ParseError reports an unexpected token in a format string.
type ParseError struct {
	Token string
	Text  string
	Line  int
	Col   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected token %s %q at line %d column %d", e.Token, e.Text, e.Line, e.Col)
}

// FormatError reports a format string that lexes and parses but cannot be
// given a meaning, e.g. dots between structurally different lines.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return e.Msg }

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}
