// Package analyzer turns the input-format description of a programming
// problem (the <pre> block of its statement) into a format tree. The
// pipeline is lex -> parse -> analyze; see Run.
package analyzer

import (
	"log/slog"
	"strings"

	"github.com/programme-lv/templategen/internal/format"
	"github.com/programme-lv/templategen/internal/judge"
)

// Run analyzes one format string, e.g. "N M\nA_1 A_2 ... A_N\n".
func Run(formatText string) (format.Node, error) {
	pre := strings.TrimRight(formatText, " \t\r\n") + "\n"
	slog.Debug("analyzing format string", "format", pre)

	tokens, err := lexFormat(pre)
	if err != nil {
		return nil, err
	}
	slog.Debug("lexed format string", "tokens", len(tokens))

	tree, err := parseFormat(tokens)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed format string", "tree", tree.treeString())

	ast, err := analyze(tree)
	if err != nil {
		return nil, err
	}
	slog.Debug("analyzed format string", "ast", ast.String())

	return ast, nil
}

// Analyze extracts the input format section from a problem page and runs
// the analysis on it.
func Analyze(j judge.Judge, doc *judge.Document) (format.Node, error) {
	pre, err := j.ExtractFormat(doc)
	if err != nil {
		return nil, err
	}
	return Run(pre)
}
