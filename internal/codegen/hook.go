package codegen

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
)

// yapfStyle keeps yapf from re-wrapping generated lines.
const yapfStyle = "{BASED_ON_STYLE: google, COLUMN_LIMIT: 9999}"

// filters maps each template to the formatter its output is piped through
// when the tool is installed.
var filters = map[string][]string{
	"main.cpp":    {"clang-format"},
	"main.py":     {"yapf", "--style", yapfStyle},
	"generate.py": {"yapf", "--style", yapfStyle},
}

// applyFilter pipes src through the template's formatter. A missing
// formatter or a filter failure leaves the text unchanged.
func applyFilter(ctx context.Context, name string, src []byte) []byte {
	argv, ok := filters[name]
	if !ok {
		return src
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return src
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewReader(src)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		slog.Warn("post-render filter failed",
			"command", argv[0], "error", err, "stderr", stderr.String())
		return src
	}
	return out.Bytes()
}
