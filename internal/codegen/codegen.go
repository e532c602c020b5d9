// Package codegen renders solution scaffolds and input generator scripts
// from an analyzed format tree. Templates are embedded; language-specific
// code (reading loops, random assignment, declarations) is produced by the
// emitters in python.go and cplusplus.go, exposed to the templates through
// a FuncMap.
package codegen

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/programme-lv/templategen/api"
	"github.com/programme-lv/templategen/internal/format"
	"github.com/programme-lv/templategen/internal/judge"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("codegen").Funcs(template.FuncMap{
	"pyGenerateInput": pyGenerateInput,
	"pyWriteInput":    pyWriteInput,
	"pyReadInput":     pyReadInput,
	"pySolveParams":   pySolveParams,
	"pySolveArgs":     pySolveArgs,
	"cppReadInput":    cppReadInput,
	"cppSolveParams":  cppSolveParams,
	"cppSolveArgs":    cppSolveArgs,
}).ParseFS(templatesFS, "templates/*.tmpl"))

// List returns the available template names, e.g. "main.cpp".
func List() []string {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded templates: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

// NewData assembles the template data for one problem. Vars are derived
// from the tree; a nil tree (failed analysis) leaves Input and Vars unset.
func NewData(url, judgeName, problemID string, input format.Node, samples []judge.Sample) (*api.TemplateData, error) {
	data := &api.TemplateData{
		URL:       url,
		Judge:     judgeName,
		ProblemID: problemID,
		Input:     input,
		About:     About(),
	}
	for _, s := range samples {
		data.Samples = append(data.Samples, api.Sample{Input: s.Input, Output: s.Output})
	}
	if input != nil {
		vars, err := format.Vars(input)
		if err != nil {
			return nil, fmt.Errorf("failed to derive variables: %w", err)
		}
		data.Vars = vars
	}
	return data, nil
}

// Render executes the named template and pipes the result through its
// post-render filter (clang-format, yapf) when one is installed.
func Render(ctx context.Context, name string, data *api.TemplateData) ([]byte, error) {
	if data.Input == nil {
		return nil, fmt.Errorf("no analyzed input format for %s", data.URL)
	}
	tmpl := templates.Lookup(name + ".tmpl")
	if tmpl == nil {
		return nil, fmt.Errorf("unknown template %q (have: %s)", name, strings.Join(List(), ", "))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return applyFilter(ctx, name, buf.Bytes()), nil
}

// declIndex maps variable names to their declarations for the emitters.
func declIndex(data *api.TemplateData) map[string]format.VarDecl {
	decls := make(map[string]format.VarDecl, len(data.Vars))
	for _, d := range data.Vars {
		decls[d.Name] = d
	}
	return decls
}

// block accumulates indented source lines (4-space units).
type block struct {
	level int
	lines []string
}

func (b *block) printf(format string, args ...any) {
	b.lines = append(b.lines, strings.Repeat("    ", b.level)+fmt.Sprintf(format, args...))
}

func (b *block) String() string { return strings.Join(b.lines, "\n") }
