package codegen

import (
	"fmt"
	"strings"

	"github.com/programme-lv/templategen/api"
	"github.com/programme-lv/templategen/internal/format"
)

func cppType(dims int) string {
	t := "int64_t"
	for range dims {
		t = "vector<" + t + ">"
	}
	return t
}

// cppDecl renders the storage declaration for one variable, sized by its
// dimension expressions: "int64_t N;", "vector<int64_t> A(N);",
// "vector<vector<int64_t>> A(H, vector<int64_t>(W));".
func cppDecl(d format.VarDecl) string {
	if d.IsScalar() {
		return fmt.Sprintf("int64_t %s;", d.Name)
	}
	return fmt.Sprintf("%s %s(%s);", cppType(len(d.Dims)), d.Name, cppDims(d.Dims))
}

func cppDims(dims []string) string {
	if len(dims) == 1 {
		return dims[0]
	}
	return dims[0] + ", " + cppType(len(dims)-1) + "(" + cppDims(dims[1:]) + ")"
}

// cppRef renders one use of a variable, e.g. "A[j][i]".
func cppRef(decls map[string]format.VarDecl, it format.Item) (string, error) {
	decl, ok := decls[it.Name]
	if !ok {
		return "", fmt.Errorf("variable %s has no declaration", it.Name)
	}
	pos, err := format.Position(decl, it)
	if err != nil {
		return "", err
	}
	ref := it.Name
	for _, p := range pos {
		ref += "[" + p + "]"
	}
	return ref, nil
}

func cppEnsureDeclared(b *block, decls map[string]format.VarDecl, declared map[string]bool, names []string) {
	for _, name := range names {
		if declared[name] {
			continue
		}
		b.printf("%s", cppDecl(decls[name]))
		declared[name] = true
	}
}

// cppReadInput declares every variable right before its first read and
// mirrors the format tree with cin chains and REP loops.
func cppReadInput(data *api.TemplateData) (string, error) {
	b := &block{level: 1}
	if err := cppReadLines(b, declIndex(data), map[string]bool{}, data.Input); err != nil {
		return "", err
	}
	return b.String(), nil
}

func cppReadLines(b *block, decls map[string]format.VarDecl, declared map[string]bool, n format.Node) error {
	for _, group := range format.Lines(n) {
		if len(group) == 1 {
			if loop, ok := group[0].(format.Loop); ok && format.HasNewline(loop.Body) {
				cppEnsureDeclared(b, decls, declared, itemNames(loop.Body))
				b.printf("REP(%s, %s) {", loop.Counter, loop.Size)
				b.level++
				if err := cppReadLines(b, decls, declared, loop.Body); err != nil {
					return err
				}
				b.level--
				b.printf("}")
				continue
			}
		}

		var refs []string
		flush := func() {
			if len(refs) > 0 {
				b.printf("cin >> %s;", strings.Join(refs, " >> "))
				refs = nil
			}
		}
		for _, term := range group {
			switch v := term.(type) {
			case format.Item:
				cppEnsureDeclared(b, decls, declared, []string{v.Name})
				ref, err := cppRef(decls, v)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			case format.Loop:
				// the loop's size may depend on values still in the chain
				flush()
				cppEnsureDeclared(b, decls, declared, itemNames(v.Body))
				items, err := loopRowItems(v.Body)
				if err != nil {
					return err
				}
				inner := make([]string, 0, len(items))
				for _, it := range items {
					ref, err := cppRef(decls, it)
					if err != nil {
						return err
					}
					inner = append(inner, ref)
				}
				b.printf("REP(%s, %s) {", v.Counter, v.Size)
				b.level++
				b.printf("cin >> %s;", strings.Join(inner, " >> "))
				b.level--
				b.printf("}")
			default:
				return fmt.Errorf("cannot read %T node", term)
			}
		}
		flush()
	}
	return nil
}

// cppSolveParams renders the solve() parameter list, e.g.
// "int64_t N, const vector<int64_t> &A".
func cppSolveParams(data *api.TemplateData) (string, error) {
	parts := make([]string, 0, len(data.Vars))
	for _, d := range data.Vars {
		if d.IsScalar() {
			parts = append(parts, fmt.Sprintf("int64_t %s", d.Name))
		} else {
			parts = append(parts, fmt.Sprintf("const %s &%s", cppType(len(d.Dims)), d.Name))
		}
	}
	return strings.Join(parts, ", "), nil
}

func cppSolveArgs(data *api.TemplateData) (string, error) {
	names := make([]string, 0, len(data.Vars))
	for _, d := range data.Vars {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", "), nil
}
