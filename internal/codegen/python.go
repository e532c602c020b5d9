package codegen

import (
	"fmt"
	"strings"

	"github.com/programme-lv/templategen/api"
	"github.com/programme-lv/templategen/internal/format"
)

// pyExpr renders a canonical index or size expression as Python; division
// in sizes and positions is integral.
func pyExpr(s string) string {
	return strings.NewReplacer("/", "//", "^", "**").Replace(s)
}

// pyRef renders one use of a variable, e.g. "A[j][i]".
func pyRef(decls map[string]format.VarDecl, it format.Item) (string, error) {
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
		ref += "[" + pyExpr(p) + "]"
	}
	return ref, nil
}

func pyRandomValue(dims []string) string {
	if len(dims) == 0 {
		return "random.randint(1, 10 ** 9)"
	}
	return "[" + pyRandomValue(dims[1:]) + " for _ in range(" + pyExpr(dims[0]) + ")]"
}

// pyGenerateInput assigns a random value to every input variable, in
// declaration order, for generate.py.
func pyGenerateInput(data *api.TemplateData) (string, error) {
	b := &block{level: 1}
	for _, d := range data.Vars {
		b.printf("%s = %s  # TODO: edit here", d.Name, pyRandomValue(d.Dims))
	}
	return b.String(), nil
}

// pyWriteInput prints the generated variables back in input-format order.
func pyWriteInput(data *api.TemplateData) (string, error) {
	b := &block{level: 1}
	if err := pyWriteLines(b, declIndex(data), data.Input); err != nil {
		return "", err
	}
	return b.String(), nil
}

func pyWriteLines(b *block, decls map[string]format.VarDecl, n format.Node) error {
	for _, group := range format.Lines(n) {
		if len(group) == 1 {
			if loop, ok := group[0].(format.Loop); ok && format.HasNewline(loop.Body) {
				b.printf("for %s in range(%s):", loop.Counter, pyExpr(loop.Size))
				b.level++
				if err := pyWriteLines(b, decls, loop.Body); err != nil {
					return err
				}
				b.level--
				continue
			}
		}
		args := make([]string, 0, len(group))
		for _, term := range group {
			arg, err := pyPrintArg(decls, term)
			if err != nil {
				return err
			}
			args = append(args, arg)
		}
		b.printf("print(%s)", strings.Join(args, ", "))
	}
	return nil
}

func pyPrintArg(decls map[string]format.VarDecl, n format.Node) (string, error) {
	switch v := n.(type) {
	case format.Item:
		return pyRef(decls, v)
	case format.Loop:
		items, err := loopRowItems(v.Body)
		if err != nil {
			return "", err
		}
		refs := make([]string, 0, len(items))
		for _, it := range items {
			ref, err := pyRef(decls, it)
			if err != nil {
				return "", err
			}
			refs = append(refs, ref)
		}
		if len(refs) == 1 {
			return fmt.Sprintf("*[%s for %s in range(%s)]", refs[0], v.Counter, pyExpr(v.Size)), nil
		}
		return fmt.Sprintf("*[v for %s in range(%s) for v in (%s)]", v.Counter, pyExpr(v.Size), strings.Join(refs, ", ")), nil
	default:
		return "", fmt.Errorf("cannot print %T node", n)
	}
}

// loopRowItems flattens the body of an in-line loop into its items.
func loopRowItems(body format.Node) ([]format.Item, error) {
	switch v := body.(type) {
	case format.Item:
		return []format.Item{v}, nil
	case format.Sequence:
		items := make([]format.Item, 0, len(v.Items))
		for _, n := range v.Items {
			it, ok := n.(format.Item)
			if !ok {
				return nil, fmt.Errorf("unsupported %T inside an in-line loop", n)
			}
			items = append(items, it)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported %T inside an in-line loop", body)
	}
}

// pyReadInput reads the input token stream into the declared variables,
// allocating list storage right before the loop that first fills it.
func pyReadInput(data *api.TemplateData) (string, error) {
	b := &block{level: 1}
	if err := pyReadNode(b, declIndex(data), map[string]bool{}, data.Input); err != nil {
		return "", err
	}
	return b.String(), nil
}

func pyAlloc(dims []string) string {
	if len(dims) == 0 {
		return "None"
	}
	return "[" + pyAlloc(dims[1:]) + " for _ in range(" + pyExpr(dims[0]) + ")]"
}

func pyEnsureAllocated(b *block, decls map[string]format.VarDecl, allocated map[string]bool, names []string) {
	for _, name := range names {
		decl := decls[name]
		if allocated[name] || decl.IsScalar() {
			continue
		}
		b.printf("%s = %s", name, pyAlloc(decl.Dims))
		allocated[name] = true
	}
}

func pyReadNode(b *block, decls map[string]format.VarDecl, allocated map[string]bool, n format.Node) error {
	switch v := n.(type) {
	case format.Item:
		if len(v.Indices) > 0 {
			pyEnsureAllocated(b, decls, allocated, []string{v.Name})
		}
		ref, err := pyRef(decls, v)
		if err != nil {
			return err
		}
		b.printf("%s = int(next(tokens))", ref)
		return nil
	case format.Newline:
		return nil
	case format.Sequence:
		for _, item := range v.Items {
			if err := pyReadNode(b, decls, allocated, item); err != nil {
				return err
			}
		}
		return nil
	case format.Loop:
		pyEnsureAllocated(b, decls, allocated, itemNames(v.Body))
		b.printf("for %s in range(%s):", v.Counter, pyExpr(v.Size))
		b.level++
		if err := pyReadNode(b, decls, allocated, v.Body); err != nil {
			return err
		}
		b.level--
		return nil
	default:
		return fmt.Errorf("cannot read %T node", n)
	}
}

// itemNames lists the variable names of a subtree in first-use order.
func itemNames(n format.Node) []string {
	var order []string
	seen := map[string]bool{}
	var walk func(format.Node)
	walk = func(n format.Node) {
		switch v := n.(type) {
		case format.Item:
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		case format.Sequence:
			for _, item := range v.Items {
				walk(item)
			}
		case format.Loop:
			walk(v.Body)
		}
	}
	walk(n)
	return order
}

func pyType(dims int) string {
	t := "int"
	for range dims {
		t = "List[" + t + "]"
	}
	return t
}

// pySolveParams renders the solve() parameter list, e.g.
// "N: int, A: List[int]".
func pySolveParams(data *api.TemplateData) (string, error) {
	parts := make([]string, 0, len(data.Vars))
	for _, d := range data.Vars {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Name, pyType(len(d.Dims))))
	}
	return strings.Join(parts, ", "), nil
}

func pySolveArgs(data *api.TemplateData) (string, error) {
	names := make([]string, 0, len(data.Vars))
	for _, d := range data.Vars {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", "), nil
}
