package format

import (
	"fmt"

	"github.com/programme-lv/templategen/internal/exprs"
)

// VarDecl describes the storage one input variable needs: its dimension
// sizes (by subscript position) and the first index along each dimension.
// A plain scalar has no dims. For A_1 A_2 ... A_N the declaration is
// Dims=["N"], Bases=["1"].
type VarDecl struct {
	Name  string
	Dims  []string
	Bases []string
}

// IsScalar reports whether the variable carries no subscripts anywhere.
func (d VarDecl) IsScalar() bool { return len(d.Dims) == 0 }

type loopFrame struct {
	counter string
	size    string
}

// dimKind distinguishes how a subscript position gets its size.
type dimKind int

const (
	dimLoop  dimKind = iota // index is counter+base inside a loop
	dimConst                // constant subscripts, size spans min..max
	dimExpr                 // single symbolic subscript, size 1
)

type dimInfo struct {
	kind dimKind
	size string // dimLoop only
	base string // dimLoop, dimExpr
	min  int64  // dimConst
	max  int64  // dimConst
}

type varBuilder struct {
	name string
	dims []dimInfo
}

// Vars derives the variable declarations of a format tree. It fails when a
// variable's uses disagree (different subscript counts, conflicting loop
// dimensions) or when a subscript cannot be tied to a single loop counter.
func Vars(root Node) ([]VarDecl, error) {
	order := []string{}
	builders := map[string]*varBuilder{}
	if err := collectVars(root, nil, &order, builders); err != nil {
		return nil, err
	}

	decls := make([]VarDecl, 0, len(order))
	for _, name := range order {
		b := builders[name]
		decl := VarDecl{Name: name}
		for _, d := range b.dims {
			switch d.kind {
			case dimLoop:
				decl.Dims = append(decl.Dims, d.size)
				decl.Bases = append(decl.Bases, d.base)
			case dimConst:
				decl.Dims = append(decl.Dims, exprs.Const(d.max-d.min+1).String())
				decl.Bases = append(decl.Bases, exprs.Const(d.min).String())
			case dimExpr:
				decl.Dims = append(decl.Dims, "1")
				decl.Bases = append(decl.Bases, d.base)
			}
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func collectVars(n Node, loops []loopFrame, order *[]string, builders map[string]*varBuilder) error {
	switch v := n.(type) {
	case Item:
		return recordUse(v, loops, order, builders)
	case Newline:
		return nil
	case Sequence:
		for _, item := range v.Items {
			if err := collectVars(item, loops, order, builders); err != nil {
				return err
			}
		}
		return nil
	case Loop:
		return collectVars(v.Body, append(loops, loopFrame{counter: v.Counter, size: v.Size}), order, builders)
	default:
		panic(fmt.Sprintf("unknown format node %T", n))
	}
}

func recordUse(it Item, loops []loopFrame, order *[]string, builders map[string]*varBuilder) error {
	dims, err := classifyUse(it, loops)
	if err != nil {
		return err
	}

	b, seen := builders[it.Name]
	if !seen {
		builders[it.Name] = &varBuilder{name: it.Name, dims: dims}
		*order = append(*order, it.Name)
		return nil
	}
	if len(b.dims) != len(dims) {
		return fmt.Errorf("variable %s is used with both %d and %d subscripts", it.Name, len(b.dims), len(dims))
	}
	for i := range dims {
		if err := mergeDim(&b.dims[i], dims[i]); err != nil {
			return fmt.Errorf("variable %s subscript %d: %w", it.Name, i+1, err)
		}
	}
	return nil
}

func classifyUse(it Item, loops []loopFrame) ([]dimInfo, error) {
	counters := map[string]loopFrame{}
	for _, fr := range loops {
		counters[fr.counter] = fr
	}

	dims := make([]dimInfo, 0, len(it.Indices))
	usedCounters := map[string]bool{}
	for _, raw := range it.Indices {
		idx, err := exprs.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %s has malformed subscript %q: %w", it.Name, raw, err)
		}

		var counter string
		for _, name := range idx.Names() {
			if _, ok := counters[name]; !ok {
				continue
			}
			if counter != "" {
				return nil, fmt.Errorf("variable %s subscript %q mixes loop counters %s and %s", it.Name, raw, counter, name)
			}
			counter = name
		}

		switch {
		case counter != "":
			if usedCounters[counter] {
				return nil, fmt.Errorf("variable %s uses counter %s in two subscripts", it.Name, counter)
			}
			usedCounters[counter] = true
			base := exprs.Subst(idx, counter, exprs.Const(0))
			if !exprs.Equal(idx, exprs.Add(base, exprs.Var(counter))) {
				return nil, fmt.Errorf("variable %s subscript %q is not linear in counter %s", it.Name, raw, counter)
			}
			dims = append(dims, dimInfo{kind: dimLoop, size: counters[counter].size, base: base.String()})
		case idx.IsConst():
			val, err := idx.Eval(nil)
			if err != nil {
				return nil, fmt.Errorf("variable %s has non-integer subscript %q", it.Name, raw)
			}
			dims = append(dims, dimInfo{kind: dimConst, min: val, max: val})
		default:
			dims = append(dims, dimInfo{kind: dimExpr, base: idx.String()})
		}
	}
	return dims, nil
}

func mergeDim(into *dimInfo, use dimInfo) error {
	if into.kind != use.kind {
		return fmt.Errorf("subscript takes mixed forms across uses")
	}
	switch into.kind {
	case dimLoop:
		if into.size != use.size || into.base != use.base {
			return fmt.Errorf("conflicting dimensions (%s from %s vs %s from %s)", into.size, into.base, use.size, use.base)
		}
	case dimConst:
		if use.min < into.min {
			into.min = use.min
		}
		if use.max > into.max {
			into.max = use.max
		}
	case dimExpr:
		if into.base != use.base {
			return fmt.Errorf("conflicting symbolic subscripts %s and %s", into.base, use.base)
		}
	}
	return nil
}

// Position maps one use of a variable to zero-based positions within its
// declared storage: the canonical form of index minus base, per dimension.
func Position(decl VarDecl, it Item) ([]string, error) {
	if len(it.Indices) != len(decl.Dims) {
		return nil, fmt.Errorf("variable %s use has %d subscripts, declaration has %d", it.Name, len(it.Indices), len(decl.Dims))
	}
	out := make([]string, 0, len(it.Indices))
	for i, raw := range it.Indices {
		idx, err := exprs.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %s subscript %q: %w", it.Name, raw, err)
		}
		base, err := exprs.Parse(decl.Bases[i])
		if err != nil {
			return nil, fmt.Errorf("variable %s base %q: %w", it.Name, decl.Bases[i], err)
		}
		out = append(out, exprs.Sub(idx, base).String())
	}
	return out, nil
}
