// Package exprs implements the small symbolic algebra the format analyzer
// needs for index expressions: multivariate polynomials with rational
// coefficients, canonical enough that two renderings of the same index
// (say "N-1+1" and "N") compare equal.
package exprs

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is an immutable polynomial in canonical form. The zero value is the
// constant 0.
type Expr struct {
	terms map[string]term
}

type term struct {
	coeff *big.Rat
	vars  map[string]int
}

func newExpr() Expr {
	return Expr{terms: map[string]term{}}
}

// Const returns a constant expression.
func Const(n int64) Expr {
	e := newExpr()
	e.add(term{coeff: big.NewRat(n, 1), vars: nil})
	return e
}

// Var returns a single-variable expression.
func Var(name string) Expr {
	e := newExpr()
	e.add(term{coeff: big.NewRat(1, 1), vars: map[string]int{name: 1}})
	return e
}

func monoKey(vars map[string]int) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if p := vars[name]; p == 1 {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("%s^%d", name, p))
		}
	}
	return strings.Join(parts, "*")
}

func (e *Expr) add(t term) {
	if e.terms == nil {
		e.terms = map[string]term{}
	}
	key := monoKey(t.vars)
	if cur, ok := e.terms[key]; ok {
		sum := new(big.Rat).Add(cur.coeff, t.coeff)
		if sum.Sign() == 0 {
			delete(e.terms, key)
			return
		}
		e.terms[key] = term{coeff: sum, vars: cur.vars}
		return
	}
	if t.coeff.Sign() == 0 {
		return
	}
	cp := make(map[string]int, len(t.vars))
	for k, v := range t.vars {
		cp[k] = v
	}
	e.terms[key] = term{coeff: new(big.Rat).Set(t.coeff), vars: cp}
}

// Add returns a+b.
func Add(a, b Expr) Expr {
	res := newExpr()
	for _, t := range a.terms {
		res.add(t)
	}
	for _, t := range b.terms {
		res.add(t)
	}
	return res
}

// Sub returns a-b.
func Sub(a, b Expr) Expr {
	res := newExpr()
	for _, t := range a.terms {
		res.add(t)
	}
	for _, t := range b.terms {
		res.add(term{coeff: new(big.Rat).Neg(t.coeff), vars: t.vars})
	}
	return res
}

// Mul returns a*b.
func Mul(a, b Expr) Expr {
	res := newExpr()
	for _, ta := range a.terms {
		for _, tb := range b.terms {
			vars := make(map[string]int, len(ta.vars)+len(tb.vars))
			for k, v := range ta.vars {
				vars[k] = v
			}
			for k, v := range tb.vars {
				vars[k] += v
			}
			res.add(term{coeff: new(big.Rat).Mul(ta.coeff, tb.coeff), vars: vars})
		}
	}
	return res
}

// Div returns a/b. Only division by a nonzero constant is defined; index
// expressions never divide by a variable.
func Div(a, b Expr) (Expr, error) {
	c, ok := b.constValue()
	if !ok {
		return Expr{}, fmt.Errorf("division by non-constant expression %s", b.String())
	}
	if c.Sign() == 0 {
		return Expr{}, fmt.Errorf("division by zero")
	}
	inv := new(big.Rat).Inv(c)
	res := newExpr()
	for _, t := range a.terms {
		res.add(term{coeff: new(big.Rat).Mul(t.coeff, inv), vars: t.vars})
	}
	return res, nil
}

// AddConst returns e+n.
func AddConst(e Expr, n int64) Expr {
	return Add(e, Const(n))
}

func (e Expr) constValue() (*big.Rat, bool) {
	switch len(e.terms) {
	case 0:
		return big.NewRat(0, 1), true
	case 1:
		t, ok := e.terms[""]
		if !ok {
			return nil, false
		}
		return t.coeff, true
	default:
		return nil, false
	}
}

// IsConst reports whether e has no free variables.
func (e Expr) IsConst() bool {
	_, ok := e.constValue()
	return ok
}

// Equal reports whether two expressions expand to the same polynomial.
func Equal(a, b Expr) bool {
	if len(a.terms) != len(b.terms) {
		return false
	}
	for key, ta := range a.terms {
		tb, ok := b.terms[key]
		if !ok || ta.coeff.Cmp(tb.coeff) != 0 {
			return false
		}
	}
	return true
}

// Names returns the free variable names of e in sorted order.
func (e Expr) Names() []string {
	seen := map[string]struct{}{}
	for _, t := range e.terms {
		for name := range t.vars {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subst replaces every occurrence of name with repl.
func Subst(e Expr, name string, repl Expr) Expr {
	res := newExpr()
	for _, t := range e.terms {
		part := newExpr()
		rest := make(map[string]int, len(t.vars))
		pow := 0
		for k, v := range t.vars {
			if k == name {
				pow = v
			} else {
				rest[k] = v
			}
		}
		part.add(term{coeff: t.coeff, vars: rest})
		sub := part
		for i := 0; i < pow; i++ {
			sub = Mul(sub, repl)
		}
		for _, st := range sub.terms {
			res.add(st)
		}
	}
	return res
}

// Eval computes the integer value of e under the given variable bindings.
// It fails on unbound names and on results that are not integers.
func (e Expr) Eval(env map[string]int64) (int64, error) {
	total := new(big.Rat)
	for _, t := range e.terms {
		part := new(big.Rat).Set(t.coeff)
		for name, pow := range t.vars {
			val, ok := env[name]
			if !ok {
				return 0, fmt.Errorf("unbound variable %q", name)
			}
			for i := 0; i < pow; i++ {
				part.Mul(part, big.NewRat(val, 1))
			}
		}
		total.Add(total, part)
	}
	if !total.IsInt() {
		return 0, fmt.Errorf("expression %s evaluates to non-integer %s", e.String(), total.RatString())
	}
	return total.Num().Int64(), nil
}

type orderedTerm struct {
	key    string
	degree int
	t      term
}

func (e Expr) ordered() []orderedTerm {
	out := make([]orderedTerm, 0, len(e.terms))
	for key, t := range e.terms {
		deg := 0
		for _, p := range t.vars {
			deg += p
		}
		out = append(out, orderedTerm{key: key, degree: deg, t: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].degree != out[j].degree {
			return out[i].degree > out[j].degree
		}
		return out[i].key < out[j].key
	})
	return out
}

// String renders the canonical form: highest-degree terms first, variables
// alphabetical, the constant last. Examples: "i + 1", "N - 1", "2*N", "N*i".
func (e Expr) String() string {
	terms := e.ordered()
	if len(terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, ot := range terms {
		neg := ot.t.coeff.Sign() < 0
		abs := new(big.Rat).Abs(ot.t.coeff)
		if i == 0 {
			if neg {
				b.WriteString("-")
			}
		} else {
			if neg {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(renderTerm(abs, ot.key))
	}
	return b.String()
}

func renderTerm(abs *big.Rat, mono string) string {
	num := abs.Num().String()
	den := abs.Denom().String()
	if mono == "" {
		if den == "1" {
			return num
		}
		return num + "/" + den
	}
	s := mono
	if num != "1" {
		s = num + "*" + s
	}
	if den != "1" {
		s = s + "/" + den
	}
	return s
}
