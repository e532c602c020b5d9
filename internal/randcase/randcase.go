// Package randcase synthesizes a random input file straight from a format
// tree, without going through the generated generate.py script. Variables
// that control loop sizes get small values so the produced cases stay
// readable.
package randcase

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/programme-lv/templategen/internal/exprs"
	"github.com/programme-lv/templategen/internal/format"
)

// Options bound the generated values.
type Options struct {
	// MinValue..MaxValue for ordinary values; defaults 1..10^9.
	MinValue int64
	MaxValue int64
	// MinSize..MaxSize for variables that appear in loop sizes;
	// defaults 1..20.
	MinSize int64
	MaxSize int64
}

func (o *Options) fill() {
	if o.MinValue == 0 && o.MaxValue == 0 {
		o.MinValue, o.MaxValue = 1, 1_000_000_000
	}
	if o.MinSize == 0 && o.MaxSize == 0 {
		o.MinSize, o.MaxSize = 1, 20
	}
}

// Generator produces random inputs for one format tree at a time.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

// New creates a generator. The caller owns the rng, so a fixed seed gives
// reproducible cases.
func New(rng *rand.Rand, opts Options) *Generator {
	opts.fill()
	return &Generator{rng: rng, opts: opts}
}

// Generate walks the tree in input order and returns one random input.
// Scalars keep one value across uses; every array element is drawn fresh.
func (g *Generator) Generate(root format.Node) (string, error) {
	w := &caseWriter{
		gen:      g,
		env:      map[string]int64{},
		sizeVars: sizeNames(root),
	}
	if err := w.walk(root); err != nil {
		return "", err
	}
	if len(w.line) > 0 {
		w.writeLine()
	}
	return w.out.String(), nil
}

type caseWriter struct {
	gen      *Generator
	env      map[string]int64
	sizeVars map[string]bool
	out      strings.Builder
	line     []string
}

func (w *caseWriter) walk(n format.Node) error {
	switch v := n.(type) {
	case format.Item:
		w.line = append(w.line, fmt.Sprintf("%d", w.value(v)))
		return nil
	case format.Newline:
		w.writeLine()
		return nil
	case format.Sequence:
		for _, item := range v.Items {
			if err := w.walk(item); err != nil {
				return err
			}
		}
		return nil
	case format.Loop:
		size, err := w.evalSize(v.Size)
		if err != nil {
			return err
		}
		for range size {
			if err := w.walk(v.Body); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot generate %T node", n)
	}
}

// writeLine ends the current input line, empty lines included (a zero-size
// in-line loop still produces its line break).
func (w *caseWriter) writeLine() {
	w.out.WriteString(strings.Join(w.line, " "))
	w.out.WriteString("\n")
	w.line = nil
}

// value draws the value of one item. Scalars are drawn once and remembered
// because later loop sizes may refer to them.
func (w *caseWriter) value(it format.Item) int64 {
	if len(it.Indices) > 0 {
		return w.gen.randRange(w.gen.opts.MinValue, w.gen.opts.MaxValue)
	}
	if v, ok := w.env[it.Name]; ok {
		return v
	}
	var v int64
	if w.sizeVars[it.Name] {
		v = w.gen.randRange(w.gen.opts.MinSize, w.gen.opts.MaxSize)
	} else {
		v = w.gen.randRange(w.gen.opts.MinValue, w.gen.opts.MaxValue)
	}
	w.env[it.Name] = v
	return v
}

// evalSize evaluates a loop size, binding any still-free variable to a
// small value first (a size variable that never occurs in the input
// itself, e.g. "A_1 ... A_N" with no N line).
func (w *caseWriter) evalSize(sizeExpr string) (int64, error) {
	e, err := exprs.Parse(sizeExpr)
	if err != nil {
		return 0, fmt.Errorf("bad loop size %q: %w", sizeExpr, err)
	}
	for _, name := range e.Names() {
		if _, ok := w.env[name]; !ok {
			w.env[name] = w.gen.randRange(w.gen.opts.MinSize, w.gen.opts.MaxSize)
		}
	}
	n, err := e.Eval(w.env)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate loop size %q: %w", sizeExpr, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("loop size %q evaluates to %d", sizeExpr, n)
	}
	return n, nil
}

func (g *Generator) randRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int63n(hi-lo+1)
}

// sizeNames collects the variables occurring in loop size expressions.
func sizeNames(n format.Node) map[string]bool {
	names := map[string]bool{}
	var walk func(format.Node)
	walk = func(n format.Node) {
		switch v := n.(type) {
		case format.Sequence:
			for _, item := range v.Items {
				walk(item)
			}
		case format.Loop:
			if e, err := exprs.Parse(v.Size); err == nil {
				for _, name := range e.Names() {
					names[name] = true
				}
			}
			walk(v.Body)
		}
	}
	walk(n)
	return names
}
