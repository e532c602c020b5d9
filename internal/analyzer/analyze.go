package analyzer

import (
	"github.com/programme-lv/templategen/internal/exprs"
	"github.com/programme-lv/templategen/internal/format"
)

// analyze resolves a parse tree into a format tree: subscripts are
// canonicalized, nested sequences are flattened, and dots become loops.
func analyze(tree Tree) (format.Node, error) {
	switch t := tree.(type) {
	case ItemTree:
		indices := make([]string, 0, len(t.Indices))
		for _, raw := range t.Indices {
			canon, err := exprs.Canonical(raw)
			if err != nil {
				return nil, formatErrorf("bad subscript %q of %s at line %d column %d: %v", raw, t.Name, t.At.Line, t.At.Col, err)
			}
			indices = append(indices, canon)
		}
		return format.Item{Name: t.Name, Indices: indices}, nil

	case NewlineTree:
		return format.Newline{}, nil

	case SeqTree:
		return analyzeSeq(t)

	case DotsTree:
		return analyzeDots(t)

	default:
		return nil, formatErrorf("unknown parse tree node %T", tree)
	}
}

// analyzeSeq flattens nested sequences and, whenever a loop ends up right
// after plain items, tries to absorb those items as one more leading
// iteration of the loop (so `A_1\nA_2 ... A_N` still reads as one loop).
func analyzeSeq(t SeqTree) (format.Node, error) {
	que := make([]format.Node, 0, len(t.Items))
	for _, child := range t.Items {
		node, err := analyze(child)
		if err != nil {
			return nil, err
		}
		que = append(que, node)
	}

	var items []format.Node
	for len(que) > 0 {
		head := que[0]
		que = que[1:]

		if seq, ok := head.(format.Sequence); ok {
			que = append(append([]format.Node{}, seq.Items...), que...)
			continue
		}

		loop, ok := head.(format.Loop)
		if !ok || len(items) == 0 {
			items = append(items, head)
			continue
		}

		// split off as many trailing items as the loop body spans
		var init []format.Node
		var tail format.Node
		if body, ok := loop.Body.(format.Sequence); ok && len(items) >= len(body.Items) {
			init = items[:len(items)-len(body.Items)]
			tail = format.Sequence{Items: items[len(items)-len(body.Items):]}
		} else {
			init = items[:len(items)-1]
			tail = items[len(items)-1]
		}

		extended, ok := extendLoop(tail, loop.Body, loop)
		if !ok {
			items = append(items, loop)
			continue
		}
		size, err := exprs.Parse(loop.Size)
		if err != nil {
			return nil, formatErrorf("bad loop size %q: %v", loop.Size, err)
		}
		grown := format.Loop{
			Size:    exprs.AddConst(size, 1).String(),
			Counter: loop.Counter,
			Body:    extended,
		}
		items = init
		que = append([]format.Node{grown}, que...)
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return format.Sequence{Items: items}, nil
}

// analyzeDots resolves `first ... last` into a loop: pick a fresh counter,
// then zip the two endpoint trees to find the loop body and size.
func analyzeDots(t DotsTree) (format.Node, error) {
	first, err := analyze(t.First)
	if err != nil {
		return nil, err
	}
	last, err := analyze(t.Last)
	if err != nil {
		return nil, err
	}

	used := format.UsedNames(first).Union(format.UsedNames(last))
	counter := "i"
	for used.Contains(counter) {
		if counter == "z" {
			return nil, formatErrorf("no counter name left for dots at line %d column %d", t.At.Line, t.At.Col)
		}
		counter = string(rune(counter[0] + 1))
	}

	z := &zipper{counter: counter}
	body, err := z.zip(first, last)
	if err != nil {
		return nil, err
	}
	if !z.haveSize {
		return nil, formatErrorf("unmatched dots pair: %s and %s", first.String(), last.String())
	}
	return format.Loop{Size: z.size.String(), Counter: counter, Body: body}, nil
}

// zipper merges the two endpoints of a dots pair into a loop body. The
// first subscript pair that differs fixes the loop size (last - first + 1);
// every later differing pair must agree with it.
type zipper struct {
	counter  string
	size     exprs.Expr
	haveSize bool
}

func (z *zipper) zip(a, b format.Node) (format.Node, error) {
	switch av := a.(type) {
	case format.Item:
		bv, ok := b.(format.Item)
		if !ok || av.Name != bv.Name || len(av.Indices) != len(bv.Indices) {
			return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
		}
		indices := make([]string, 0, len(av.Indices))
		for i := range av.Indices {
			ai, err := exprs.Parse(av.Indices[i])
			if err != nil {
				return nil, formatErrorf("bad subscript %q: %v", av.Indices[i], err)
			}
			bi, err := exprs.Parse(bv.Indices[i])
			if err != nil {
				return nil, formatErrorf("bad subscript %q: %v", bv.Indices[i], err)
			}
			if exprs.Equal(ai, bi) {
				indices = append(indices, av.Indices[i])
				continue
			}
			span := exprs.AddConst(exprs.Sub(bi, ai), 1)
			if z.haveSize {
				if !exprs.Equal(span, z.size) {
					return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
				}
			} else {
				z.size = span
				z.haveSize = true
			}
			indices = append(indices, exprs.Add(ai, exprs.Var(z.counter)).String())
		}
		return format.Item{Name: av.Name, Indices: indices}, nil

	case format.Newline:
		if _, ok := b.(format.Newline); !ok {
			return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
		}
		return format.Newline{}, nil

	case format.Sequence:
		bv, ok := b.(format.Sequence)
		if !ok || len(av.Items) != len(bv.Items) {
			return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
		}
		items := make([]format.Node, 0, len(av.Items))
		for i := range av.Items {
			merged, err := z.zip(av.Items[i], bv.Items[i])
			if err != nil {
				return nil, err
			}
			items = append(items, merged)
		}
		return format.Sequence{Items: items}, nil

	case format.Loop:
		bv, ok := b.(format.Loop)
		if !ok || av.Size != bv.Size || av.Counter != bv.Counter {
			return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
		}
		body, err := z.zip(av.Body, bv.Body)
		if err != nil {
			return nil, err
		}
		return format.Loop{Size: av.Size, Counter: av.Counter, Body: body}, nil

	default:
		return nil, formatErrorf("unmatched dots pair: %s and %s", a.String(), b.String())
	}
}

// extendLoop checks whether `prev` is exactly the body of `loop` one
// iteration earlier (counter = -1) and, if so, returns the body rewritten
// so the loop can start one iteration sooner.
func extendLoop(prev, body format.Node, loop format.Loop) (format.Node, bool) {
	switch pv := prev.(type) {
	case format.Item:
		bv, ok := body.(format.Item)
		if !ok || pv.Name != bv.Name || len(pv.Indices) != len(bv.Indices) {
			return nil, false
		}
		indices := make([]string, 0, len(pv.Indices))
		for i := range pv.Indices {
			pi, err := exprs.Parse(pv.Indices[i])
			if err != nil {
				return nil, false
			}
			bi, err := exprs.Parse(bv.Indices[i])
			if err != nil {
				return nil, false
			}
			if !exprs.Equal(pi, exprs.Subst(bi, loop.Counter, exprs.Const(-1))) {
				return nil, false
			}
			indices = append(indices, exprs.Add(pi, exprs.Var(loop.Counter)).String())
		}
		return format.Item{Name: pv.Name, Indices: indices}, true

	case format.Newline:
		_, ok := body.(format.Newline)
		if !ok {
			return nil, false
		}
		return format.Newline{}, true

	case format.Sequence:
		bv, ok := body.(format.Sequence)
		if !ok || len(pv.Items) != len(bv.Items) {
			return nil, false
		}
		items := make([]format.Node, 0, len(pv.Items))
		for i := range pv.Items {
			merged, ok := extendLoop(pv.Items[i], bv.Items[i], loop)
			if !ok {
				return nil, false
			}
			items = append(items, merged)
		}
		return format.Sequence{Items: items}, true

	case format.Loop:
		bv, ok := body.(format.Loop)
		if !ok || pv.Size != bv.Size || pv.Counter != bv.Counter {
			return nil, false
		}
		merged, ok := extendLoop(pv.Body, bv.Body, loop)
		if !ok {
			return nil, false
		}
		return format.Loop{Size: pv.Size, Counter: pv.Counter, Body: merged}, true

	default:
		return nil, false
	}
}
