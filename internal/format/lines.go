package format

// HasNewline reports whether the subtree emits a line break, i.e. a Loop
// over it spans whole lines rather than a run within one line.
func HasNewline(n Node) bool {
	switch v := n.(type) {
	case Newline:
		return true
	case Sequence:
		for _, item := range v.Items {
			if HasNewline(item) {
				return true
			}
		}
		return false
	case Loop:
		return HasNewline(v.Body)
	default:
		return false
	}
}

// Lines splits a tree into groups that each produce whole output lines: a
// run of in-line nodes up to a Newline, or a single line-spanning Loop.
// The terminating Newline nodes themselves are dropped.
func Lines(root Node) [][]Node {
	var flat []Node
	if seq, ok := root.(Sequence); ok {
		flat = seq.Items
	} else {
		flat = []Node{root}
	}

	var groups [][]Node
	var cur []Node
	for _, n := range flat {
		switch v := n.(type) {
		case Newline:
			groups = append(groups, cur)
			cur = nil
		case Loop:
			if HasNewline(v.Body) {
				if len(cur) > 0 {
					groups = append(groups, cur)
					cur = nil
				}
				groups = append(groups, []Node{v})
				continue
			}
			cur = append(cur, v)
		default:
			cur = append(cur, n)
		}
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
