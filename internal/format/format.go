// Package format defines the tree produced by analyzing a problem's input
// format description. A format like
//
//	N M
//	A_1 A_2 ... A_N
//
// becomes a Sequence of Items, Newlines and Loops; code generation and
// random case synthesis both walk this tree.
package format

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Node is a node of the format tree.
type Node interface {
	fmt.Stringer
	node()
}

// Item is one occurrence of a variable, optionally subscripted. Indices are
// canonical expression strings, e.g. ["i + 1"] for A_{i+1}.
type Item struct {
	Name    string
	Indices []string
}

// Newline marks the end of an input line.
type Newline struct{}

// Sequence is a run of nodes in input order. Analysis guarantees it never
// directly nests another Sequence.
type Sequence struct {
	Items []Node
}

// Loop repeats Body Size times with Counter ranging over 0..Size-1.
type Loop struct {
	Size    string
	Counter string
	Body    Node
}

func (Item) node()     {}
func (Newline) node()  {}
func (Sequence) node() {}
func (Loop) node()     {}

func (n Item) String() string {
	if len(n.Indices) == 0 {
		return n.Name
	}
	return fmt.Sprintf("%s_{%s}", n.Name, strings.Join(n.Indices, ", "))
}

func (Newline) String() string { return "<newline>" }

func (n Sequence) String() string {
	parts := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		parts = append(parts, item.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (n Loop) String() string {
	return fmt.Sprintf("loop(%s, %s: %s)", n.Counter, n.Size, n.Body.String())
}

// UsedNames collects every variable and loop counter name in the tree.
func UsedNames(n Node) mapset.Set[string] {
	names := mapset.NewSet[string]()
	collectNames(n, names)
	return names
}

func collectNames(n Node, names mapset.Set[string]) {
	switch v := n.(type) {
	case Item:
		names.Add(v.Name)
	case Newline:
	case Sequence:
		for _, item := range v.Items {
			collectNames(item, names)
		}
	case Loop:
		names.Add(v.Counter)
		collectNames(v.Body, names)
	default:
		panic(fmt.Sprintf("unknown format node %T", n))
	}
}
