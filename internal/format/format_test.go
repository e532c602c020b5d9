package format_test

import (
	"testing"

	"github.com/programme-lv/templategen/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// N M
// A_1 ... A_N  (as a loop over i with A_{i+1})
func sampleTree() format.Node {
	return format.Sequence{Items: []format.Node{
		format.Item{Name: "N"},
		format.Item{Name: "M"},
		format.Newline{},
		format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i + 1"}}},
		format.Newline{},
	}}
}

func TestUsedNames(t *testing.T) {
	names := format.UsedNames(sampleTree())
	assert.True(t, names.Contains("N"))
	assert.True(t, names.Contains("A"))
	assert.True(t, names.Contains("i"), "loop counters count as used names")
	assert.False(t, names.Contains("B"))
	assert.Equal(t, 4, names.Cardinality())
}

func TestVarsScalarAndVector(t *testing.T) {
	decls, err := format.Vars(sampleTree())
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, format.VarDecl{Name: "N"}, decls[0])
	assert.True(t, decls[0].IsScalar())
	assert.Equal(t, format.VarDecl{Name: "M"}, decls[1])
	assert.Equal(t, format.VarDecl{Name: "A", Dims: []string{"N"}, Bases: []string{"1"}}, decls[2])
}

func TestVarsMatrix(t *testing.T) {
	// H W, then H lines of A_{i,1} ... A_{i,W}
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "H"},
		format.Item{Name: "W"},
		format.Newline{},
		format.Loop{Size: "H", Counter: "i", Body: format.Sequence{Items: []format.Node{
			format.Loop{Size: "W", Counter: "j", Body: format.Item{Name: "A", Indices: []string{"i + 1", "j + 1"}}},
			format.Newline{},
		}}},
	}}
	decls, err := format.Vars(tree)
	require.NoError(t, err)
	require.Len(t, decls, 3)
	assert.Equal(t, format.VarDecl{Name: "A", Dims: []string{"H", "W"}, Bases: []string{"1", "1"}}, decls[2])
}

func TestVarsConstantSubscripts(t *testing.T) {
	// A_1 A_2 A_3 on one line, no dots
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "A", Indices: []string{"1"}},
		format.Item{Name: "A", Indices: []string{"2"}},
		format.Item{Name: "A", Indices: []string{"3"}},
		format.Newline{},
	}}
	decls, err := format.Vars(tree)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, format.VarDecl{Name: "A", Dims: []string{"3"}, Bases: []string{"1"}}, decls[0])
}

func TestVarsConflicts(t *testing.T) {
	// A used with one subscript and with none
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "A", Indices: []string{"1"}},
		format.Item{Name: "A"},
		format.Newline{},
	}}
	_, err := format.Vars(tree)
	assert.Error(t, err)

	// subscript not linear in the counter
	tree = format.Sequence{Items: []format.Node{
		format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"2*i"}}},
		format.Newline{},
	}}
	_, err = format.Vars(tree)
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	decl := format.VarDecl{Name: "A", Dims: []string{"N"}, Bases: []string{"1"}}
	pos, err := format.Position(decl, format.Item{Name: "A", Indices: []string{"i + 1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"i"}, pos)

	pos, err = format.Position(decl, format.Item{Name: "A", Indices: []string{"3"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, pos)

	_, err = format.Position(decl, format.Item{Name: "A"})
	assert.Error(t, err, "subscript count must match declaration")
}

func TestNodeStrings(t *testing.T) {
	assert.Equal(t, "A_{i + 1}", format.Item{Name: "A", Indices: []string{"i + 1"}}.String())
	assert.Equal(t, "N", format.Item{Name: "N"}.String())
	assert.Equal(t, "loop(i, N: A_{i})", format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i"}}}.String())
}

func TestHasNewline(t *testing.T) {
	assert.False(t, format.HasNewline(format.Item{Name: "A"}))
	assert.True(t, format.HasNewline(format.Newline{}))
	assert.False(t, format.HasNewline(format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i"}}}))
	assert.True(t, format.HasNewline(format.Loop{Size: "N", Counter: "i", Body: format.Sequence{Items: []format.Node{
		format.Item{Name: "A", Indices: []string{"i"}},
		format.Newline{},
	}}}))
}

func TestLines(t *testing.T) {
	groups := format.Lines(sampleTree())
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2, "N and M share the first line")
	assert.Equal(t, "N", groups[0][0].String())
	require.Len(t, groups[1], 1)
	_, isLoop := groups[1][0].(format.Loop)
	assert.True(t, isLoop)

	// a line-spanning loop forms a group of its own
	vertical := format.Loop{Size: "H", Counter: "i", Body: format.Sequence{Items: []format.Node{
		format.Item{Name: "A", Indices: []string{"i"}},
		format.Newline{},
	}}}
	groups = format.Lines(format.Sequence{Items: []format.Node{
		format.Item{Name: "H"},
		format.Newline{},
		vertical,
	}})
	require.Len(t, groups, 2)
	assert.Equal(t, vertical.String(), groups[1][0].String())
}
