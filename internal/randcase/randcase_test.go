package randcase_test

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/templategen/internal/format"
	"github.com/programme-lv/templategen/internal/randcase"
)

// N M
// A_1 A_2 ... A_N
func vectorTree() format.Node {
	return format.Sequence{Items: []format.Node{
		format.Item{Name: "N"},
		format.Item{Name: "M"},
		format.Newline{},
		format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i + 1"}}},
		format.Newline{},
	}}
}

func fields(t *testing.T, line string) []int64 {
	t.Helper()
	if line == "" {
		return nil
	}
	var vals []int64
	for _, f := range strings.Fields(line) {
		v, err := strconv.ParseInt(f, 10, 64)
		require.NoError(t, err)
		vals = append(vals, v)
	}
	return vals
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := randcase.New(rand.New(rand.NewSource(42)), randcase.Options{}).Generate(vectorTree())
	require.NoError(t, err)
	b, err := randcase.New(rand.New(rand.NewSource(42)), randcase.Options{}).Generate(vectorTree())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := randcase.New(rand.New(rand.NewSource(7)), randcase.Options{}).Generate(vectorTree())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateVectorShape(t *testing.T) {
	out, err := randcase.New(rand.New(rand.NewSource(1)), randcase.Options{}).Generate(vectorTree())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	head := fields(t, lines[0])
	require.Len(t, head, 2)
	n, m := head[0], head[1]
	assert.GreaterOrEqual(t, n, int64(1), "N bounds a loop, so it stays small")
	assert.LessOrEqual(t, n, int64(20))
	assert.GreaterOrEqual(t, m, int64(1))
	assert.LessOrEqual(t, m, int64(1_000_000_000))

	row := fields(t, lines[1])
	assert.Len(t, row, int(n), "the A line must hold exactly N values")
	for _, v := range row {
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(1_000_000_000))
	}
}

func TestGenerateMatrixShape(t *testing.T) {
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "H"},
		format.Item{Name: "W"},
		format.Newline{},
		format.Loop{Size: "H", Counter: "j", Body: format.Sequence{Items: []format.Node{
			format.Loop{Size: "W", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"j + 1", "i + 1"}}},
			format.Newline{},
		}}},
	}}
	out, err := randcase.New(rand.New(rand.NewSource(3)), randcase.Options{}).Generate(tree)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	head := fields(t, lines[0])
	require.Len(t, head, 2)
	h, w := head[0], head[1]
	require.Len(t, lines, 1+int(h))
	for _, line := range lines[1:] {
		assert.Len(t, fields(t, line), int(w))
	}
}

func TestGenerateScalarReuse(t *testing.T) {
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "N"},
		format.Item{Name: "N"},
		format.Newline{},
	}}
	out, err := randcase.New(rand.New(rand.NewSource(5)), randcase.Options{}).Generate(tree)
	require.NoError(t, err)
	vals := fields(t, strings.TrimRight(out, "\n"))
	require.Len(t, vals, 2)
	assert.Equal(t, vals[0], vals[1], "a scalar keeps one value across uses")
}

func TestGenerateFreeSizeVariable(t *testing.T) {
	// N never occurs in the input itself
	tree := format.Sequence{Items: []format.Node{
		format.Loop{Size: "N", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i + 1"}}},
		format.Newline{},
	}}
	out, err := randcase.New(rand.New(rand.NewSource(9)), randcase.Options{}).Generate(tree)
	require.NoError(t, err)
	vals := fields(t, strings.TrimRight(out, "\n"))
	assert.GreaterOrEqual(t, len(vals), 1)
	assert.LessOrEqual(t, len(vals), 20)
}

func TestGenerateNegativeSize(t *testing.T) {
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "N"},
		format.Newline{},
		format.Loop{Size: "N - 25", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"i + 1"}}},
		format.Newline{},
	}}
	// N is a size variable, so it is at most 20 and N-25 is always negative
	_, err := randcase.New(rand.New(rand.NewSource(1)), randcase.Options{}).Generate(tree)
	assert.Error(t, err)
}

func TestGenerateCustomBounds(t *testing.T) {
	tree := format.Sequence{Items: []format.Node{
		format.Item{Name: "X"},
		format.Newline{},
	}}
	out, err := randcase.New(rand.New(rand.NewSource(2)), randcase.Options{
		MinValue: 5, MaxValue: 6,
	}).Generate(tree)
	require.NoError(t, err)
	vals := fields(t, strings.TrimRight(out, "\n"))
	require.Len(t, vals, 1)
	assert.GreaterOrEqual(t, vals[0], int64(5))
	assert.LessOrEqual(t, vals[0], int64(6))
}
