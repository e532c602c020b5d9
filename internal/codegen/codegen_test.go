package codegen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/templategen/api"
	"github.com/programme-lv/templategen/internal/codegen"
	"github.com/programme-lv/templategen/internal/format"
	"github.com/programme-lv/templategen/internal/judge"
)

const problemURL = "https://atcoder.jp/contests/abc158/tasks/abc158_b"

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

// H W
// A_{1,1} ... A_{1,W}
// :
// A_{H,1} ... A_{H,W}
func matrixTree() format.Node {
	return format.Sequence{Items: []format.Node{
		format.Item{Name: "H"},
		format.Item{Name: "W"},
		format.Newline{},
		format.Loop{Size: "H", Counter: "j", Body: format.Sequence{Items: []format.Node{
			format.Loop{Size: "W", Counter: "i", Body: format.Item{Name: "A", Indices: []string{"j + 1", "i + 1"}}},
			format.Newline{},
		}}},
	}}
}

func vectorData(t *testing.T) *api.TemplateData {
	t.Helper()
	data, err := codegen.NewData(problemURL, "atcoder", "abc158_b", vectorTree(), nil)
	require.NoError(t, err)
	return data
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"generate.py", "main.cpp", "main.py"}, codegen.List())
}

func TestNewData(t *testing.T) {
	data, err := codegen.NewData(problemURL, "atcoder", "abc158_b", vectorTree(),
		[]judge.Sample{{Input: "3 1\n1 2 3\n", Output: "6\n"}})
	require.NoError(t, err)

	assert.Equal(t, "atcoder", data.Judge)
	assert.Equal(t, "abc158_b", data.ProblemID)
	require.Len(t, data.Vars, 3)
	assert.Equal(t, "A", data.Vars[2].Name)
	assert.Equal(t, []string{"N"}, data.Vars[2].Dims)
	require.Len(t, data.Samples, 1)
	assert.Equal(t, "6\n", data.Samples[0].Output)
	assert.Equal(t, "oj-template", data.About.Title)
}

func TestRenderWithoutInputFails(t *testing.T) {
	data, err := codegen.NewData(problemURL, "atcoder", "abc158_b", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, data.Vars)

	_, err = codegen.Render(context.Background(), "main.cpp", data)
	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Setenv("PATH", "")
	_, err := codegen.Render(context.Background(), "main.rs", vectorData(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

func TestRenderMainCpp(t *testing.T) {
	t.Setenv("PATH", "")
	out, err := codegen.Render(context.Background(), "main.cpp", vectorData(t))
	require.NoError(t, err)

	want := `// generated by oj-template v0.1.0 (https://github.com/programme-lv/templategen)
// problem: https://atcoder.jp/contests/abc158/tasks/abc158_b
#include <bits/stdc++.h>
#define REP(i, n) for (int64_t i = 0; (i) < (int64_t)(n); ++(i))
using namespace std;

int64_t solve(int64_t N, int64_t M, const vector<int64_t> &A) {
    // TODO: edit here
    return 0;
}

int main() {
    ios::sync_with_stdio(false);
    cin.tie(nullptr);
    int64_t N;
    int64_t M;
    cin >> N >> M;
    vector<int64_t> A(N);
    REP(i, N) {
        cin >> A[i];
    }
    auto ans = solve(N, M, A);
    cout << ans << '\n';
    return 0;
}
`
	assert.Equal(t, want, string(out))
}

func TestRenderGeneratePy(t *testing.T) {
	t.Setenv("PATH", "")
	out, err := codegen.Render(context.Background(), "generate.py", vectorData(t))
	require.NoError(t, err)

	want := `#!/usr/bin/env python3
# usage: $ oj generate-input 'python3 generate.py'
import random

# generated by oj-template v0.1.0 (https://github.com/programme-lv/templategen)
def main():
    N = random.randint(1, 10 ** 9)  # TODO: edit here
    M = random.randint(1, 10 ** 9)  # TODO: edit here
    A = [random.randint(1, 10 ** 9) for _ in range(N)]  # TODO: edit here
    print(N, M)
    print(*[A[i] for i in range(N)])

if __name__ == "__main__":
    main()
`
	assert.Equal(t, want, string(out))
}

func TestRenderMainPy(t *testing.T) {
	t.Setenv("PATH", "")
	out, err := codegen.Render(context.Background(), "main.py", vectorData(t))
	require.NoError(t, err)

	want := `#!/usr/bin/env python3
# generated by oj-template v0.1.0 (https://github.com/programme-lv/templategen)
# problem: https://atcoder.jp/contests/abc158/tasks/abc158_b
from typing import *


def solve(N: int, M: int, A: List[int]) -> Any:
    # TODO: edit here
    raise NotImplementedError


def main():
    import sys
    tokens = iter(sys.stdin.read().split())
    N = int(next(tokens))
    M = int(next(tokens))
    A = [None for _ in range(N)]
    for i in range(N):
        A[i] = int(next(tokens))
    ans = solve(N, M, A)
    print(ans)


if __name__ == "__main__":
    main()
`
	assert.Equal(t, want, string(out))
}

func TestRenderMatrix(t *testing.T) {
	t.Setenv("PATH", "")
	data, err := codegen.NewData(problemURL, "atcoder", "abc158_b", matrixTree(), nil)
	require.NoError(t, err)

	cpp, err := codegen.Render(context.Background(), "main.cpp", data)
	require.NoError(t, err)
	assert.Contains(t, string(cpp), "vector<vector<int64_t>> A(H, vector<int64_t>(W));")
	assert.Contains(t, string(cpp), `    REP(j, H) {
        REP(i, W) {
            cin >> A[j][i];
        }
    }`)

	py, err := codegen.Render(context.Background(), "generate.py", data)
	require.NoError(t, err)
	assert.Contains(t, string(py),
		"    A = [[random.randint(1, 10 ** 9) for _ in range(W)] for _ in range(H)]  # TODO: edit here")
	assert.Contains(t, string(py), `    for j in range(H):
        print(*[A[j][i] for i in range(W)])`)

	mainPy, err := codegen.Render(context.Background(), "main.py", data)
	require.NoError(t, err)
	assert.Contains(t, string(mainPy), "A = [[None for _ in range(W)] for _ in range(H)]")
	assert.Contains(t, string(mainPy), `    for j in range(H):
        for i in range(W):
            A[j][i] = int(next(tokens))`)
}

func TestRenderAppliesFilter(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "yapf")
	err := os.WriteFile(script, []byte("#!/bin/sh\ncat\nprintf '# filtered\\n'\n"), 0o755)
	require.NoError(t, err)
	t.Setenv("PATH", dir)

	out, err := codegen.Render(context.Background(), "main.py", vectorData(t))
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Contains(t, string(out), "# filtered")
}
