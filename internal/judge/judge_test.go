package judge_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/templategen/internal/judge"
)

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func parseDoc(t *testing.T, html string) *judge.Document {
	t.Helper()
	doc, err := judge.ParseHTML([]byte(html))
	require.NoError(t, err)
	return doc
}

func TestDetect(t *testing.T) {
	for rawURL, name := range map[string]string{
		"https://atcoder.jp/contests/abc158/tasks/abc158_b": "atcoder",
		"https://beta.atcoder.jp/contests/abc001":           "atcoder",
		"https://yukicoder.me/problems/no/1000":             "yukicoder",
		"https://judge.yosupo.jp/problem/aplusb":            "library-checker",
	} {
		j, err := judge.Detect(rawURL)
		require.NoError(t, err, rawURL)
		assert.Equal(t, name, j.Name(), rawURL)
	}

	_, err := judge.Detect("https://codeforces.com/contest/1000/problem/A")
	assert.ErrorIs(t, err, judge.ErrUnknownJudge)
}

const atcoderProblemHTML = `<html><body>
<div id="task-statement">
<section><h3>問題文</h3><p>略</p></section>
<section><h3>入力</h3><pre>N M
A_1 A_2 ... A_N
</pre></section>
<section><h3>入力例 1</h3><pre>3 1
1 2 3
</pre></section>
<section><h3>出力例 1</h3><pre>6
</pre></section>
<section><h3>入力例 2</h3><pre>1 1
5
</pre></section>
<section><h3>出力例 2</h3><pre>5
</pre></section>
</div>
</body></html>`

func TestAtCoderExtractFormat(t *testing.T) {
	doc := parseDoc(t, atcoderProblemHTML)
	text, err := judge.AtCoder{}.ExtractFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "N M\nA_1 A_2 ... A_N\n", text)
}

func TestAtCoderExtractFormatMissing(t *testing.T) {
	doc := parseDoc(t, `<html><body><h3>問題文</h3></body></html>`)
	_, err := judge.AtCoder{}.ExtractFormat(doc)
	assert.ErrorIs(t, err, judge.ErrNoFormat)
}

func TestAtCoderExtractFormatPrefersFirstHeading(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<section><h3>入力</h3><pre>N
</pre></section>
<section><h3>Input</h3><pre>N (english)
</pre></section>
</body></html>`)
	text, err := judge.AtCoder{}.ExtractFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "N\n", text)
}

func TestAtCoderExtractSamples(t *testing.T) {
	doc := parseDoc(t, atcoderProblemHTML)
	samples, err := judge.AtCoder{}.ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "3 1\n1 2 3\n", samples[0].Input)
	assert.Equal(t, "6\n", samples[0].Output)
	assert.Equal(t, "1 1\n5\n", samples[1].Input)
	assert.Equal(t, "5\n", samples[1].Output)
}

func TestAtCoderProblemID(t *testing.T) {
	id, err := judge.AtCoder{}.ProblemID(mustParse(t, "https://atcoder.jp/contests/abc158/tasks/abc158_b"))
	require.NoError(t, err)
	assert.Equal(t, "abc158_b", id)

	_, err = judge.AtCoder{}.ProblemID(mustParse(t, "https://atcoder.jp/contests/abc158"))
	assert.Error(t, err)
}

func TestAtCoderContestURL(t *testing.T) {
	ac := judge.AtCoder{}
	assert.True(t, ac.IsContestURL(mustParse(t, "https://atcoder.jp/contests/abc158")))
	assert.False(t, ac.IsContestURL(mustParse(t, "https://atcoder.jp/contests/abc158/tasks/abc158_b")))
	assert.Equal(t,
		"https://atcoder.jp/contests/abc158/tasks",
		ac.ContestListURL(mustParse(t, "https://atcoder.jp/contests/abc158")))
}

func TestAtCoderContestProblems(t *testing.T) {
	doc := parseDoc(t, `<html><body><table>
<tr>
<td><a href="/contests/abc158/tasks/abc158_a">A</a></td>
<td><a href="/contests/abc158/tasks/abc158_a">Station and Bus</a></td>
</tr>
<tr>
<td><a href="/contests/abc158/tasks/abc158_b">B</a></td>
<td><a href="/contests/abc158/tasks/abc158_b">Count Balls</a></td>
</tr>
</table>
<a href="/contests/abc158/submit?taskScreenName=abc158_a">Submit</a>
</body></html>`)
	base := mustParse(t, "https://atcoder.jp/contests/abc158/tasks")
	urls, err := judge.AtCoder{}.ContestProblems(doc, base)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://atcoder.jp/contests/abc158/tasks/abc158_a",
		"https://atcoder.jp/contests/abc158/tasks/abc158_b",
	}, urls)
}

func TestYukicoderExtractFormat(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<div><h4>入力</h4><pre>N
A_1 \dots A_N
</pre></div>
</body></html>`)
	text, err := judge.Yukicoder{}.ExtractFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "N\nA_1 \\dots A_N\n", text)
}

func TestYukicoderExtractSamples(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<div class="sample"><h5>サンプル1</h5>
<div><h6>入力</h6><pre>3
</pre><h6>出力</h6><pre>6
</pre></div></div>
<div class="sample"><h5>サンプル2</h5>
<div><h6>入力</h6><pre>1
</pre><h6>出力</h6><pre>1
</pre></div></div>
</body></html>`)
	samples, err := judge.Yukicoder{}.ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "3\n", samples[0].Input)
	assert.Equal(t, "1\n", samples[1].Output)
}

func TestYukicoderProblemID(t *testing.T) {
	id, err := judge.Yukicoder{}.ProblemID(mustParse(t, "https://yukicoder.me/problems/no/1000"))
	require.NoError(t, err)
	assert.Equal(t, "no1000", id)

	id, err = judge.Yukicoder{}.ProblemID(mustParse(t, "https://yukicoder.me/problems/9999"))
	require.NoError(t, err)
	assert.Equal(t, "9999", id)
}

func TestYosupoExtractFormat(t *testing.T) {
	doc := parseDoc(t, `<html><body>
<h2>Input / 入力</h2>
<pre>A B
</pre>
<h2>Output</h2>
</body></html>`)
	text, err := judge.Yosupo{}.ExtractFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "A B\n", text)
}

func TestYosupoUnsupported(t *testing.T) {
	doc := parseDoc(t, `<html><body></body></html>`)
	_, err := judge.Yosupo{}.ExtractSamples(doc)
	assert.ErrorIs(t, err, judge.ErrSamplesUnsupported)
	_, err = judge.Yosupo{}.ContestProblems(doc, mustParse(t, "https://judge.yosupo.jp/"))
	assert.ErrorIs(t, err, judge.ErrContestUnsupported)

	id, err := judge.Yosupo{}.ProblemID(mustParse(t, "https://judge.yosupo.jp/problem/aplusb"))
	require.NoError(t, err)
	assert.Equal(t, "aplusb", id)
}
