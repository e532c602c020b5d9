package judge

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// AtCoder scrapes atcoder.jp problem and contest pages.
type AtCoder struct{}

func (AtCoder) Name() string { return "atcoder" }

// ExtractFormat finds the input format block. Statements carry a Japanese
// section and usually an English one; the first matching heading wins, which
// keeps the Japanese block when both exist.
func (AtCoder) ExtractFormat(doc *Document) (string, error) {
	var text string
	found := false
	doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		title := headingText(h)
		if title != "入力" && title != "Input" {
			return true
		}
		pre := h.Parent().Find("pre").First()
		if pre.Length() == 0 {
			return true
		}
		text = pre.Text()
		found = true
		return false
	})
	if !found {
		return "", ErrNoFormat
	}
	return text, nil
}

// ExtractSamples pairs 入力例/出力例 (or Sample Input/Output) blocks by their
// trailing number.
func (AtCoder) ExtractSamples(doc *Document) ([]Sample, error) {
	inputs := map[int]string{}
	outputs := map[int]string{}
	doc.Find("h3").Each(func(_ int, h *goquery.Selection) {
		title := headingText(h)
		n, kind, ok := sampleHeading(title)
		if !ok {
			return
		}
		pre := h.Parent().Find("pre").First()
		if pre.Length() == 0 {
			return
		}
		switch kind {
		case "in":
			if _, dup := inputs[n]; !dup {
				inputs[n] = pre.Text()
			}
		case "out":
			if _, dup := outputs[n]; !dup {
				outputs[n] = pre.Text()
			}
		}
	})
	nums := make([]int, 0, len(inputs))
	for n := range inputs {
		if _, ok := outputs[n]; ok {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	samples := make([]Sample, 0, len(nums))
	for _, n := range nums {
		samples = append(samples, Sample{Input: inputs[n], Output: outputs[n]})
	}
	return samples, nil
}

// sampleHeading classifies a heading like "入力例 2" or "Sample Output 1".
func sampleHeading(title string) (n int, kind string, ok bool) {
	switch {
	case strings.HasPrefix(title, "入力例"):
		kind = "in"
		title = strings.TrimPrefix(title, "入力例")
	case strings.HasPrefix(title, "出力例"):
		kind = "out"
		title = strings.TrimPrefix(title, "出力例")
	case strings.HasPrefix(title, "Sample Input"):
		kind = "in"
		title = strings.TrimPrefix(title, "Sample Input")
	case strings.HasPrefix(title, "Sample Output"):
		kind = "out"
		title = strings.TrimPrefix(title, "Sample Output")
	default:
		return 0, "", false
	}
	n, err := strconv.Atoi(strings.TrimSpace(title))
	if err != nil {
		return 0, "", false
	}
	return n, kind, true
}

// ProblemID returns the task slug, e.g. "abc158_b" for
// /contests/abc158/tasks/abc158_b.
func (AtCoder) ProblemID(u *url.URL) (string, error) {
	parts := splitPath(u)
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "tasks" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("failed to find task id in url: %s", u)
}

// IsContestURL reports whether the URL is /contests/<id> without a task part.
func (AtCoder) IsContestURL(u *url.URL) bool {
	parts := splitPath(u)
	return len(parts) == 2 && parts[0] == "contests"
}

// ContestListURL returns the page that enumerates a contest's tasks.
func (AtCoder) ContestListURL(u *url.URL) string {
	list := *u
	list.Path = strings.TrimSuffix(u.Path, "/") + "/tasks"
	return list.String()
}

// ContestProblems collects task links from a contest's tasks page, in page
// order and without duplicates.
func (AtCoder) ContestProblems(doc *Document, base *url.URL) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var urls []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/tasks/") || strings.ContainsAny(href, "?#") {
			return
		}
		abs, ok := resolveRef(base, href)
		if !ok {
			return
		}
		if seen.Add(abs) {
			urls = append(urls, abs)
		}
	})
	if len(urls) == 0 {
		return nil, fmt.Errorf("no task links found on %s", base)
	}
	return urls, nil
}

func splitPath(u *url.URL) []string {
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
