package judge

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// Yukicoder scrapes yukicoder.me problem and contest pages.
type Yukicoder struct{}

func (Yukicoder) Name() string { return "yukicoder" }

// ExtractFormat finds the <pre> under the section headed by an 入力 h4.
func (Yukicoder) ExtractFormat(doc *Document) (string, error) {
	var text string
	found := false
	doc.Find("h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if headingText(h) != "入力" {
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

// ExtractSamples reads the div.sample blocks. Each block holds the input
// <pre> followed by the output <pre>.
func (Yukicoder) ExtractSamples(doc *Document) ([]Sample, error) {
	var samples []Sample
	doc.Find("div.sample").Each(func(_ int, div *goquery.Selection) {
		pres := div.Find("pre")
		if pres.Length() < 2 {
			return
		}
		samples = append(samples, Sample{
			Input:  pres.Eq(0).Text(),
			Output: pres.Eq(1).Text(),
		})
	})
	return samples, nil
}

// ProblemID returns "no123" for /problems/no/123 and the raw problem id for
// /problems/123.
func (Yukicoder) ProblemID(u *url.URL) (string, error) {
	parts := splitPath(u)
	for i, p := range parts {
		if p != "problems" {
			continue
		}
		rest := parts[i+1:]
		switch {
		case len(rest) >= 2 && rest[0] == "no":
			return "no" + rest[1], nil
		case len(rest) >= 1:
			return rest[0], nil
		}
	}
	return "", fmt.Errorf("failed to find problem id in url: %s", u)
}

func (Yukicoder) IsContestURL(u *url.URL) bool {
	parts := splitPath(u)
	return len(parts) == 2 && parts[0] == "contests"
}

func (Yukicoder) ContestListURL(u *url.URL) string { return u.String() }

// ContestProblems collects /problems/no/ links from a contest table.
func (Yukicoder) ContestProblems(doc *Document, base *url.URL) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var urls []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/problems/no/") || strings.ContainsAny(href, "?#") {
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
		return nil, fmt.Errorf("no problem links found on %s", base)
	}
	return urls, nil
}
