package judge

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Yosupo scrapes the Library Checker at judge.yosupo.jp. Its statements keep
// the format in a <pre> right after the Input heading; samples live in the
// testcase repository rather than the page, so they cannot be scraped.
type Yosupo struct{}

func (Yosupo) Name() string { return "library-checker" }

var yosupoInputHeadings = map[string]bool{
	"Input":       true,
	"Input / 入力": true,
	"入力":          true,
}

func (Yosupo) ExtractFormat(doc *Document) (string, error) {
	var text string
	found := false
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !yosupoInputHeadings[headingText(h)] {
			return true
		}
		pre := h.NextAllFiltered("pre").First()
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

func (Yosupo) ExtractSamples(doc *Document) ([]Sample, error) {
	return nil, ErrSamplesUnsupported
}

// ProblemID returns "aplusb" for /problem/aplusb.
func (Yosupo) ProblemID(u *url.URL) (string, error) {
	parts := splitPath(u)
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "problem" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("failed to find problem name in url: %s", u)
}

func (Yosupo) IsContestURL(u *url.URL) bool { return false }

func (Yosupo) ContestListURL(u *url.URL) string { return u.String() }

func (Yosupo) ContestProblems(doc *Document, base *url.URL) ([]string, error) {
	return nil, ErrContestUnsupported
}
