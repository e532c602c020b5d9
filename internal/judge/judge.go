// Package judge knows the handful of online judges the generator
// understands: how to recognize their URLs and how to dig the input format
// section, the sample cases and contest problem lists out of their pages.
package judge

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed problem page.
type Document = goquery.Document

var (
	// ErrUnknownJudge means the URL does not belong to a supported judge.
	ErrUnknownJudge = errors.New("unknown judge")
	// ErrNoFormat means the page carries no recognizable input format section.
	ErrNoFormat = errors.New("input format section not found")
	// ErrSamplesUnsupported means the judge's pages carry no scrapable samples.
	ErrSamplesUnsupported = errors.New("sample extraction is not supported for this judge")
	// ErrContestUnsupported means the judge has no contest listing to scrape.
	ErrContestUnsupported = errors.New("contest listing is not supported for this judge")
)

// Sample is one example input/output pair from a problem statement.
type Sample struct {
	Input  string
	Output string
}

// Judge is one supported judge site.
type Judge interface {
	// Name is the short identifier, e.g. "atcoder".
	Name() string
	// ExtractFormat returns the raw text of the input format block.
	ExtractFormat(doc *Document) (string, error)
	// ExtractSamples returns the statement's sample cases in order.
	ExtractSamples(doc *Document) ([]Sample, error)
	// ProblemID returns a directory-safe identifier for a problem URL.
	ProblemID(u *url.URL) (string, error)
	// IsContestURL reports whether the URL names a contest rather than a
	// single problem.
	IsContestURL(u *url.URL) bool
	// ContestListURL returns the URL of the page that enumerates a
	// contest's problems.
	ContestListURL(u *url.URL) string
	// ContestProblems returns the problem URLs found on a contest listing
	// page, resolved against base.
	ContestProblems(doc *Document, base *url.URL) ([]string, error)
}

// Detect picks the judge responsible for a URL.
func Detect(rawURL string) (Judge, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}
	host := u.Hostname()
	for _, j := range judges {
		if host == j.host || strings.HasSuffix(host, "."+j.host) {
			return j.judge, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownJudge, rawURL)
}

type hostedJudge struct {
	host  string
	judge Judge
}

var judges = []hostedJudge{
	{host: "atcoder.jp", judge: AtCoder{}},
	{host: "yukicoder.me", judge: Yukicoder{}},
	{host: "judge.yosupo.jp", judge: Yosupo{}},
}

// ParseHTML parses a fetched page body.
func ParseHTML(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// headingText compares a heading's text ignoring surrounding whitespace.
func headingText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// resolveRef turns an href into an absolute URL against base.
func resolveRef(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
