package prepare

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter receives progress events while problems are prepared.
// Problems run concurrently, so methods must tolerate interleaved calls.
type Reporter interface {
	// StartProblem fires once per problem before any work happens.
	StartProblem(id, url string)
	// WroteFile fires for every file written under the problem directory.
	WroteFile(id, path string)
	// SkipTemplate fires when a template cannot be rendered for a problem.
	SkipTemplate(id, template string, err error)
	// FinishProblem closes a problem; err carries what went wrong, if
	// anything.
	FinishProblem(id string, err error)
}

// NopReporter drops all events.
type NopReporter struct{}

func (NopReporter) StartProblem(id, url string)                 {}
func (NopReporter) WroteFile(id, path string)                   {}
func (NopReporter) SkipTemplate(id, template string, err error) {}
func (NopReporter) FinishProblem(id string, err error)          {}

// TermReporter prints one line per event, colored for terminals. Events
// from concurrent problems interleave, so every line names its problem.
type TermReporter struct {
	mu  sync.Mutex
	out io.Writer

	head *color.Color
	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

func NewTermReporter(out io.Writer) *TermReporter {
	return &TermReporter{
		out:  out,
		head: color.New(color.FgCyan, color.Bold),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
	}
}

func (r *TermReporter) StartProblem(id, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head.Fprintf(r.out, "-> %s", id)
	fmt.Fprintf(r.out, " (%s)\n", url)
}

func (r *TermReporter) WroteFile(id, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "   %s: ", id)
	r.ok.Fprintf(r.out, "wrote %s\n", path)
}

func (r *TermReporter) SkipTemplate(id, template string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "   %s: ", id)
	r.warn.Fprintf(r.out, "skipped %s: %v\n", template, err)
}

func (r *TermReporter) FinishProblem(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.fail.Fprintf(r.out, "<- %s failed: %v\n", id, err)
		return
	}
	r.ok.Fprintf(r.out, "<- %s done\n", id)
}
