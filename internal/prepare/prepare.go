// Package prepare turns a judge URL into ready-to-work problem
// directories: rendered templates, downloaded sample cases and optional
// random cases, fanned out over a bounded worker group.
package prepare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/programme-lv/templategen/api"
	"github.com/programme-lv/templategen/internal/analyzer"
	"github.com/programme-lv/templategen/internal/codegen"
	"github.com/programme-lv/templategen/internal/fetch"
	"github.com/programme-lv/templategen/internal/format"
	"github.com/programme-lv/templategen/internal/judge"
	"github.com/programme-lv/templategen/internal/randcase"
	"github.com/programme-lv/templategen/internal/xdgdirs"
)

// Preparer fetches problems and writes their working directories.
type Preparer struct {
	cfg     Config
	fetcher *fetch.Client
	dirs    *xdgdirs.Dirs
	rep     Reporter
	workdir string
	fresh   bool
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithReporter routes progress events to rep.
func WithReporter(rep Reporter) Option { return func(p *Preparer) { p.rep = rep } }

// WithWorkdir writes problem directories under dir instead of ".".
func WithWorkdir(dir string) Option { return func(p *Preparer) { p.workdir = dir } }

// WithFresh bypasses the page cache.
func WithFresh(fresh bool) Option { return func(p *Preparer) { p.fresh = fresh } }

// New returns a Preparer writing under the current directory.
func New(cfg Config, fetcher *fetch.Client, dirs *xdgdirs.Dirs, opts ...Option) *Preparer {
	p := &Preparer{
		cfg:     cfg,
		fetcher: fetcher,
		dirs:    dirs,
		rep:     NopReporter{},
		workdir: ".",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run prepares every problem behind rawURL: the single problem it names,
// or all problems of the contest it names. Problems run concurrently,
// at most cfg.Parallelism at a time. A failing problem does not stop its
// siblings; Run reports it and returns an aggregate error at the end.
func (p *Preparer) Run(ctx context.Context, rawURL string) error {
	j, err := judge.Detect(rawURL)
	if err != nil {
		return err
	}
	if err := p.checkTemplates(); err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}

	problems := []string{rawURL}
	contest := j.IsContestURL(u)
	if contest {
		problems, err = p.contestProblems(ctx, j, u)
		if err != nil {
			return err
		}
		slog.Info("preparing contest",
			slog.String("url", rawURL), slog.Int("problems", len(problems)))
	}

	var (
		mu     sync.Mutex
		failed int
	)
	dirsByProblem := make([]string, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Parallelism)
	for i, problemURL := range problems {
		g.Go(func() error {
			id := problemLabel(j, problemURL)
			p.rep.StartProblem(id, problemURL)
			dir, err := p.prepareProblem(gctx, j, id, problemURL, contest)
			p.rep.FinishProblem(id, err)
			if err != nil {
				slog.Warn("failed to prepare problem",
					slog.String("problem", id), slog.Any("error", err))
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			dirsByProblem[i] = dir
			return nil
		})
	}
	// workers report their own failures and never return an error
	_ = g.Wait()

	var written []string
	for _, dir := range dirsByProblem {
		if dir != "" {
			written = append(written, dir)
		}
	}
	if err := appendHistory(p.dirs, newHistoryRecord(rawURL, written)); err != nil {
		slog.Warn("failed to record history", slog.Any("error", err))
	}

	if failed > 0 {
		return fmt.Errorf("failed to prepare %d of %d problems", failed, len(problems))
	}
	return nil
}

// checkTemplates fails fast on template names that do not exist, before
// any problem work starts.
func (p *Preparer) checkTemplates() error {
	known := make(map[string]bool)
	for _, name := range codegen.List() {
		known[name] = true
	}
	for name := range p.cfg.Templates {
		if !known[name] {
			return fmt.Errorf("unknown template %q in config (have: %s)",
				name, strings.Join(codegen.List(), ", "))
		}
	}
	return nil
}

func (p *Preparer) contestProblems(ctx context.Context, j judge.Judge, u *url.URL) ([]string, error) {
	listURL := j.ContestListURL(u)
	body, err := p.fetchPage(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contest page: %w", err)
	}
	doc, err := judge.ParseHTML(body)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url %q: %w", listURL, err)
	}
	return j.ContestProblems(doc, base)
}

// prepareProblem writes one problem's directory and returns its path.
// A failed analysis degrades: templates are skipped with a warning while
// samples are still written.
func (p *Preparer) prepareProblem(ctx context.Context, j judge.Judge, id, rawURL string, contest bool) (string, error) {
	body, err := p.fetchPage(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch problem page: %w", err)
	}
	doc, err := judge.ParseHTML(body)
	if err != nil {
		return "", err
	}

	samples, err := j.ExtractSamples(doc)
	if err != nil {
		if !errors.Is(err, judge.ErrSamplesUnsupported) {
			slog.Warn("failed to extract samples",
				slog.String("problem", id), slog.Any("error", err))
		}
		samples = nil
	}

	tree, analysisErr := analyzer.Analyze(j, doc)
	if analysisErr != nil {
		slog.Warn("failed to analyze input format",
			slog.String("problem", id), slog.Any("error", analysisErr))
	}

	dir := p.problemDir(id, contest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create problem dir: %w", err)
	}

	if err := p.renderTemplates(ctx, j, id, rawURL, dir, tree, samples, analysisErr); err != nil {
		return "", err
	}
	if err := p.writeSamples(id, dir, samples); err != nil {
		return "", err
	}
	if analysisErr == nil {
		if err := p.writeRandomCases(id, dir, tree); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// problemDir is the working directory itself for a single problem, or a
// per-problem subdirectory when preparing a contest.
func (p *Preparer) problemDir(id string, contest bool) string {
	if !contest {
		return p.workdir
	}
	sub := strings.ReplaceAll(p.cfg.ContestDirFormat, "{problem_id}", id)
	return filepath.Join(p.workdir, sub)
}

func (p *Preparer) renderTemplates(ctx context.Context, j judge.Judge, id, rawURL, dir string, tree format.Node, samples []judge.Sample, analysisErr error) error {
	names := make([]string, 0, len(p.cfg.Templates))
	for name := range p.cfg.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var data *api.TemplateData
	dataErr := analysisErr
	if dataErr == nil {
		data, dataErr = codegen.NewData(rawURL, j.Name(), id, tree, samples)
	}

	for _, name := range names {
		if dataErr != nil {
			p.rep.SkipTemplate(id, name, dataErr)
			continue
		}
		rendered, err := codegen.Render(ctx, name, data)
		if err != nil {
			p.rep.SkipTemplate(id, name, err)
			continue
		}
		path := filepath.Join(dir, p.cfg.Templates[name])
		if err := p.writeNewFile(id, path, rendered); err != nil {
			return err
		}
	}
	return nil
}

func (p *Preparer) writeSamples(id, dir string, samples []judge.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	testDir := filepath.Join(dir, p.cfg.TestDir)
	if err := os.MkdirAll(testDir, 0755); err != nil {
		return fmt.Errorf("failed to create test dir: %w", err)
	}
	for i, s := range samples {
		in := filepath.Join(testDir, fmt.Sprintf("sample-%d.in", i+1))
		if err := p.writeNewFile(id, in, []byte(s.Input)); err != nil {
			return err
		}
		out := filepath.Join(testDir, fmt.Sprintf("sample-%d.out", i+1))
		if err := p.writeNewFile(id, out, []byte(s.Output)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Preparer) writeRandomCases(id, dir string, tree format.Node) error {
	if p.cfg.RandomCases <= 0 || tree == nil {
		return nil
	}
	testDir := filepath.Join(dir, p.cfg.TestDir)
	if err := os.MkdirAll(testDir, 0755); err != nil {
		return fmt.Errorf("failed to create test dir: %w", err)
	}
	// each worker gets its own rng, math/rand sources are not safe for
	// concurrent use
	gen := randcase.New(rand.New(rand.NewSource(time.Now().UnixNano())), randcase.Options{})
	for i := range p.cfg.RandomCases {
		input, err := gen.Generate(tree)
		if err != nil {
			slog.Warn("failed to generate random case",
				slog.String("problem", id), slog.Any("error", err))
			return nil
		}
		path := filepath.Join(testDir, fmt.Sprintf("random-%d.in", i+1))
		if err := p.writeNewFile(id, path, []byte(input)); err != nil {
			return err
		}
	}
	return nil
}

// writeNewFile writes path unless it already exists. Re-running prepare
// must not clobber files the user may have edited.
func (p *Preparer) writeNewFile(id, path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		slog.Warn("file already exists, keeping it", slog.String("path", path))
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	p.rep.WroteFile(id, p.relPath(path))
	return nil
}

// relPath shortens paths for progress output.
func (p *Preparer) relPath(path string) string {
	rel, err := filepath.Rel(p.workdir, path)
	if err != nil {
		return path
	}
	return rel
}

func (p *Preparer) fetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	if p.fresh {
		return p.fetcher.GetFresh(ctx, rawURL)
	}
	return p.fetcher.Get(ctx, rawURL)
}

// problemLabel is the id used in progress output, falling back to the
// URL when no id can be derived.
func problemLabel(j judge.Judge, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	id, err := j.ProblemID(u)
	if err != nil {
		return rawURL
	}
	return id
}
