// Command oj-template renders a solution or input-generator template
// from a single problem page.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/templategen/internal/analyzer"
	"github.com/programme-lv/templategen/internal/codegen"
	"github.com/programme-lv/templategen/internal/environment"
	"github.com/programme-lv/templategen/internal/fetch"
	"github.com/programme-lv/templategen/internal/judge"
	"github.com/programme-lv/templategen/internal/xdgdirs"
)

func main() {
	cmd := &cli.Command{
		Name:      "oj-template",
		Usage:     "generate a solution template from a problem page",
		ArgsUsage: "URL",
		Version:   "v" + codegen.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "template `NAME` to render",
				Value:   "main.cpp",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to `FILE` instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "list-templates",
				Usage: "list available template names and exit",
			},
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "re-download the page even when cached",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "oj-template: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("verbose"))

	if cmd.Bool("list-templates") {
		for _, name := range codegen.List() {
			fmt.Println(name)
		}
		return nil
	}
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one problem URL, got %d arguments", cmd.Args().Len())
	}
	rawURL := cmd.Args().First()

	j, err := judge.Detect(rawURL)
	if err != nil {
		return err
	}

	env := environment.ReadEnvConfig()
	dirs := xdgdirs.New("templategen")
	fetcher := newFetcher(env, dirs)

	body, err := fetchPage(ctx, fetcher, rawURL, cmd.Bool("fresh"))
	if err != nil {
		return err
	}
	doc, err := judge.ParseHTML(body)
	if err != nil {
		return err
	}

	tree, err := analyzer.Analyze(j, doc)
	if err != nil {
		return fmt.Errorf("failed to analyze input format: %w", err)
	}
	samples, err := j.ExtractSamples(doc)
	if err != nil {
		slog.Debug("no samples extracted", slog.Any("error", err))
		samples = nil
	}

	data, err := codegen.NewData(rawURL, j.Name(), problemID(j, rawURL), tree, samples)
	if err != nil {
		return err
	}
	rendered, err := codegen.Render(ctx, cmd.String("template"), data)
	if err != nil {
		return err
	}
	return writeOutput(cmd.String("output"), rendered)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))
}

func newFetcher(env *environment.EnvConfig, dirs *xdgdirs.Dirs) *fetch.Client {
	cacheDir := env.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(dirs.CacheDir(), "pages")
	}
	var opts []fetch.Option
	if env.Cookie != "" {
		opts = append(opts, fetch.WithCookie(env.Cookie))
	}
	if env.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(env.UserAgent))
	}
	return fetch.New(cacheDir, opts...)
}

func fetchPage(ctx context.Context, fetcher *fetch.Client, rawURL string, fresh bool) ([]byte, error) {
	if fresh {
		return fetcher.GetFresh(ctx, rawURL)
	}
	return fetcher.Get(ctx, rawURL)
}

// problemID is best-effort banner metadata; rendering works without it.
func problemID(j judge.Judge, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	id, err := j.ProblemID(u)
	if err != nil {
		return ""
	}
	return id
}

// writeOutput sends the rendered template to stdout when path is empty
// or "-".
func writeOutput(path string, content []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("wrote template", slog.String("path", path))
	return nil
}
