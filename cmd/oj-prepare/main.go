// Command oj-prepare sets up working directories for a contest or a
// single problem: templates, sample cases and optional random cases.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/templategen/internal/codegen"
	"github.com/programme-lv/templategen/internal/environment"
	"github.com/programme-lv/templategen/internal/fetch"
	"github.com/programme-lv/templategen/internal/prepare"
	"github.com/programme-lv/templategen/internal/xdgdirs"
)

func main() {
	cmd := &cli.Command{
		Name:      "oj-prepare",
		Usage:     "prepare problem directories for a contest or a single problem",
		ArgsUsage: "URL",
		Version:   "v" + codegen.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "re-download pages even when cached",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "oj-prepare: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("verbose"))

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one contest or problem URL, got %d arguments", cmd.Args().Len())
	}
	rawURL := cmd.Args().First()

	env := environment.ReadEnvConfig()
	dirs := xdgdirs.New("templategen")

	cfg, err := prepare.LoadConfig(dirs, cmd.String("config"))
	if err != nil {
		return err
	}

	p := prepare.New(cfg, newFetcher(env, dirs), dirs,
		prepare.WithReporter(prepare.NewTermReporter(os.Stdout)),
		prepare.WithFresh(cmd.Bool("fresh")))
	return p.Run(ctx, rawURL)
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
