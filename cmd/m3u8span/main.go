package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mogiioin/hls-m3u8span/m3u8"
)

var version = "dev"

var errUsage = errors.New("usage")

type options struct {
	strict    bool
	events    bool
	encode    bool
	format    string
	segments  int
	variants  int
	maxEvents int
	base      string
}

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("m3u8span", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.strict, "strict", false, "fail on the first unsupported #EXT tag")
	fs.BoolVar(&opts.events, "events", false, "report one event per line instead of a playlist")
	fs.BoolVar(&opts.encode, "encode", false, "include the re-encoded playlist in the report")
	fs.StringVar(&opts.format, "format", envOr("M3U8SPAN_FORMAT", "text"), "output format: text, json or yaml")
	fs.IntVar(&opts.segments, "segments", 1024, "maximum number of segments stored per playlist")
	fs.IntVar(&opts.variants, "variants", 256, "maximum number of variants stored per playlist")
	fs.IntVar(&opts.maxEvents, "max-events", 0, "maximum number of events stored per playlist, 0 for all")
	fs.StringVar(&opts.base, "base", envOr("M3U8SPAN_BASE", ""), "resolve URIs against this playlist URL")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: m3u8span [flags] playlist.m3u8...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return opts, nil, fmt.Errorf("%w: no playlist given", errUsage)
	}
	if opts.segments < 0 || opts.variants < 0 || opts.maxEvents < 0 {
		return opts, nil, fmt.Errorf("%w: capacities must not be negative", errUsage)
	}
	return opts, fs.Args(), nil
}

// run decodes every file named in args concurrently and writes the reports
// to stdout in argument order. The exit code is the negated status of the
// first file that failed, or 0.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, files, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		return exitCode(m3u8.StatusInvalidArgument)
	}
	formatter, err := newFormatter(opts.format)
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		return exitCode(m3u8.StatusInvalidArgument)
	}
	var base *url.URL
	if opts.base != "" {
		if base, err = url.Parse(opts.base); err != nil {
			slog.Error("invalid base URL", "base", opts.base, "error", err)
			return exitCode(m3u8.StatusInvalidArgument)
		}
	}

	slog.Debug("m3u8span starting", "version", version, "files", len(files), "strict", opts.strict, "events", opts.events)

	reports := make([]*report, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = inspect(name, opts, base)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("interrupted", "error", err)
		return exitCode(m3u8.StatusOther)
	}

	out, err := formatter.Format(reports)
	if err != nil {
		slog.Error("failed to format report", "format", opts.format, "error", err)
		return exitCode(m3u8.StatusOther)
	}
	if _, err := stdout.Write(out); err != nil {
		slog.Error("failed to write report", "error", err)
		return exitCode(m3u8.StatusOther)
	}

	for _, r := range reports {
		if r.Status != m3u8.StatusOK {
			return exitCode(r.Status)
		}
	}
	return 0
}

func exitCode(status int) int {
	return -status
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
