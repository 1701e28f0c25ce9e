// Command box-dump prints the box tree of ISO base media files.
//
// Usage:
//
//	box-dump [flags] <file or URL>...
//
// Local files are parsed concurrently; http and https arguments are read
// with range requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/phsym/console-slog"

	"github.com/simonhull/isobmff"
	"github.com/simonhull/isobmff/internal/dump"
)

type flags struct {
	config   string
	json     bool
	fields   bool
	verbose  bool
	info     bool
	strict   bool
	debug    bool
	depth    int
	entries  int
	user     string
	password string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "YAML configuration `file`")
	flag.BoolVar(&f.json, "json", false, "print the tree as JSON")
	flag.BoolVar(&f.fields, "fields", false, "print decoded fields on each box line")
	flag.BoolVar(&f.verbose, "verbose", false, "print every decoded field below each box")
	flag.BoolVar(&f.info, "info", false, "print the presentation summary instead of the tree")
	flag.BoolVar(&f.strict, "strict", false, "fail on the first malformed box")
	flag.BoolVar(&f.debug, "debug", false, "log parser debug records to stderr")
	flag.IntVar(&f.depth, "depth", 0, "print at most `n` levels (0 = all)")
	flag.IntVar(&f.entries, "entries", dump.DefaultMaxEntries, "print at most `n` table entries per field (-1 = all)")
	flag.StringVar(&f.user, "user", "", "digest auth user for URLs")
	flag.StringVar(&f.password, "password", "", "digest auth password for URLs")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: box-dump [flags] <file or URL>...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "box-dump: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, args []string, out io.Writer) error {
	var cfg isobmff.Config
	if f.config != "" {
		var err error
		if cfg, err = isobmff.LoadConfig(f.config); err != nil {
			return err
		}
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if f.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))

	opts := []isobmff.Option{isobmff.WithConfig(cfg), isobmff.WithLogger(logger)}
	if f.strict {
		opts = append(opts, isobmff.WithStrictParsing())
	}
	if f.user != "" {
		opts = append(opts, isobmff.WithDigestAuth(f.user, f.password))
	}

	files, err := open(ctx, args, opts)
	if err != nil {
		return err
	}
	defer func() {
		for _, file := range files {
			if err := file.Close(); err != nil {
				logger.Warn("close failed", "path", file.Path, "error", err)
			}
		}
	}()

	dumpOpts := isobmff.DumpOptions{
		JSON:       f.json,
		Fields:     f.fields,
		Verbose:    f.verbose,
		MaxEntries: f.entries,
		MaxDepth:   f.depth,
	}

	for i, file := range files {
		if len(files) > 1 && !f.json {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s (%s)\n", file.Path, file.Format)
		}

		if f.info {
			err = dump.Info(out, file.Info())
		} else {
			err = file.Dump(out, dumpOpts)
		}
		if err != nil {
			return err
		}

		if err := dump.Warnings(os.Stderr, file.Warnings); err != nil {
			return err
		}
	}
	return nil
}

// open parses URLs one by one and local files concurrently, keeping the
// argument order.
func open(ctx context.Context, args []string, opts []isobmff.Option) ([]*isobmff.File, error) {
	var paths []string
	for _, arg := range args {
		if !isURL(arg) {
			paths = append(paths, arg)
		}
	}

	local, err := isobmff.OpenManyWith(ctx, paths, opts)
	if err != nil {
		return nil, err
	}

	files := make([]*isobmff.File, 0, len(args))
	for _, arg := range args {
		if !isURL(arg) {
			files = append(files, local[0])
			local = local[1:]
			continue
		}

		file, err := isobmff.OpenURL(ctx, arg, opts...)
		if err != nil {
			for _, f := range append(files, local...) {
				_ = f.Close()
			}
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}
