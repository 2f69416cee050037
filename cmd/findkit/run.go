package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/dshills/findkit/internal/config"
	"github.com/dshills/findkit/internal/document"
	"github.com/dshills/findkit/internal/script"
	"github.com/dshills/findkit/internal/search"
	"github.com/dshills/findkit/internal/watcher"
)

func run(args []string, stdout, stderr io.Writer) int {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Version {
		fmt.Fprintf(stdout, "findkit %s (%s)\n", version, commit)
		return 0
	}
	if opts.Args.Pattern == "" {
		fmt.Fprintln(stderr, "Error: the required argument PATTERN was not provided")
		return 1
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	searchOpts := cfg.Options(opts.Args.Pattern)
	// CLI flags only turn modes on; config supplies the rest.
	searchOpts.Regex = searchOpts.Regex || opts.Regex
	searchOpts.CaseSensitive = searchOpts.CaseSensitive || opts.CaseSensitive
	searchOpts.WholeWord = searchOpts.WholeWord || opts.WholeWord
	searchOpts.DotMatchesNewline = searchOpts.DotMatchesNewline || opts.DotMatchesNewline
	// Wrap-around is a navigation concern; a batch scan never wraps.
	searchOpts.Wrap = false

	if err := searchOpts.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	paths := opts.Args.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	targets := collectTargetFiles(paths, stderr)
	if len(targets) == 0 {
		fmt.Fprintln(stdout, "No files to search.")
		return 0
	}

	if opts.Watch {
		if opts.Replace != nil {
			fmt.Fprintln(stderr, "Error: --watch cannot be combined with --replace")
			return 1
		}
		return runWatch(targets, searchOpts, opts, cfg, stdout, stderr)
	}

	return runOnce(targets, searchOpts, opts, stdout, stderr)
}

// runOnce performs a single scan (and optional replacement) over the
// target files.
func runOnce(targets []string, searchOpts search.Options, opts cliOptions, stdout, stderr io.Writer) int {
	inputs, applied, failed := loadAndMaybeReplace(targets, searchOpts, opts, stderr)

	report, err := search.SearchInFiles(inputs, searchOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.InResults != "" {
		sub := searchOpts
		sub.Pattern = opts.InResults
		report, err = report.SearchInResults(sub)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	var marks *search.MarkSummary
	if opts.MarkWhere != "" {
		predicate, err := script.NewPredicate(opts.MarkWhere)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer predicate.Close()
		summary := report.MarkWhere(predicate.Func())
		marks = &summary
	}

	renderReport(stdout, searchOpts.Pattern, report)
	if marks != nil {
		fmt.Fprintf(stdout, "Marked %d matches (%d already marked).\n", marks.NewlyMarked, marks.AlreadyMarked)
	}

	if opts.Replace != nil && !report.IsEmpty() {
		if opts.Apply {
			for _, a := range applied {
				fmt.Fprintf(stdout, "Applied %d replacements to %s\n", a.count, a.path)
			}
		} else {
			fmt.Fprintln(stdout, "Dry run only; re-run with --apply to write changes.")
		}
	}

	if failed > 0 {
		fmt.Fprintf(stderr, "warning: %d file(s) could not be read\n", failed)
	}
	return 0
}

type appliedFile struct {
	path  string
	count int
}

// loadAndMaybeReplace decodes each target file and, in replace mode,
// computes (and with --apply persists) the replacement. Unreadable
// files stay in the input set with empty contents so the report keeps
// a zero-match entry for them.
func loadAndMaybeReplace(targets []string, searchOpts search.Options, opts cliOptions, stderr io.Writer) (inputs []search.FileInput, applied []appliedFile, failed int) {
	for _, path := range targets {
		doc, err := document.Open(path)
		if err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
			inputs = append(inputs, search.FileInput{Path: path})
			failed++
			continue
		}

		// The report always shows the pre-replacement matches, so keep
		// the text as it was loaded.
		text := doc.Contents()

		if opts.Replace != nil && opts.Apply {
			outcome, err := search.ReplaceAll(text, searchOpts, *opts.Replace)
			if err != nil {
				fmt.Fprintf(stderr, "warning: %s: %v\n", path, err)
				inputs = append(inputs, search.FileInput{Path: path})
				failed++
				continue
			}
			if outcome.Replacements > 0 {
				doc.SetContents(outcome.NewText)
				if err := doc.Save(); err != nil {
					fmt.Fprintf(stderr, "warning: %v\n", err)
					failed++
				} else {
					applied = append(applied, appliedFile{path: path, count: outcome.Replacements})
				}
			}
		}

		inputs = append(inputs, search.FileInput{Path: path, Contents: text})
	}
	return inputs, applied, failed
}

// runWatch re-runs the search whenever a watched file changes, until
// interrupted.
func runWatch(targets []string, searchOpts search.Options, opts cliOptions, cfg config.Config, stdout, stderr io.Writer) int {
	if code := runOnce(targets, searchOpts, opts, stdout, stderr); code != 0 {
		return code
	}

	w, err := watcher.New(cfg.Debounce())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	for _, path := range targets {
		if err := w.Add(path); err != nil {
			fmt.Fprintf(stderr, "warning: watch %s: %v\n", path, err)
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-signals:
			return 0
		case err := <-w.Errors():
			fmt.Fprintf(stderr, "warning: %v\n", err)
		case ch := <-w.Changes():
			if ch.Removed {
				fmt.Fprintf(stderr, "warning: %s removed\n", ch.Path)
			}
			fmt.Fprintln(stdout)
			if code := runOnce(targets, searchOpts, opts, stdout, stderr); code != 0 {
				return code
			}
		}
	}
}

// collectTargetFiles expands the given paths: files are taken as-is,
// directories are walked recursively. Missing paths produce a warning
// and are skipped.
func collectTargetFiles(paths []string, stderr io.Writer) []string {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(stderr, "warning: %s does not exist\n", path)
			continue
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				fmt.Fprintf(stderr, "warning: %s: %v\n", p, err)
				return nil
			}
			if !d.IsDir() {
				files = append(files, p)
			}
			return nil
		})
		if walkErr != nil {
			fmt.Fprintf(stderr, "warning: %s: %v\n", path, walkErr)
		}
	}
	return files
}
