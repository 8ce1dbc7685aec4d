// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tablespoon/internal/cli"
	"tablespoon/internal/logging"
	"tablespoon/internal/mash"
	"tablespoon/internal/naming"
	"tablespoon/internal/pipeline"
	"tablespoon/internal/processor"
	"tablespoon/internal/rasusa"
	"tablespoon/internal/scan"
	"tablespoon/internal/version"
)

// RunSummary aggregates per-pair outcomes for the final report.
type RunSummary struct {
	Total      int
	Subsampled int
	Copied     int
	Failed     int
	Failures   []processor.Outcome
}

// Succeeded counts every pair that produced outputs, verbatim copies
// included.
func (s RunSummary) Succeeded() int { return s.Subsampled + s.Copied }

// Summarize folds outcomes into a RunSummary with failures in a
// deterministic order.
func Summarize(outs []processor.Outcome) RunSummary {
	s := RunSummary{Total: len(outs)}
	for _, o := range outs {
		switch o.Status {
		case processor.Subsampled:
			s.Subsampled++
		case processor.Copied:
			s.Copied++
		default:
			s.Failed++
			s.Failures = append(s.Failures, o)
		}
	}
	sort.Slice(s.Failures, func(i, j int) bool {
		return s.Failures[i].Pair.Read1 < s.Failures[j].Pair.Read1
	})
	return s
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("tablespoon")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if opts.Version {
		fmt.Fprintf(outw, "tablespoon version %s\n", version.Version)
		return 0
	}

	// Fail-fast validation, before touching the filesystem pipeline.
	if fi, err := os.Stat(opts.InputDir); err != nil || !fi.IsDir() {
		fmt.Fprintf(stderr, "error: %s is not a valid directory\n", opts.InputDir)
		return 1
	}
	scheme, err := naming.ParseScheme(opts.NameType)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if opts.Coverage <= 0 {
		fmt.Fprintln(stderr, "error: desired coverage must be a positive integer")
		return 1
	}
	if opts.Threads <= 0 {
		fmt.Fprintln(stderr, "error: number of threads must be a positive integer")
		return 1
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "error: create output directory: %v\n", err)
		return 1
	}

	log := logging.New(stderr, opts.Verbose, opts.Quiet).
		With(zap.String("run_id", uuid.NewString()[:8]))
	defer func() { _ = log.Sync() }()

	pairs, err := scan.Pairs(opts.InputDir, opts.Exclude)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if scheme == naming.Insert {
		if err := checkInsertable(pairs); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}

	log.Info("downsampling read pairs",
		zap.Int("pairs", len(pairs)),
		zap.Int("coverage", opts.Coverage),
		zap.Stringer("scheme", scheme),
		zap.Int("threads", opts.Threads),
	)

	proc := &processor.Processor{
		Scheme:     scheme,
		Coverage:   opts.Coverage,
		OutputDir:  opts.OutputDir,
		Estimator:  mash.New(log),
		Subsampler: rasusa.New(log),
		Log:        log,
	}
	outcomes := pipeline.Run(parent, pipeline.Config{Threads: opts.Threads}, pairs, proc)
	if parent.Err() != nil {
		return 130
	}

	summary := Summarize(outcomes)
	printSummary(outw, summary, opts.Coverage, opts.OutputDir)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// checkInsertable rejects the insert scheme up front when any discovered
// filename cannot be split on an underscore; that is a configuration
// problem, not a per-pair one.
func checkInsertable(pairs []scan.ReadPair) error {
	for _, pair := range pairs {
		for _, r := range []string{pair.Read1, pair.Read2} {
			if !strings.Contains(filepath.Base(r), "_") {
				return errors.Newf("insert scheme requires an underscore in %s", filepath.Base(r))
			}
		}
	}
	return nil
}

func printSummary(w io.Writer, s RunSummary, coverage int, outputDir string) {
	fmt.Fprintf(w, "processed %d read pairs: %d succeeded (%d copied verbatim), %d failed\n",
		s.Total, s.Succeeded(), s.Copied, s.Failed)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "failed: %s and %s: %v\n", f.Pair.Read1, f.Pair.Read2, f.Err)
	}
	if s.Failed == 0 {
		fmt.Fprintf(w, "successfully downsampled reads to %dx coverage and saved to %s\n", coverage, outputDir)
	}
}
