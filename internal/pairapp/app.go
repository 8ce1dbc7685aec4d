// internal/pairapp/app.go
package pairapp

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"tablespoon/internal/logging"
	"tablespoon/internal/mash"
	"tablespoon/internal/naming"
	"tablespoon/internal/paircli"
	"tablespoon/internal/processor"
	"tablespoon/internal/rasusa"
	"tablespoon/internal/scan"
	"tablespoon/internal/version"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := paircli.NewFlagSet("teaspoon")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := paircli.ParseArgs(fs, argv)
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
		fmt.Fprintf(outw, "teaspoon version %s\n", version.Version)
		return 0
	}

	if !isRegular(opts.Read1) || !isRegular(opts.Read2) {
		fmt.Fprintln(stderr, "error: one or both read files do not exist")
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
	if scheme == naming.Insert {
		for _, r := range []string{opts.Read1, opts.Read2} {
			if !strings.Contains(filepath.Base(r), "_") {
				fmt.Fprintf(stderr, "error: insert scheme requires an underscore in %s\n", filepath.Base(r))
				return 1
			}
		}
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "error: create output directory: %v\n", err)
		return 1
	}

	log := logging.New(stderr, opts.Verbose, opts.Quiet)
	defer func() { _ = log.Sync() }()

	proc := &processor.Processor{
		Scheme:     scheme,
		Coverage:   opts.Coverage,
		OutputDir:  opts.OutputDir,
		Estimator:  mash.New(log),
		Subsampler: rasusa.New(log),
		Log:        log,
	}
	o := proc.Process(parent, scan.ReadPair{Read1: opts.Read1, Read2: opts.Read2})
	if parent.Err() != nil {
		return 130
	}
	if o.Err != nil {
		fmt.Fprintln(stderr, "error:", o.Err)
		return 1
	}
	fmt.Fprintf(outw, "wrote %s and %s\n", o.Outputs[0], o.Outputs[1])
	return 0
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
