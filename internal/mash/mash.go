// Package mash adapts the external mash sketching tool: it estimates genome
// size and sequencing depth for a read pair from the pair's raw bytes.
package mash

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// Sketch parameters match the reference pipeline: 21-mers, minimum copy
// count 10, reads mode, sketch itself discarded.
const (
	kmerSize  = "21"
	minCopies = "10"
)

// ErrParse reports mash diagnostics missing the expected estimate lines.
var ErrParse = errors.New("could not parse genome size and coverage from mash output")

// Estimate is a single-use genome size / depth estimate for one read pair.
type Estimate struct {
	GenomeSize float64
	Coverage   int
}

// Estimator invokes mash sketch over the concatenated bytes of a read pair.
type Estimator struct {
	Bin string // mash binary; empty means "mash" on PATH
	Log *zap.Logger
}

func New(log *zap.Logger) *Estimator { return &Estimator{Bin: "mash", Log: log} }

// Estimate streams read1 then read2 into `mash sketch -k 21 -m 10 -r -` and
// parses the estimates from the diagnostic stream. mash's exit status is
// deliberately ignored: the estimates land on stderr whether or not the
// throwaway sketch write succeeds, and the parse alone decides success.
func (e *Estimator) Estimate(ctx context.Context, read1, read2 string) (Estimate, error) {
	r1, err := os.Open(read1)
	if err != nil {
		return Estimate{}, errors.Wrap(err, "open read 1")
	}
	defer func() { _ = r1.Close() }()
	r2, err := os.Open(read2)
	if err != nil {
		return Estimate{}, errors.Wrap(err, "open read 2")
	}
	defer func() { _ = r2.Close() }()

	bin := e.Bin
	if bin == "" {
		bin = "mash"
	}
	args := []string{"sketch", "-o", os.DevNull, "-k", kmerSize, "-m", minCopies, "-r", "-"}
	if e.Log != nil {
		e.Log.Debug("invoking sketcher", zap.String("cmd", shellquote.Join(append([]string{bin}, args...)...)))
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = io.MultiReader(r1, r2)
	var diag bytes.Buffer
	cmd.Stderr = &diag

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return Estimate{}, ctx.Err()
	}
	est, perr := Parse(diag.String())
	if perr != nil {
		if runErr != nil {
			return Estimate{}, errors.Wrapf(perr, "mash: %v", runErr)
		}
		return Estimate{}, perr
	}
	return est, nil
}

// Parse extracts the two estimate lines from mash's diagnostic text.
// Coverage is rounded half away from zero.
func Parse(diag string) (Estimate, error) {
	var (
		genome, coverage float64
		haveG, haveC     bool
	)
	for _, line := range strings.Split(diag, "\n") {
		if v, ok := valueAfter(line, "Estimated genome size:"); ok {
			genome, haveG = v, true
		} else if v, ok := valueAfter(line, "Estimated coverage:"); ok {
			coverage, haveC = v, true
		}
	}
	if !haveG || !haveC {
		return Estimate{}, ErrParse
	}
	return Estimate{GenomeSize: genome, Coverage: int(math.Round(coverage))}, nil
}

func valueAfter(line, prefix string) (float64, bool) {
	if !strings.HasPrefix(line, prefix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, prefix)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
