// Package rasusa adapts the external rasusa tool, which performs the
// statistically correct random read selection given a genome size estimate
// and a target coverage.
package rasusa

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// Seed pins rasusa's RNG so identical inputs downsample identically across
// runs.
const Seed uint64 = 11327544032246541232

// ErrTool reports a non-zero rasusa exit.
var ErrTool = errors.New("rasusa exited with an error")

// Subsampler invokes rasusa reads on one pair.
type Subsampler struct {
	Bin string // rasusa binary; empty means "rasusa" on PATH
	Log *zap.Logger
}

func New(log *zap.Logger) *Subsampler { return &Subsampler{Bin: "rasusa", Log: log} }

// Subsample reduces the pair to roughly coverage× of genomeSize, writing the
// two output files. On success exactly out1 and out2 exist; on failure the
// tool's stderr tail is attached to the returned error.
func (s *Subsampler) Subsample(ctx context.Context, read1, read2 string, genomeSize float64, coverage int, out1, out2 string) error {
	bin := s.Bin
	if bin == "" {
		bin = "rasusa"
	}
	args := []string{
		"reads",
		"-s", strconv.FormatUint(Seed, 10),
		"-g", strconv.FormatFloat(genomeSize, 'f', -1, 64),
		"-c", strconv.Itoa(coverage),
		"-o", out1,
		"-o", out2,
		read1, read2,
	}
	if s.Log != nil {
		s.Log.Debug("invoking subsampler", zap.String("cmd", shellquote.Join(append([]string{bin}, args...)...)))
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(ErrTool, "%v: %s", err, msg)
		}
		return errors.Wrapf(ErrTool, "%v", err)
	}
	return nil
}
