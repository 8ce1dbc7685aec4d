// Package processor runs the full downsampling operation for one read pair:
// output naming, the effectively-empty short-circuit, coverage estimation,
// and subsampling.
package processor

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"tablespoon/internal/mash"
	"tablespoon/internal/naming"
	"tablespoon/internal/scan"
)

// emptyThreshold is the size (bytes) at or below which a FASTQ is treated as
// effectively empty. Sketching and subsampling are unreliable on such input,
// so the pair is copied through verbatim instead.
const emptyThreshold = 100

// Estimator estimates genome size and depth from a read pair's raw bytes.
type Estimator interface {
	Estimate(ctx context.Context, read1, read2 string) (mash.Estimate, error)
}

// Subsampler reduces a pair to the target coverage given a genome size.
type Subsampler interface {
	Subsample(ctx context.Context, read1, read2 string, genomeSize float64, coverage int, out1, out2 string) error
}

// Status classifies a per-pair outcome.
type Status int

const (
	Subsampled Status = iota // external tools ran, downsampled outputs written
	Copied                   // effectively-empty input copied verbatim
	Failed
)

// Outcome is the terminal result for one pair. Errors never escape the
// processor: sibling pairs running on other workers must not be affected.
type Outcome struct {
	Pair    scan.ReadPair
	Status  Status
	Outputs [2]string
	Err     error
}

// OK reports whether the pair counts as succeeded (verbatim copies do).
func (o Outcome) OK() bool { return o.Status != Failed }

// Processor composes the naming scheme with the two external tool adapters.
type Processor struct {
	Scheme     naming.Scheme
	Coverage   int
	OutputDir  string
	Estimator  Estimator
	Subsampler Subsampler
	Log        *zap.Logger
}

// Process runs one pair to completion. Every failure path is captured in the
// outcome with both read paths attached.
func (p *Processor) Process(ctx context.Context, pair scan.ReadPair) Outcome {
	o := Outcome{Pair: pair}
	o.Status, o.Outputs, o.Err = p.run(ctx, pair)
	if o.Err != nil {
		o.Status = Failed
		o.Err = errors.Wrapf(o.Err, "processing %s and %s", pair.Read1, pair.Read2)
	}
	return o
}

func (p *Processor) run(ctx context.Context, pair scan.ReadPair) (Status, [2]string, error) {
	var outs [2]string

	name1, err := p.Scheme.Rename(filepath.Base(pair.Read1), p.Coverage)
	if err != nil {
		return Failed, outs, err
	}
	name2, err := p.Scheme.Rename(filepath.Base(pair.Read2), p.Coverage)
	if err != nil {
		return Failed, outs, err
	}
	outs[0] = filepath.Join(p.OutputDir, name1)
	outs[1] = filepath.Join(p.OutputDir, name2)

	size1, err := fileSize(pair.Read1)
	if err != nil {
		return Failed, outs, err
	}
	size2, err := fileSize(pair.Read2)
	if err != nil {
		return Failed, outs, err
	}

	log := p.log().With(
		zap.String("read1", filepath.Base(pair.Read1)),
		zap.String("read2", filepath.Base(pair.Read2)),
	)
	log.Info("processing pair",
		zap.String("size1", humanize.Bytes(uint64(size1))),
		zap.String("size2", humanize.Bytes(uint64(size2))),
	)

	if size1 <= emptyThreshold || size2 <= emptyThreshold {
		log.Warn("pair is effectively empty; copying without downsampling")
		if err := copyFile(pair.Read1, outs[0]); err != nil {
			return Failed, outs, err
		}
		if err := copyFile(pair.Read2, outs[1]); err != nil {
			return Failed, outs, err
		}
		return Copied, outs, nil
	}

	est, err := p.Estimator.Estimate(ctx, pair.Read1, pair.Read2)
	if err != nil {
		return Failed, outs, err
	}
	log.Debug("estimated pair",
		zap.Float64("genome_size", est.GenomeSize),
		zap.Int("estimated_coverage", est.Coverage),
		zap.Int("target_coverage", p.Coverage),
	)

	if err := p.Subsampler.Subsample(ctx, pair.Read1, pair.Read2, est.GenomeSize, p.Coverage, outs[0], outs[1]); err != nil {
		return Failed, outs, err
	}
	return Subsampled, outs, nil
}

func (p *Processor) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, errors.Wrap(err, "read file vanished after discovery")
		}
		return 0, err
	}
	return fi.Size(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
