package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablespoon/internal/mash"
	"tablespoon/internal/naming"
	"tablespoon/internal/processor"
	"tablespoon/internal/scan"
)

// selectiveEstimator fails for one specific read-1 path and succeeds for
// the rest.
type selectiveEstimator struct {
	failFor string

	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *selectiveEstimator) Estimate(_ context.Context, read1, _ string) (mash.Estimate, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxSeen.Load()
		if cur <= max || s.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	if read1 == s.failFor {
		return mash.Estimate{}, mash.ErrParse
	}
	return mash.Estimate{GenomeSize: 4000000, Coverage: 50}, nil
}

type noopSubsampler struct{}

func (noopSubsampler) Subsample(context.Context, string, string, float64, int, string, string) error {
	return nil
}

func writePairs(t *testing.T, n int) []scan.ReadPair {
	t.Helper()
	dir := t.TempDir()
	pairs := make([]scan.ReadPair, 0, n)
	for i := 0; i < n; i++ {
		name := string(rune('a'+i))
		r1 := filepath.Join(dir, name+"_1.fastq")
		r2 := filepath.Join(dir, name+"_2.fastq")
		require.NoError(t, os.WriteFile(r1, []byte(strings.Repeat("A", 5000)), 0o644))
		require.NoError(t, os.WriteFile(r2, []byte(strings.Repeat("C", 5000)), 0o644))
		pairs = append(pairs, scan.ReadPair{Read1: r1, Read2: r2})
	}
	return pairs
}

// One pair's failure must not halt the siblings: 3 pairs, the second one's
// estimator output is unparsable, the run still finishes 2/1.
func TestRunIsolatesPairFailures(t *testing.T) {
	pairs := writePairs(t, 3)
	est := &selectiveEstimator{failFor: pairs[1].Read1}
	proc := &processor.Processor{
		Scheme:     naming.Prepend,
		Coverage:   30,
		OutputDir:  t.TempDir(),
		Estimator:  est,
		Subsampler: noopSubsampler{},
	}

	outs := Run(context.Background(), Config{Threads: 2}, pairs, proc)
	require.Len(t, outs, 3)

	var ok, failed int
	processed := map[string]bool{}
	for _, o := range outs {
		processed[o.Pair.Read1] = true
		if o.OK() {
			ok++
		} else {
			failed++
			assert.True(t, errors.Is(o.Err, mash.ErrParse))
			assert.Equal(t, pairs[1].Read1, o.Pair.Read1)
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
	assert.True(t, processed[pairs[2].Read1], "third pair must still be processed")
}

func TestRunBoundsConcurrency(t *testing.T) {
	pairs := writePairs(t, 8)
	est := &selectiveEstimator{}
	proc := &processor.Processor{
		Scheme:     naming.Prepend,
		Coverage:   30,
		OutputDir:  t.TempDir(),
		Estimator:  est,
		Subsampler: noopSubsampler{},
	}

	outs := Run(context.Background(), Config{Threads: 2}, pairs, proc)
	require.Len(t, outs, 8)
	assert.LessOrEqual(t, est.maxSeen.Load(), int32(2))
}

func TestRunNormalizesThreadCount(t *testing.T) {
	pairs := writePairs(t, 2)
	proc := &processor.Processor{
		Scheme:     naming.Prepend,
		Coverage:   30,
		OutputDir:  t.TempDir(),
		Estimator:  &selectiveEstimator{},
		Subsampler: noopSubsampler{},
	}

	outs := Run(context.Background(), Config{Threads: 0}, pairs, proc)
	assert.Len(t, outs, 2)
}

func TestRunCancelledContextStopsFeeding(t *testing.T) {
	pairs := writePairs(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := &processor.Processor{
		Scheme:     naming.Prepend,
		Coverage:   30,
		OutputDir:  t.TempDir(),
		Estimator:  &selectiveEstimator{},
		Subsampler: noopSubsampler{},
	}

	// Feeding races the cancellation, so some pairs may still be handed out;
	// the pool must drain and return promptly either way.
	outs := Run(ctx, Config{Threads: 2}, pairs, proc)
	assert.LessOrEqual(t, len(outs), 4)
}
