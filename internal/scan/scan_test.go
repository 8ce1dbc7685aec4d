package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("@r\nACGT\n+\nIIII\n"), 0o644))
	}
}

func TestPairsIlluminaFixture(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"sample_R1_001.fastq",
		"sample_R2_001.fastq",
		"orphan_R1_001.fastq", // no R2 partner
		"readme.txt",
	)

	pairs, err := Pairs(dir, "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(dir, "sample_R1_001.fastq"), pairs[0].Read1)
	assert.Equal(t, filepath.Join(dir, "sample_R2_001.fastq"), pairs[0].Read2)
}

func TestPairsFasterqDumpConvention(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "SRR123_1.fastq.gz", "SRR123_2.fastq.gz")

	pairs, err := Pairs(dir, "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(dir, "SRR123_1.fastq.gz"), pairs[0].Read1)
	assert.Equal(t, filepath.Join(dir, "SRR123_2.fastq.gz"), pairs[0].Read2)
}

func TestPairsExcludePrefix(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "sample_R1_001.fastq", "sample_R2_001.fastq")

	_, err := Pairs(dir, "sample")
	assert.True(t, errors.Is(err, ErrNoPairs))
}

func TestPairsEmptyDirectory(t *testing.T) {
	_, err := Pairs(t.TempDir(), "")
	assert.True(t, errors.Is(err, ErrNoPairs))
}

func TestPairsMissingDirectory(t *testing.T) {
	_, err := Pairs(filepath.Join(t.TempDir(), "nope"), "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoPairs))
}

func TestPairsIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested_R1_.fastq"), 0o755))
	writeFiles(t, dir, "a_1.fastq", "a_2.fastq")

	pairs, err := Pairs(dir, "")
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestPairsMultiple(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"a_R1_001.fastq", "a_R2_001.fastq",
		"b_1.fastq.gz", "b_2.fastq.gz",
		"c_2.fastq", // read-2 without read-1 marker is not a pair seed
	)

	pairs, err := Pairs(dir, "")
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}
