package paircli

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS() *flag.FlagSet {
	fs := NewFlagSet("test")
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseShortFlags(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{
		"-r1", "a_R1_001.fastq.gz",
		"-r2", "a_R2_001.fastq.gz",
		"-c", "50",
		"-n", "insert",
		"-o", "out",
	})
	require.NoError(t, err)
	assert.Equal(t, "a_R1_001.fastq.gz", o.Read1)
	assert.Equal(t, "a_R2_001.fastq.gz", o.Read2)
	assert.Equal(t, 50, o.Coverage)
	assert.Equal(t, "insert", o.NameType)
	assert.Equal(t, "out", o.OutputDir)
}

func TestParseDefaults(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{"-r1", "a", "-r2", "b", "-c", "10"})
	require.NoError(t, err)
	assert.Equal(t, "prepend", o.NameType)
	assert.Equal(t, ".", o.OutputDir)
}

func TestHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}
