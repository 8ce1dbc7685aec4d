// Package scan discovers paired-end FASTQ files in a flat directory using
// Illumina (_R1_/_R2_) and NCBI fasterq-dump (_1./_2.) naming conventions.
package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoPairs reports a scan that found nothing actionable. An empty run
// almost always means a wrong directory or an over-broad exclusion prefix,
// so callers treat it as fatal rather than a zero-work success.
var ErrNoPairs = errors.New("no paired-end reads found in the input directory")

// ReadPair holds the two mates of one paired-end sequencing run. Both paths
// point at regular files at discovery time.
type ReadPair struct {
	Read1 string
	Read2 string
}

// candidate reports whether name looks like a FASTQ file that survives the
// exclusion prefix.
func candidate(name, exclude string) bool {
	if !strings.HasSuffix(name, ".fastq") && !strings.HasSuffix(name, ".fastq.gz") {
		return false
	}
	return exclude == "" || !strings.HasPrefix(name, exclude)
}

// mate2 derives the read-2 filename from a read-1 filename. ok is false when
// name carries no read-1 marker.
func mate2(name string) (mate string, ok bool) {
	if !strings.Contains(name, "_1.") && !strings.Contains(name, "_R1_") {
		return "", false
	}
	mate = strings.ReplaceAll(name, "_1.", "_2.")
	mate = strings.ReplaceAll(mate, "_R1_", "_R2_")
	return mate, true
}

// Pairs returns every read pair discovered in dir. Files without a read-1
// marker, and read-1 files whose derived mate is missing, are skipped
// silently: an orphan read is not actionable. Zero pairs is ErrNoPairs.
func Pairs(dir, exclude string) ([]ReadPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read input directory %s", dir)
	}

	var pairs []ReadPair
	for _, e := range entries {
		if !e.Type().IsRegular() || !candidate(e.Name(), exclude) {
			continue
		}
		mate, ok := mate2(e.Name())
		if !ok {
			continue
		}
		read2 := filepath.Join(dir, mate)
		if fi, err := os.Stat(read2); err != nil || !fi.Mode().IsRegular() {
			continue
		}
		pairs = append(pairs, ReadPair{Read1: filepath.Join(dir, e.Name()), Read2: read2})
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}
