// Package naming implements the filename schemes that mark downsampled
// reads with their target coverage. Every scheme is a pure function of the
// original filename and the coverage; no filesystem access happens here.
package naming

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Scheme is the closed set of output-filename transformations.
type Scheme int

const (
	Prepend Scheme = iota
	Insert
	Extend
)

// ParseScheme maps a CLI value onto a Scheme. Unknown values are a
// configuration error, never a silent fallback to Prepend.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "prepend":
		return Prepend, nil
	case "insert":
		return Insert, nil
	case "extend":
		return Extend, nil
	}
	return 0, errors.Newf("name_type must be one of: prepend, insert, extend (got %q)", s)
}

func (s Scheme) String() string {
	switch s {
	case Prepend:
		return "prepend"
	case Insert:
		return "insert"
	case Extend:
		return "extend"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// PadCoverage renders the target coverage left-zero-padded to at least
// three digits. Coverages above 999 keep all their digits.
func PadCoverage(coverage int) string { return fmt.Sprintf("%03d", coverage) }

// Rename computes the output filename for one read file.
//
//	prepend: NNNxds-<name>
//	insert:  <prefix>-NNNxds_<rest>   (split on the first underscore)
//	extend:  suffix .fastq/.fastq.gz becomes .NNNxds.fastq[.gz]
func (s Scheme) Rename(filename string, coverage int) (string, error) {
	pad := PadCoverage(coverage)
	switch s {
	case Prepend:
		return pad + "xds-" + filename, nil
	case Insert:
		prefix, rest, ok := strings.Cut(filename, "_")
		if !ok {
			return "", errors.Newf("insert scheme requires an underscore in %q", filename)
		}
		return prefix + "-" + pad + "xds_" + rest, nil
	case Extend:
		for _, suffix := range []string{".fastq.gz", ".fastq"} {
			if i := strings.Index(filename, suffix); i >= 0 {
				return filename[:i] + "." + pad + "xds" + filename[i:], nil
			}
		}
		return "", errors.Newf("extend scheme requires a .fastq or .fastq.gz suffix in %q", filename)
	}
	return "", errors.Newf("unknown naming scheme %d", int(s))
}
