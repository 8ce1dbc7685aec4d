// internal/cli/options.go
package cli

import (
	"flag"
	"fmt"

	"tablespoon/internal/version"
)

// Options holds the tablespoon flag surface.
type Options struct {
	// Input
	InputDir string
	Exclude  string

	// Downsampling
	Coverage int
	NameType string

	// Output
	OutputDir string

	// Performance
	Threads int

	// Misc
	Quiet   bool
	Verbose bool
	Version bool
}

// NewFlagSet returns a FlagSet with the grouped usage text installed.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – downsample paired-end reads in a directory to a target coverage\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s -i reads/ -c 100 [-o out/] [-n prepend|insert|extend] [-t 8]\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -i, --input_dir string    Directory containing paired .fastq/.fastq.gz files [*]")
		fmt.Fprintln(out, "  -e, --exclude string      Skip fastq files whose name starts with this prefix")

		fmt.Fprintln(out, "\nDownsampling:")
		fmt.Fprintln(out, "  -c, --coverage int        Desired approximate coverage [*]")
		fmt.Fprintf(out, "  -n, --name_type string    Output name format: prepend | insert | extend [%s]\n", def("name_type"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output_dir string   Output path for downsampled fastq files [%s]\n", def("output_dir"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int         Read pairs processed in parallel [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet               Suppress progress logging [%s]\n", def("quiet"))
		fmt.Fprintf(out, "      --verbose             Log external tool command lines [%s]\n", def("verbose"))
		fmt.Fprintln(out, "  -v, --version             Print version and exit")
		fmt.Fprintln(out, "  -h, --help                Show this help and exit")
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(NewFlagSet("tablespoon"), nil) }

// ParseArgs registers and parses all flags. Only flag syntax is decided
// here; semantic validation (directory, scheme, positivity) belongs to the
// app so that bad values map onto the documented exit code.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.InputDir, "input_dir", "", "directory containing the input fastq files [*]")
	fs.StringVar(&opt.InputDir, "i", "", "alias of --input_dir")
	fs.StringVar(&opt.Exclude, "exclude", "", "skip fastq files that start with this string")
	fs.StringVar(&opt.Exclude, "e", "", "alias of --exclude")

	fs.IntVar(&opt.Coverage, "coverage", 0, "desired approximate coverage [*]")
	fs.IntVar(&opt.Coverage, "c", 0, "alias of --coverage")
	fs.StringVar(&opt.NameType, "name_type", "prepend", "output name format: prepend | insert | extend [prepend]")
	fs.StringVar(&opt.NameType, "n", "prepend", "alias of --name_type")

	fs.StringVar(&opt.OutputDir, "output_dir", ".", "output path for downsampled fastq files [.]")
	fs.StringVar(&opt.OutputDir, "o", ".", "alias of --output_dir")

	fs.IntVar(&opt.Threads, "threads", 8, "read pairs processed in parallel [8]")
	fs.IntVar(&opt.Threads, "t", 8, "alias of --threads")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress progress logging [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Verbose, "verbose", false, "log external tool command lines [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&opt.Version, "v", false, "alias of --version")
	fs.BoolVar(&help, "h", false, "show this help message [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	return opt, nil
}
