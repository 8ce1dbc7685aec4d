package paircli

import (
	"flag"
	"fmt"

	"tablespoon/internal/version"
)

// Options holds the teaspoon (single-pair) flag surface.
type Options struct {
	Read1     string
	Read2     string
	Coverage  int
	NameType  string
	OutputDir string

	Quiet   bool
	Verbose bool
	Version bool
}

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

		fmt.Fprintf(out, "%s – downsample one read pair to a target coverage\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s -r1 sample_R1_001.fastq.gz -r2 sample_R2_001.fastq.gz -c 100 [-o out/]\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -r1, --read1 string       Path to the first read file [*]")
		fmt.Fprintln(out, "  -r2, --read2 string       Path to the second read file [*]")

		fmt.Fprintln(out, "\nDownsampling:")
		fmt.Fprintln(out, "  -c, --coverage int        Desired approximate coverage [*]")
		fmt.Fprintf(out, "  -n, --name_type string    Output name format: prepend | insert | extend [%s]\n", def("name_type"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output_dir string   Output path for downsampled fastq files [%s]\n", def("output_dir"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet               Suppress progress logging [%s]\n", def("quiet"))
		fmt.Fprintf(out, "      --verbose             Log external tool command lines [%s]\n", def("verbose"))
		fmt.Fprintln(out, "  -v, --version             Print version and exit")
		fmt.Fprintln(out, "  -h, --help                Show this help and exit")
	}
	return fs
}

func Parse() (Options, error) { return ParseArgs(NewFlagSet("teaspoon"), nil) }

// ParseArgs registers and parses all flags; semantic validation lives in the
// app, as for tablespoon.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Read1, "read1", "", "path to the first read file [*]")
	fs.StringVar(&opt.Read1, "r1", "", "alias of --read1")
	fs.StringVar(&opt.Read2, "read2", "", "path to the second read file [*]")
	fs.StringVar(&opt.Read2, "r2", "", "alias of --read2")

	fs.IntVar(&opt.Coverage, "coverage", 0, "desired approximate coverage [*]")
	fs.IntVar(&opt.Coverage, "c", 0, "alias of --coverage")
	fs.StringVar(&opt.NameType, "name_type", "prepend", "output name format: prepend | insert | extend [prepend]")
	fs.StringVar(&opt.NameType, "n", "prepend", "alias of --name_type")

	fs.StringVar(&opt.OutputDir, "output_dir", ".", "output path for downsampled fastq files [.]")
	fs.StringVar(&opt.OutputDir, "o", ".", "alias of --output_dir")

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
