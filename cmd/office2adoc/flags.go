package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	noColor bool
}

// imageFlags holds legacy image recoding flags.
type imageFlags struct {
	vectorTool string
	disabled   bool
}

// logFlags holds log sink flags.
type logFlags struct {
	file  string
	level string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common           commonFlags
	input            string
	output           string // stem of the output directory and file
	outputDir        string
	pandoc           string
	timeout          string
	keepIntermediate bool
	reviewMarkers    bool
	workers          int
	images           imageFlags
	log              logFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// addImageFlags adds image recoding flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVar(&f.vectorTool, "vector-tool", "", "EMF/WMF converter: inkscape, soffice, libreoffice, magick, convert")
	fs.BoolVar(&f.disabled, "no-images", false, "skip legacy image recoding")
}

// addLogFlags adds log flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.file, "log-file", "", "also write JSON logs to this file")
	fs.StringVar(&f.level, "log-level", "", "log level: debug, info, warn, error")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound to
// f. Shell completion reads the same set.
func newConvertFlagSet(f *convertFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// I/O flags
	fs.StringVarP(&f.input, "input", "i", "", "input .docx or .xlsx file, or a directory")
	fs.StringVarP(&f.output, "output", "o", "", "output name (default: input file name)")
	fs.StringVarP(&f.outputDir, "output-dir", "d", "", "root directory for converted documents")

	// Conversion flags
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc binary name or path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "pandoc timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.keepIntermediate, "keep-intermediate", false, "keep <name>_no_format.adoc")
	fs.BoolVar(&f.reviewMarkers, "review-markers", false, "flag every image for manual caption review")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions for a directory (default: GOMAXPROCS)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addImageFlags(fs, &f.images)
	addLogFlags(fs, &f.log)

	fs.Usage = func() { printConvertUsage(stderr) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage goes to stderr on -h or a parse error.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// newDoctorFlagSet registers the doctor flags on a new FlagSet bound to f.
func newDoctorFlagSet(f *doctorFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printDoctorUsage(stderr) }
	return fs
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	if err := newDoctorFlagSet(f, stderr).Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// newConfigFlagSet registers the config command flags on a new FlagSet
// bound to f.
func newConfigFlagSet(f *commonFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addCommonFlags(fs, f)
	fs.Usage = func() { printConfigUsage(stderr) }
	return fs
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	if err := newConfigFlagSet(f, stderr).Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
