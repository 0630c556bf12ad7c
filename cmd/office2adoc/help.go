package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2adoc <command> [flags] [args]")
	fmt.Fprintln(w, "       office2adoc <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert DOCX and XLSX files to AsciiDoc (default)")
	fmt.Fprintln(w, "  doctor     Check pandoc, image tools, and the output directory")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'office2adoc help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2adoc convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert office documents to AsciiDoc. Each document gets its own")
	fmt.Fprintln(w, "directory: <name>/<name>.adoc plus the extracted images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .docx or .xlsx file, or a directory holding them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --input <path>        Input file or directory (instead of the argument)")
	fmt.Fprintln(w, "  -o, --output <name>       Output name (default: input file name)")
	fmt.Fprintln(w, "  -d, --output-dir <dir>    Root directory for converted documents")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --keep-intermediate   Keep <name>_no_format.adoc")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "      --pandoc <path>       pandoc binary (default: pandoc)")
	fmt.Fprintln(w, "  -t, --timeout <d>         pandoc timeout, e.g. 2m (default: none)")
	fmt.Fprintln(w, "      --review-markers      Flag every image for manual caption review")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel conversions for a directory (default: CPUs)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --vector-tool <name>  EMF/WMF converter: inkscape, soffice, magick")
	fmt.Fprintln(w, "      --no-images           Keep legacy image formats as extracted")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-file <path>     Also write JSON logs to a file")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error (default: info)")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
	fmt.Fprintln(w, "      --no-color            Disable colored output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OFFICE2ADOC_CONFIG, OFFICE2ADOC_PANDOC, OFFICE2ADOC_TIMEOUT,")
	fmt.Fprintln(w, "  OFFICE2ADOC_OUTPUT_DIR, OFFICE2ADOC_VECTOR_TOOL, OFFICE2ADOC_LOG_FILE,")
	fmt.Fprintln(w, "  OFFICE2ADOC_LOG_LEVEL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: flags > environment > config file > defaults.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2adoc doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that pandoc and an EMF/WMF converter are installed and that the")
	fmt.Fprintln(w, "output directory is writable.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2adoc config [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after environment overrides, as YAML.")
	fmt.Fprintln(w, "The output is a valid config file.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: office2adoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: office2adoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
