package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	office2adoc "github.com/alnah/go-office2adoc"
	"github.com/alnah/go-office2adoc/internal/config"
	"github.com/alnah/go-office2adoc/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage             = errors.New("invalid usage")
	ErrNoInput           = errors.New("no input specified")
	ErrNoSupportedFiles  = errors.New("no .docx or .xlsx files found")
	ErrStemWithDirectory = errors.New("--output names a single document and cannot be used with a directory")
	ErrDuplicateStem     = errors.New("documents would share an output directory")
	ErrConversionsFailed = errors.New("conversions failed")
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, in office2adoc.Input) (*office2adoc.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*office2adoc.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	Result    *office2adoc.Result
	Err       error
	Duration  time.Duration
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if flags.common.quiet && flags.common.verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(flags.input, positional)
	if err != nil {
		return err
	}
	files, isDir, err := discoverFiles(inputPath)
	if err != nil {
		return err
	}
	if isDir && flags.output != "" {
		return ErrStemWithDirectory
	}
	if err := checkDistinctStems(files); err != nil {
		return err
	}
	if flags.workers < 0 {
		return fmt.Errorf("%w: --workers must not be negative", ErrUsage)
	}

	if flags.common.noColor {
		env.Color = false
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: env.Stderr,
		Color:   env.Color,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	conv := office2adoc.NewConverter(converterOptions(cfg, logger, env)...)
	results := convertAll(ctx, conv, files, flags.output, flags.workers)

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	failed := printResults(results, flags.common, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrConversionsFailed, failed, len(results))
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.pandoc != "" {
		cfg.Pandoc.Binary = flags.pandoc
	}
	if flags.timeout != "" {
		cfg.Pandoc.Timeout = flags.timeout
	}
	if flags.keepIntermediate {
		cfg.Output.KeepIntermediate = true
	}
	if flags.reviewMarkers {
		cfg.Pipeline.ReviewMarkers = true
	}
	if flags.images.vectorTool != "" {
		cfg.Images.VectorTool = flags.images.vectorTool
	}
	if flags.images.disabled {
		cfg.Images.Disabled = true
	}
	if flags.log.file != "" {
		cfg.Log.File = flags.log.file
	}
	if flags.log.level != "" {
		cfg.Log.Level = flags.log.level
	}

	// Shorthands win over --log-level.
	switch {
	case flags.common.verbose:
		cfg.Log.Level = "debug"
	case flags.common.quiet:
		cfg.Log.Level = "warn"
	}
}

// converterOptions translates cfg into library options.
func converterOptions(cfg *config.Config, logger *zap.Logger, env *Environment) []office2adoc.Option {
	opts := []office2adoc.Option{
		office2adoc.WithLogger(logger),
		office2adoc.WithOutputDir(cfg.Output.Dir),
		office2adoc.WithPandoc(cfg.Pandoc.Binary, cfg.Pandoc.ExtraArgs...),
		office2adoc.WithTimeout(cfg.Timeout()),
		office2adoc.WithDirNames(cfg.Output.MediaDir, cfg.Output.ImagesDir),
		office2adoc.WithKeepIntermediate(cfg.Output.KeepIntermediate),
		office2adoc.WithReviewMarkers(cfg.Pipeline.ReviewMarkers),
		office2adoc.WithImageRecoding(!cfg.Images.Disabled),
		office2adoc.WithVectorTool(cfg.Images.VectorTool),
	}
	if env.Runner != nil {
		opts = append(opts, office2adoc.WithRunner(env.Runner))
	}
	return opts
}

// resolveInputPath returns --input, else the first positional argument.
func resolveInputPath(flagInput string, args []string) (string, error) {
	switch {
	case flagInput != "" && len(args) > 0:
		return "", fmt.Errorf("%w: input given twice (--input %s and %s)", ErrUsage, flagInput, args[0])
	case flagInput != "":
		return flagInput, nil
	case len(args) > 1:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	case len(args) == 1:
		return args[0], nil
	default:
		return "", ErrNoInput
	}
}

// convertAll converts files on up to workers goroutines (GOMAXPROCS when
// workers is 0). Results keep the order of files. Files not started before
// ctx is canceled report ctx.Err().
func convertAll(ctx context.Context, conv Converter, files []string, stem string, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(files))

	results := make([]ConversionResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: files[idx], Err: err}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], stem)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one document and times it.
func convertFile(ctx context.Context, conv Converter, path, stem string) ConversionResult {
	start := time.Now()
	res, err := conv.Convert(ctx, office2adoc.Input{Path: path, Stem: stem})
	return ConversionResult{
		InputPath: path,
		Result:    res,
		Err:       err,
		Duration:  time.Since(start),
	}
}

// checkDistinctStems rejects inputs such as report.docx and report.xlsx
// that would be written into the same directory. Stems are compared
// case-insensitively for case-insensitive filesystems.
func checkDistinctStems(files []string) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		key := strings.ToLower(office2adoc.Input{Path: f}.OutputStem())
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s", ErrDuplicateStem, filepath.Base(prev), filepath.Base(f))
		}
		seen[key] = f
	}
	return nil
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, flags commonFlags, env *Environment) int {
	ok := env.paint(color.FgGreen)
	bad := env.paint(color.FgRed, color.Bold)

	failed := 0
	var written uint64
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "%s %s: %v%s\n", bad.Sprint("FAILED"), r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		written += fileSize(r.Result.Output)

		if flags.quiet {
			continue
		}
		if flags.verbose {
			fmt.Fprintf(env.Stdout, "%s %s -> %s (%v, %s)\n",
				ok.Sprint("Created"), r.InputPath, r.Result.Output,
				r.Duration.Round(time.Millisecond), describe(r.Result))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", ok.Sprint("Created"), r.Result.Output)
		}
	}

	if !flags.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %s written\n",
			len(results)-failed, failed, humanize.Bytes(written))
	}
	return failed
}

// describe summarizes the image and sheet counts of a result.
func describe(r *office2adoc.Result) string {
	s := fmt.Sprintf("%d images recoded", r.ImagesRecoded)
	if r.ImagesFailed > 0 {
		s += fmt.Sprintf(", %d failed", r.ImagesFailed)
	}
	if r.Kind == office2adoc.KindXLSX {
		s = fmt.Sprintf("%d sheets, %d images, ", r.Sheets, r.Images) + s
	}
	return s
}

func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}
