package office2adoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/alnah/go-office2adoc/internal/asciidoc"
	"github.com/alnah/go-office2adoc/internal/config"
	"github.com/alnah/go-office2adoc/internal/fileutil"
	"github.com/alnah/go-office2adoc/internal/imaging"
	"github.com/alnah/go-office2adoc/internal/process"
	"github.com/alnah/go-office2adoc/internal/xlsx"
)

// Compile-time interface implementation checks.
var (
	_ asciidoc.Processor = (*asciidoc.Pipeline)(nil)
	_ process.Runner     = (*process.ExecRunner)(nil)
)

// Converter turns DOCX and XLSX files into AsciiDoc documents on disk.
// Create with NewConverter; a Converter holds no open resources.
type Converter struct {
	cfg    converterConfig
	logger *zap.Logger
	runner process.Runner // nil means os/exec
}

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	outputDir        string
	pandocBinary     string
	pandocArgs       []string
	timeout          time.Duration
	mediaDir         string
	imagesDir        string
	keepIntermediate bool
	reviewMarkers    bool
	recodeImages     bool
	vectorTool       string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOutputDir sets the root under which document directories are created.
func WithOutputDir(dir string) Option {
	return func(c *Converter) { c.cfg.outputDir = dir }
}

// WithPandoc sets the pandoc binary and extra arguments.
func WithPandoc(binary string, extraArgs ...string) Option {
	return func(c *Converter) {
		if binary != "" {
			c.cfg.pandocBinary = binary
		}
		c.cfg.pandocArgs = extraArgs
	}
}

// WithTimeout bounds each pandoc run.
// Panics if d < 0 (programmer error, similar to time.NewTicker). Zero means
// no timeout.
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("office2adoc: WithTimeout duration must not be negative")
	}
	return func(c *Converter) { c.cfg.timeout = d }
}

// WithDirNames sets the media (DOCX) and images (XLSX) directory names.
// Empty names keep the defaults.
func WithDirNames(media, images string) Option {
	return func(c *Converter) {
		if media != "" {
			c.cfg.mediaDir = media
		}
		if images != "" {
			c.cfg.imagesDir = images
		}
	}
}

// WithKeepIntermediate keeps <stem>_no_format.adoc after processing.
func WithKeepIntermediate(keep bool) Option {
	return func(c *Converter) { c.cfg.keepIntermediate = keep }
}

// WithReviewMarkers appends a review comment after every image directive.
func WithReviewMarkers(enabled bool) Option {
	return func(c *Converter) { c.cfg.reviewMarkers = enabled }
}

// WithImageRecoding enables or disables legacy image recoding. Enabled by
// default.
func WithImageRecoding(enabled bool) Option {
	return func(c *Converter) { c.cfg.recodeImages = enabled }
}

// WithVectorTool sets the EMF/WMF converter. Empty means the first one
// found on PATH.
func WithVectorTool(tool string) Option {
	return func(c *Converter) { c.cfg.vectorTool = tool }
}

// WithRunner replaces os/exec for pandoc and vector tools. The runner must
// resolve relative paths against the output root.
func WithRunner(r process.Runner) Option {
	return func(c *Converter) { c.runner = r }
}

// NewConverter creates a Converter with default configuration.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			pandocBinary: config.DefaultPandocBinary,
			mediaDir:     config.DefaultMediaDir,
			imagesDir:    config.DefaultImagesDir,
			recodeImages: true,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts in according to its extension.
func (c *Converter) Convert(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, ErrEmptyInput
	}
	switch kind := DetectKind(in.Path); kind {
	case KindDOCX:
		return c.ConvertDOCX(ctx, in)
	case KindXLSX:
		return c.ConvertXLSX(ctx, in)
	default:
		return nil, fmt.Errorf("%w: %s (expected %s or %s)", ErrUnsupportedInput, in.Path, ExtDOCX, ExtXLSX)
	}
}

// ConvertDOCX runs pandoc, recodes the extracted media and repairs the
// generated AsciiDoc.
func (c *Converter) ConvertDOCX(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	layout, source, err := c.prepare(in)
	if err != nil {
		return nil, err
	}
	logger := c.logger.With(zap.String("input", in.Path), zap.String("stem", layout.Stem))
	logger.Info("converting document", zap.Stringer("kind", KindDOCX))

	pandoc := &PandocConverter{
		Runner:    c.runnerIn(layout.Root),
		Binary:    c.cfg.pandocBinary,
		ExtraArgs: c.cfg.pandocArgs,
		Timeout:   c.cfg.timeout,
		Logger:    logger,
	}
	pandocErr := pandoc.ToAsciiDoc(ctx, source, layout.relMedia(), layout.relIntermediate())
	if pandocErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Error("pandoc failed, continuing with whatever it produced", zap.Error(pandocErr))
	}

	result := &Result{Kind: KindDOCX, Layout: layout, Output: layout.Output()}
	if _, err := c.recode(ctx, layout.Media(), result, logger); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(layout.Intermediate())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %w", ErrReadIntermediate, err), pandocErr)
	}

	content, err := c.pipeline(logger).Process(ctx, string(raw), layout.Stem)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(layout.Output(), content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if c.cfg.keepIntermediate {
		logger.Debug("keeping intermediate file", zap.String("file", layout.Intermediate()))
	} else if err := os.Remove(layout.Intermediate()); err != nil {
		logger.Warn("removing intermediate file", zap.Error(err))
	}

	result.Elapsed = time.Since(start)
	logger.Info("document written",
		zap.String("output", result.Output),
		zap.String("size", humanize.Bytes(uint64(len(content)))),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// ConvertXLSX extracts the workbook images and renders every sheet as a
// table.
func (c *Converter) ConvertXLSX(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	layout, source, err := c.prepare(in)
	if err != nil {
		return nil, err
	}
	logger := c.logger.With(zap.String("input", in.Path), zap.String("stem", layout.Stem))
	logger.Info("converting workbook", zap.Stringer("kind", KindXLSX))

	images, err := xlsx.NewExtractor(logger).Extract(ctx, source, layout.Images())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrSpreadsheet, err)
	}

	result := &Result{Kind: KindXLSX, Layout: layout, Output: layout.Output()}
	report, err := c.recode(ctx, layout.Images(), result, logger)
	if err != nil {
		return nil, err
	}
	renameRecoded(images, report)

	sheets, err := xlsx.ReadSheets(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpreadsheet, err)
	}

	content := xlsx.RenderWorkbook(layout.Stem, sheets, images, filepath.ToSlash(layout.ImagesDir))
	if c.cfg.reviewMarkers {
		content = asciidoc.InsertReviewMarkers(content)
	}
	if err := fileutil.WriteFile(layout.Output(), content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	result.Sheets = len(sheets)
	for _, names := range images {
		result.Images += len(names)
	}
	result.Elapsed = time.Since(start)
	logger.Info("workbook written",
		zap.String("output", result.Output),
		zap.Int("sheets", result.Sheets),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// prepare validates in, creates the document directory and returns the
// layout together with the absolute input path.
func (c *Converter) prepare(in Input) (Layout, string, error) {
	if strings.TrimSpace(in.Path) == "" {
		return Layout{}, "", ErrEmptyInput
	}
	stem := in.OutputStem()
	if err := fileutil.ValidateStem(stem); err != nil {
		return Layout{}, "", err
	}
	if !fileutil.FileExists(in.Path) {
		return Layout{}, "", fmt.Errorf("%w: %s", ErrInputNotFound, in.Path)
	}

	root, err := filepath.Abs(c.cfg.outputDir)
	if err != nil {
		return Layout{}, "", fmt.Errorf("%w: %v", ErrCreateLayout, err)
	}
	source, err := filepath.Abs(in.Path)
	if err != nil {
		return Layout{}, "", fmt.Errorf("resolving %s: %w", in.Path, err)
	}

	layout := Layout{Root: root, Stem: stem, MediaDir: c.cfg.mediaDir, ImagesDir: c.cfg.imagesDir}
	if err := layout.Create(); err != nil {
		return Layout{}, "", err
	}
	return layout, source, nil
}

// recode converts legacy images under dir and records the counts in result.
// Only cancellation is returned; per-file failures are counted. The report
// is nil when recoding is disabled.
func (c *Converter) recode(ctx context.Context, dir string, result *Result, logger *zap.Logger) (*imaging.Report, error) {
	if !c.cfg.recodeImages {
		return nil, nil
	}
	tool := c.cfg.vectorTool
	if tool == "" {
		tool = imaging.DetectVectorTool()
	}

	report, err := imaging.NewRecoder(c.runnerIn(""), tool, logger).RecodeDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("image recoding stopped", zap.Error(err))
	}
	if report != nil {
		result.ImagesRecoded = len(report.Converted)
		result.ImagesFailed = len(report.Failed)
	}
	return report, nil
}

// renameRecoded points images at the PNG files the recoder wrote. Images
// that failed to recode keep their original names, matching the files on
// disk.
func renameRecoded(images xlsx.SheetImages, report *imaging.Report) {
	if report == nil {
		return
	}
	written := make(map[string]bool, len(report.Converted))
	for _, dst := range report.Converted {
		written[filepath.Base(dst)] = true
	}

	renames := map[string]string{}
	for _, names := range images {
		for _, name := range names {
			png := strings.TrimSuffix(name, filepath.Ext(name)) + imaging.TargetExtension
			if imaging.IsLegacy(name) && written[png] {
				renames[name] = png
			}
		}
	}
	for old, png := range renames {
		images.Rename(old, png)
	}
}

func (c *Converter) pipeline(logger *zap.Logger) *asciidoc.Pipeline {
	opts := asciidoc.Options{ReviewMarkers: c.cfg.reviewMarkers}
	if c.cfg.recodeImages {
		opts.LegacyImageExtensions = imaging.LegacyExtensions
		opts.ImageExtension = imaging.TargetExtension
	}
	return asciidoc.NewPipeline(logger, opts)
}

// runnerIn returns the configured runner, or an os/exec runner working in
// dir.
func (c *Converter) runnerIn(dir string) process.Runner {
	if c.runner != nil {
		return c.runner
	}
	return &process.ExecRunner{Dir: dir, Logger: c.logger}
}
