package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/alnah/go-office2adoc/internal/process"
)

// TargetExtension is the extension every recoded image gets.
const TargetExtension = ".png"

// LegacyExtensions lists the extensions RecodeDir converts. Image references
// in the document text are rewritten from the same list.
var LegacyExtensions = []string{".emf", ".wmf", ".bmp", ".tif", ".tiff"}

// VectorTools are the supported vector converters, in detection order.
var VectorTools = []string{"inkscape", "soffice", "libreoffice", "magick", "convert"}

var rasterDecoders = map[string]func(io.Reader) (image.Image, error){
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
}

var vectorExtensions = map[string]bool{
	".emf": true,
	".wmf": true,
}

// IsLegacy reports whether name has an extension RecodeDir converts.
func IsLegacy(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return rasterDecoders[ext] != nil || vectorExtensions[ext]
}

// DetectVectorTool returns the first vector tool found on PATH, or "".
func DetectVectorTool() string {
	return process.FirstAvailable(VectorTools...)
}

// Failure records one image that could not be recoded.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a RecodeDir run.
type Report struct {
	Converted []string // paths of the written PNG files
	Failed    []Failure
	BytesIn   int64
	BytesOut  int64
}

// Recoder converts legacy images to PNG.
type Recoder struct {
	runner     process.Runner
	vectorTool string
	logger     *zap.Logger
}

// NewRecoder creates a Recoder. vectorTool may be empty, in which case EMF and
// WMF files are reported as failures. A nil logger disables logging.
func NewRecoder(runner process.Runner, vectorTool string, logger *zap.Logger) *Recoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = &process.ExecRunner{Logger: logger}
	}
	return &Recoder{runner: runner, vectorTool: vectorTool, logger: logger}
}

// RecodeDir walks dir and converts every legacy image it finds. A missing
// dir is not an error: documents without images produce no media directory.
// Per-file failures are logged and collected in the report; only context
// cancellation and walk errors abort the run.
func (r *Recoder) RecodeDir(ctx context.Context, dir string) (*Report, error) {
	report := &Report{}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("no media directory", zap.String("dir", dir))
		return report, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsLegacy(path) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		in := fileSize(path)
		dst, err := r.RecodeFile(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Warn("image recode failed", zap.String("file", path), zap.Error(err))
			report.Failed = append(report.Failed, Failure{Path: path, Err: err})
			return nil
		}

		out := fileSize(dst)
		report.Converted = append(report.Converted, dst)
		report.BytesIn += in
		report.BytesOut += out
		r.logger.Info("image recoded",
			zap.String("from", filepath.Base(path)),
			zap.String("to", filepath.Base(dst)),
			zap.String("size", humanize.Bytes(uint64(in))+" -> "+humanize.Bytes(uint64(out))),
		)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("recoding images in %s: %w", dir, err)
	}

	r.logger.Info("image recoding done",
		zap.String("dir", dir),
		zap.Int("converted", len(report.Converted)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// RecodeFile converts one image to PNG next to it and removes the original.
// Returns the path of the PNG.
func (r *Recoder) RecodeFile(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dst := strings.TrimSuffix(path, filepath.Ext(path)) + TargetExtension

	switch {
	case rasterDecoders[ext] != nil:
		if err := recodeRaster(path, dst, rasterDecoders[ext]); err != nil {
			return "", err
		}
	case vectorExtensions[ext]:
		if err := r.recodeVector(ctx, path, dst); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err := os.Remove(path); err != nil {
		r.logger.Warn("removing original image", zap.String("file", path), zap.Error(err))
	}
	return dst, nil
}

func recodeRaster(src, dst string, decode func(io.Reader) (image.Image, error)) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	img, err := decode(in)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(src), err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %s: %v", ErrEncode, filepath.Base(dst), err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

func (r *Recoder) recodeVector(ctx context.Context, src, dst string) error {
	if r.vectorTool == "" {
		return ErrNoVectorTool
	}
	name, args, err := VectorCommand(r.vectorTool, src, dst)
	if err != nil {
		return err
	}

	_, stderr, err := r.runner.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %s: %v", ErrVectorTool, name, strings.TrimSpace(stderr), err)
	}
	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("%w: %s produced no output for %s", ErrVectorTool, name, filepath.Base(src))
	}
	return nil
}

// VectorCommand returns the command line that converts src to the PNG dst
// with tool. tool may be a bare name or a path.
func VectorCommand(tool, src, dst string) (string, []string, error) {
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(tool)), ".exe")
	switch base {
	case "inkscape":
		return tool, []string{src, "--export-type=png", "--export-filename=" + dst}, nil
	case "soffice", "libreoffice":
		// LibreOffice derives the output name from src; dst shares its stem.
		return tool, []string{"--headless", "--convert-to", "png", "--outdir", filepath.Dir(dst), src}, nil
	case "magick", "convert":
		return tool, []string{src, dst}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownVectorTool, tool)
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
