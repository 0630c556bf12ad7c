package office2adoc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-office2adoc/internal/imaging"
	"github.com/alnah/go-office2adoc/internal/process"
)

// PandocConverter converts DOCX to AsciiDoc by invoking the pandoc CLI.
type PandocConverter struct {
	Runner    process.Runner
	Binary    string        // defaults to "pandoc"
	ExtraArgs []string      // inserted before the input file
	Timeout   time.Duration // zero means none
	Logger    *zap.Logger
}

// Args returns the pandoc command line for one conversion. mediaDir and
// output are written verbatim into the document's image references, so they
// should be relative to the runner's working directory.
func (c *PandocConverter) Args(input, mediaDir, output string) []string {
	args := []string{
		"-f", "docx",
		"-t", "asciidoc",
		"--default-image-extension", imaging.TargetExtension,
		"--extract-media", mediaDir,
		"-o", output,
	}
	args = append(args, c.ExtraArgs...)
	return append(args, input)
}

// ToAsciiDoc runs pandoc on input. Failures wrap ErrPandoc; a canceled or
// expired ctx is returned as is.
func (c *PandocConverter) ToAsciiDoc(ctx context.Context, input, mediaDir, output string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	binary := c.Binary
	if binary == "" {
		binary = "pandoc"
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	_, stderr, err := c.Runner.Run(ctx, binary, c.Args(input, mediaDir, output)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return fmt.Errorf("%w: %w", ErrPandoc, ctxErr)
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %w: %s", ErrPandoc, err, msg)
		}
		return fmt.Errorf("%w: %w", ErrPandoc, err)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		logger.Warn("pandoc reported warnings", zap.String("stderr", msg))
	}

	logger.Info("pandoc conversion done",
		zap.String("input", input),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
