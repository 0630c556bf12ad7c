package asciidoc

import (
	"context"

	"go.uber.org/zap"
)

// Stage names, in execution order.
const (
	StageStripBoilerplate    = "strip boilerplate"
	StageImageSuffixes       = "normalize image suffixes"
	StageAngleBrackets       = "escape angle brackets"
	StageRecolorNotes        = "recolor notes"
	StageBibliographyAnchors = "anchor bibliography"
	StageBibliographyLinks   = "link bibliography references"
	StageCaptions            = "restructure figure captions"
	StageSourceBrackets      = "escape source brackets"
	StageDoublePlus          = "strip stray ++"
	StageImagePaths          = "fix image paths"
	StageReviewMarkers       = "insert review markers"
)

// Processor defines the contract for AsciiDoc post-processing.
type Processor interface {
	Process(ctx context.Context, content, stem string) (string, error)
}

// Options tunes the pipeline.
type Options struct {
	// LegacyImageExtensions are rewritten to ImageExtension in image
	// references. Leave empty when images are not recoded.
	LegacyImageExtensions []string
	ImageExtension        string
	// ReviewMarkers appends ReviewMarker after every image directive.
	ReviewMarkers bool
}

// Pipeline applies the repair rules to a whole document in a fixed order.
type Pipeline struct {
	logger *zap.Logger
	opts   Options
}

// stage is one named text transformation.
type stage struct {
	name  string
	apply func(string) string
}

// NewPipeline creates a Pipeline. A nil logger disables logging.
func NewPipeline(logger *zap.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger, opts: opts}
}

// Stages returns the names of the stages Process runs, in order.
func (p *Pipeline) Stages() []string {
	stages := p.stages("")
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}

// Process runs every stage over content. stem names the output directory the
// document is written into; image paths are made relative to it.
// Returns ctx.Err() if the context is canceled between stages.
func (p *Pipeline) Process(ctx context.Context, content, stem string) (string, error) {
	content = NormalizeLineEndings(content)

	for _, s := range p.stages(stem) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.logger.Info("applying stage", zap.String("stage", s.name))
		before := len(content)
		content = s.apply(content)
		p.logger.Debug("stage done",
			zap.String("stage", s.name),
			zap.Int("bytes", len(content)),
			zap.Int("delta", len(content)-before),
		)
	}
	return content, nil
}

// stages builds the stage list for one run. The bibliography pair shares
// the key set through the closure, so anchors always precede links.
func (p *Pipeline) stages(stem string) []stage {
	var bib Bibliography

	stages := []stage{
		{StageStripBoilerplate, StripBoilerplate},
		{StageImageSuffixes, func(c string) string {
			return NormalizeImageSuffixes(c, p.opts.LegacyImageExtensions, p.opts.ImageExtension)
		}},
		{StageAngleBrackets, EscapeAngleBrackets},
		{StageRecolorNotes, RecolorNotes},
		{StageBibliographyAnchors, func(c string) string {
			var found bool
			bib, c, found = AnchorBibliography(c)
			if !found {
				p.logger.Warn("bibliography section not found", zap.String("heading", BibliographyHeading))
				return c
			}
			p.logger.Debug("bibliography entries anchored", zap.Int("entries", len(bib.Keys)))
			return c
		}},
		{StageBibliographyLinks, func(c string) string {
			return LinkBibliography(c, bib.Keys)
		}},
		{StageCaptions, RestructureCaptions},
		{StageSourceBrackets, EscapeSourceBrackets},
		{StageDoublePlus, StripDoublePlus},
		{StageImagePaths, func(c string) string {
			return FixImagePaths(c, stem)
		}},
	}
	if p.opts.ReviewMarkers {
		stages = append(stages, stage{StageReviewMarkers, InsertReviewMarkers})
	}
	return stages
}
