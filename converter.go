package ocrbundle

import (
	"context"
	"fmt"

	"github.com/halvar/go-ocrbundle/internal/assets"
	"github.com/halvar/go-ocrbundle/internal/bundle"
	"github.com/halvar/go-ocrbundle/internal/epub"
	"github.com/halvar/go-ocrbundle/internal/pipeline"
)

// MathRenderer renders a raw math expression to scalable vector markup.
// display selects block layout over inline layout. Implementations that
// fail (or the absence of any implementation) cause the expression to
// degrade to its raw dollar-delimited source in the output.
type MathRenderer interface {
	Render(expression string, display bool) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.MathRenderer  = (MathRenderer)(nil)
)

// epubPackager abstracts EPUB assembly for test injection.
type epubPackager interface {
	Build(ctx context.Context, markdown string, images pipeline.ImageRegistry) ([]byte, error)
}

// Converter turns an OCR result into a multi-format document bundle:
// combined markdown, a standalone HTML document, an EPUB, and one
// archive holding all of them. A Converter is stateless between calls
// and safe for concurrent use; each conversion operates on its own
// buffers.
type Converter struct {
	cfg      converterConfig
	renderer *pipeline.DocumentRenderer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithMathRenderer).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			resourcePrefix: pipeline.DefaultResourcePrefix,
			language:       "en",
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.renderer = pipeline.NewDocumentRenderer(c.cfg.math)
	return c
}

// Convert runs the full pipeline and returns every artifact. The
// context is used for cancellation; an error means no partial bundle is
// exposed. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	title := deriveTitle(input)
	doc := toPipelineDocument(input.Result)

	// Leaves first: registry and combined markdown feed everything else.
	registry := pipeline.BuildImageRegistry(doc)
	combined := pipeline.Normalize(pipeline.Combine(doc))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Flat-file outputs reference the resource folder directly.
	rewritten := pipeline.RewriteImagePaths(combined, c.cfg.resourcePrefix)

	htmlDoc, err := c.renderHTML(ctx, rewritten, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}

	// The EPUB packager takes the pre-rewrite markdown and applies its
	// own container-relative rewrite.
	packager := c.newPackager(title)
	epubData, err := packager.Build(ctx, combined, registry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEPUBBuild, err)
	}

	archive, err := bundle.Write(rewritten, htmlDoc, epubData, registry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBundleWrite, err)
	}

	return &ConvertResult{
		Markdown: []byte(rewritten),
		HTML:     []byte(htmlDoc),
		EPUB:     epubData,
		Bundle:   archive,
	}, nil
}

// renderHTML produces the standalone HTML document: the shared
// protect → render → restore pipeline wrapped in print styling.
func (c *Converter) renderHTML(ctx context.Context, markdown, title string) (string, error) {
	body, err := c.renderer.RenderBody(ctx, markdown)
	if err != nil {
		return "", err
	}
	return pipeline.WrapDocument(body, title, assets.MustLoadStyle(assets.StyleDocument)), nil
}

// newPackager builds the EPUB packager for one conversion.
func (c *Converter) newPackager(title string) epubPackager {
	return epub.NewBuilder(title, c.cfg.language, c.cfg.creator, c.renderer)
}

// toPipelineDocument converts the public OCR result into the internal
// pipeline representation.
func toPipelineDocument(res OCRResult) pipeline.Document {
	doc := pipeline.Document{Pages: make([]pipeline.Page, len(res.Pages))}
	for i, p := range res.Pages {
		page := pipeline.Page{
			Index:    p.Index,
			Markdown: p.Markdown,
			Tables:   make([]pipeline.Table, len(p.Tables)),
			Images:   make([]pipeline.Image, len(p.Images)),
		}
		for j, t := range p.Tables {
			page.Tables[j] = pipeline.Table{ID: t.ID, Content: t.Content}
		}
		for j, img := range p.Images {
			page.Images[j] = pipeline.Image{ID: img.ID, Base64: img.ImageBase64}
		}
		doc.Pages[i] = page
	}
	return doc
}
