package ocrbundle

import (
	"path/filepath"
	"strings"
)

// OCRResult is the structured output of an OCR provider: an ordered
// collection of pages carrying markdown plus optional table and image
// sub-objects. The shape is an external contract; every sub-field is
// explicitly optional and an absent field is treated as empty, never as
// an error.
type OCRResult struct {
	Pages []Page `json:"pages"`
}

// Page is a single OCR page. Index defines document order; pages are
// combined in index order regardless of arrival order.
type Page struct {
	Index    int        `json:"index"`
	Markdown string     `json:"markdown"`
	Tables   []TableRef `json:"tables,omitempty"`
	Images   []ImageRef `json:"images,omitempty"`
}

// TableRef is a markdown table extracted from a page. ID doubles as the
// [id](id) link placeholder target inside the page markdown; a table is
// inlined only when both ID and Content are present and the placeholder
// occurs in the page.
type TableRef struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ImageRef is a page image. ID carries an extension-like suffix
// denoting the image format; ImageBase64 holds the base64-encoded raw
// bytes, with or without a data URI header.
type ImageRef struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

// Input contains conversion parameters.
type Input struct {
	Result     OCRResult // OCR result to convert (required; may have zero pages)
	SourceName string    // original filename; its stem becomes the document title
	Title      string    // explicit title, overrides SourceName (optional)
}

// ConvertResult holds every artifact of one conversion. Bundle is the
// final archive; the individual artifacts are exposed for callers that
// want them without unzipping.
type ConvertResult struct {
	Markdown []byte // reference-rewritten combined markdown
	HTML     []byte // standalone styled HTML document
	EPUB     []byte // OCF-compliant EPUB archive
	Bundle   []byte // zip of all of the above plus images/
}

// fallbackTitle is used when no usable title can be derived.
const fallbackTitle = "Document"

// deriveTitle strips the filename extension from the source name.
func deriveTitle(input Input) string {
	if input.Title != "" {
		return input.Title
	}
	name := filepath.Base(input.SourceName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return fallbackTitle
	}
	return name
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	resourcePrefix string
	language       string
	creator        string
	math           MathRenderer
}

// WithResourcePrefix sets the resource folder that image references are
// rewritten to. Default "images/".
func WithResourcePrefix(prefix string) Option {
	return func(c *Converter) {
		c.cfg.resourcePrefix = prefix
	}
}

// WithLanguage sets the EPUB dc:language metadata. Default "en".
func WithLanguage(lang string) Option {
	return func(c *Converter) {
		c.cfg.language = lang
	}
}

// WithCreator sets the EPUB dc:creator metadata.
func WithCreator(creator string) Option {
	return func(c *Converter) {
		c.cfg.creator = creator
	}
}

// WithMathRenderer injects a math engine used to render protected
// expressions as scalable vector markup. Without one, expressions
// degrade to their raw dollar-delimited source.
func WithMathRenderer(r MathRenderer) Option {
	return func(c *Converter) {
		c.cfg.math = r
	}
}
