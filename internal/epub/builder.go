// Package epub assembles an OCF-compliant EPUB 3.0 archive from
// combined OCR markdown and an image registry.
package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/halvar/go-ocrbundle/internal/pipeline"
)

// mimetypeContent is the required content of the first archive entry.
const mimetypeContent = "application/epub+zip"

// Fixed archive paths required by the Open Container Format layout.
const (
	mimetypePath  = "mimetype"
	containerPath = "META-INF/container.xml"
	packagePath   = "OEBPS/content.opf"
	navPath       = "OEBPS/nav.xhtml"
	contentPath   = "OEBPS/content.xhtml"
	imageDir      = "OEBPS/images/"
)

// Builder creates a single-document EPUB from markdown and images.
type Builder struct {
	title    string
	language string
	creator  string
	renderer *pipeline.DocumentRenderer
}

// NewBuilder creates a Builder. language and creator fall back to "en"
// and "ocrbundle" when empty.
func NewBuilder(title, language, creator string, renderer *pipeline.DocumentRenderer) *Builder {
	if language == "" {
		language = "en"
	}
	if creator == "" {
		creator = "ocrbundle"
	}
	return &Builder{
		title:    title,
		language: language,
		creator:  creator,
		renderer: renderer,
	}
}

// Build renders the markdown and returns the complete EPUB archive.
// The markdown is expected pre-rewrite; the builder applies its own
// resource path rewrite so image references resolve inside the
// container.
func (b *Builder) Build(ctx context.Context, markdown string, images pipeline.ImageRegistry) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.WriteTo(ctx, &buf, markdown, images); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the EPUB archive to w. Entry order is load-bearing:
// EPUB readers locate the mimetype entry without a directory scan, so
// it must be the physical first entry and stored uncompressed.
func (b *Builder) WriteTo(ctx context.Context, w io.Writer, markdown string, images pipeline.ImageRegistry) error {
	content, err := b.renderContent(ctx, markdown)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	if err := writeMimetype(zw); err != nil {
		return err
	}
	if err := writeEntry(zw, containerPath, containerXML); err != nil {
		return err
	}
	if err := writeEntry(zw, packagePath, b.generatePackage(images)); err != nil {
		return err
	}
	if err := writeEntry(zw, navPath, b.generateNavigation()); err != nil {
		return err
	}
	if err := writeEntry(zw, contentPath, content); err != nil {
		return err
	}
	for _, id := range images.SortedIDs() {
		if err := writeBinaryEntry(zw, imageDir+id, images[id].Data); err != nil {
			return err
		}
	}

	return zw.Close()
}

// writeMimetype writes the mimetype entry first and uncompressed, as
// the OCF specification requires.
func writeMimetype(zw *zip.Writer) error {
	header := &zip.FileHeader{
		Name:   mimetypePath,
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating mimetype entry: %w", err)
	}
	if _, err := w.Write([]byte(mimetypeContent)); err != nil {
		return fmt.Errorf("writing mimetype entry: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name, content string) error {
	return writeBinaryEntry(zw, name, []byte(content))
}

func writeBinaryEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// containerXML points readers at the package document location.
const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
