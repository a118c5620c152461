// Package bundle serializes the final output archive: markdown, HTML,
// EPUB, and the resource folder in one zip.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/halvar/go-ocrbundle/internal/pipeline"
)

// Fixed entry names inside the output archive.
const (
	MarkdownEntry = "content.md"
	HTMLEntry     = "content.html"
	EpubEntry     = "content.epub"
	ImageDir      = "images/"
)

// Write assembles the flat output archive and returns it as bytes.
// Assembly is all-or-nothing: any write error aborts with no partial
// archive returned.
func Write(markdown, htmlDoc string, epubData []byte, images pipeline.ImageRegistry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeEntry(zw, MarkdownEntry, []byte(markdown), zip.Deflate); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, HTMLEntry, []byte(htmlDoc), zip.Deflate); err != nil {
		return nil, err
	}
	for _, id := range images.SortedIDs() {
		// Image bytes are already compressed formats; store them as-is.
		if err := writeEntry(zw, ImageDir+id, images[id].Data, zip.Store); err != nil {
			return nil, err
		}
	}
	// The EPUB is itself a deflated archive; recompressing it wastes
	// cycles for no size gain.
	if err := writeEntry(zw, EpubEntry, epubData, zip.Store); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing bundle archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, method uint16) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("creating bundle entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing bundle entry %s: %w", name, err)
	}
	return nil
}
