package pipeline

// Document is the internal representation of a structured OCR result:
// an ordered collection of pages carrying markdown plus optional table
// and image sub-objects. The public API converts its own types into
// this form before running the pipeline.
type Document struct {
	Pages []Page
}

// Page is a single OCR page. Index defines document order; pages are
// sorted by it before combination, regardless of arrival order.
type Page struct {
	Index    int
	Markdown string
	Tables   []Table
	Images   []Image
}

// Table is a markdown table extracted from a page. ID doubles as the
// link placeholder target inside the page markdown.
type Table struct {
	ID      string
	Content string
}

// Image is a page image with base64-encoded raw bytes. The suffix of ID
// after the last dot denotes the image format.
type Image struct {
	ID     string
	Base64 string
}

// ImageEntry holds the decoded bytes and format of a registered image.
type ImageEntry struct {
	Data   []byte
	Format string
}

// ImageRegistry maps image id to decoded bytes and format. Keys are
// unique across the whole document; later pages overwrite earlier
// duplicates silently.
type ImageRegistry map[string]ImageEntry
