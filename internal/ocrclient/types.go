package ocrclient

// OCR API wire types. Every sub-field is optional on the wire; absent
// fields decode to zero values and are treated as empty downstream.

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           documentRef `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64,omitempty"`
	ExcludeHeaders     bool        `json:"exclude_headers,omitempty"`
	ExcludeFooters     bool        `json:"exclude_footers,omitempty"`
}

type documentRef struct {
	Type        string `json:"type"` // "document_url" or "image_url"
	DocumentURL string `json:"document_url,omitempty"`
}

// Response is the parsed OCR result.
type Response struct {
	Model     string     `json:"model"`
	Pages     []Page     `json:"pages"`
	UsageInfo *UsageInfo `json:"usage_info,omitempty"`
}

// Page is one OCR page of the response.
type Page struct {
	Index    int     `json:"index"`
	Markdown string  `json:"markdown"`
	Tables   []Table `json:"tables,omitempty"`
	Images   []Image `json:"images,omitempty"`
}

// Table is a per-page table sub-object.
type Table struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Image is a per-page image sub-object.
type Image struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// UsageInfo reports provider-side accounting.
type UsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
