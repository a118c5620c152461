package pipeline

import (
	"encoding/base64"
	"sort"
	"strings"
)

// BuildImageRegistry pulls every page image into a single addressable
// registry. An image missing its id or data is skipped entirely; so is
// an image whose base64 payload does not decode. Neither case is an
// error: malformed entries degrade to an absent image, not a failed
// conversion.
func BuildImageRegistry(doc Document) ImageRegistry {
	registry := make(ImageRegistry)
	for _, page := range doc.Pages {
		for _, img := range page.Images {
			if img.ID == "" || img.Base64 == "" {
				continue
			}
			data, err := decodeImageData(img.Base64)
			if err != nil {
				continue
			}
			registry[img.ID] = ImageEntry{
				Data:   data,
				Format: imageFormat(img.ID),
			}
		}
	}
	return registry
}

// decodeImageData decodes a base64 image payload. OCR providers may
// return either bare base64 or a full data URI; the URI header is
// stripped before decoding.
func decodeImageData(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx != -1 {
			payload = payload[idx+1:]
		}
	}
	payload = strings.TrimSpace(payload)
	return base64.StdEncoding.DecodeString(payload)
}

// imageFormat derives the image format from the id's extension-like
// suffix after the last dot. Returns "" when the id has no dot.
func imageFormat(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx == -1 || idx == len(id)-1 {
		return ""
	}
	return strings.ToLower(id[idx+1:])
}

// SortedIDs returns the registry keys in lexical order. Registry
// insertion order is irrelevant; output formats need a deterministic
// entry order.
func (r ImageRegistry) SortedIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
