// Package assets provides the embedded stylesheets shipped with the
// converter. Styles are compiled into the binary; there is no runtime
// lookup path.
package assets

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed styles/*.css
var styles embed.FS

// ErrStyleNotFound indicates the named stylesheet is not embedded.
var ErrStyleNotFound = errors.New("style not found")

// Built-in style names.
const (
	StyleDocument = "document" // print-oriented HTML output
	StyleEpub     = "epub"     // e-reader-oriented EPUB content
)

// LoadStyle loads an embedded CSS style by name, without the .css
// extension.
func LoadStyle(name string) (string, error) {
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// MustLoadStyle loads an embedded style and panics when it is missing.
// Missing built-in styles are a programmer error caught at startup.
func MustLoadStyle(name string) string {
	css, err := LoadStyle(name)
	if err != nil {
		panic("assets: " + err.Error())
	}
	return css
}
