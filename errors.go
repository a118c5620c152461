package ocrbundle

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLRender  = errors.New("HTML rendering failed")
	ErrEPUBBuild   = errors.New("EPUB packaging failed")
	ErrBundleWrite = errors.New("bundle serialization failed")
)
