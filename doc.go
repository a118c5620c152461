// Package ocrbundle converts structured OCR results into a
// self-contained multi-format document bundle: combined markdown, a
// standalone HTML document, and an EPUB e-book, packaged into one
// archive.
//
// # Quick Start
//
//	conv := ocrbundle.NewConverter()
//
//	result, err := conv.Convert(ctx, ocrbundle.Input{
//	    Result:     ocrResult,
//	    SourceName: "paper.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("paper.zip", result.Bundle, 0644)
//
// The result also exposes the individual artifacts (result.Markdown,
// result.HTML, result.EPUB) for callers that don't want to unzip the
// bundle.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Resource extraction (page images into a global registry)
//  2. Page combination (index order, table placeholder inlining)
//  3. Image reference rewriting to the resource folder (idempotent)
//  4. Markdown to HTML via Goldmark (GFM, syntax highlighting), with
//     math expressions placeholder-protected around the conversion
//  5. EPUB packaging (OCF container: uncompressed mimetype first,
//     package manifest/spine, navigation and content documents)
//  6. Bundle assembly into a single zip archive
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := ocrbundle.NewConverter(
//	    ocrbundle.WithLanguage("de"),
//	    ocrbundle.WithMathRenderer(engine),
//	)
//
// Without a math engine, dollar-delimited expressions degrade to their
// raw source wrapped in math containers; the conversion never fails on
// an expression the engine cannot render.
//
// # Concurrency
//
// A Converter holds no per-conversion state. Running conversions in
// parallel from multiple goroutines is safe without synchronization.
package ocrbundle
