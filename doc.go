// Package fscrawler extracts plain text and metadata from heterogeneous
// document streams: PDF, OOXML and OpenDocument office files, EPUB, HTML,
// Markdown, plain text, raster images, and geospatial rasters, optionally
// applying OCR through a locally installed Tesseract engine.
//
// An Engine is built once from a settings snapshot and reused across
// documents. Parsing pipelines are composed lazily on the first extraction
// and cached until Reset:
//
//	engine := fscrawler.New(fscrawler.DefaultSettings())
//
//	meta := metadata.New()
//	meta.Set(metadata.ResourceName, "report.pdf")
//
//	f, err := os.Open("report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	res, err := engine.Extract(f, meta, 100_000, false)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(res.Status, res.Text)
//
// Extract closes the stream, buffers it, detects the media type, routes the
// document to a format sub-parser, and classifies the outcome. Hitting the
// character limit and zero-byte input are reported as statuses, not errors.
//
// When OCR is enabled in the settings but Tesseract turns out to be missing
// or unusable, the pipelines silently downgrade to text-layer-only
// extraction and results report OCRDegraded. Recognition support itself is
// compiled in only with the "ocr" build tag; see the ocr package.
//
// Language detection is a separate step: Languages returns a shared
// detector for callers that want to record a document's language after
// extraction.
package fscrawler
