// Package ocr turns images into text using the Tesseract engine.
//
// Recognition is backed by gosseract, which binds to the Tesseract C
// library and therefore needs cgo plus an installed Tesseract. It is
// compiled in only when building with the "ocr" tag:
//
//	go build -tags ocr
//
// Without the tag, Recognize returns ErrOCRNotEnabled and Probe reports
// OCR as unavailable, so callers can degrade to text-layer-only
// extraction. Tesseract itself is installed via the system package
// manager. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import "errors"

// ErrOCRNotEnabled is returned when recognition is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Output types for recognized text.
const (
	OutputTypeText = "txt"  // plain UTF-8 text
	OutputTypeHOCR = "hocr" // hOCR XHTML with positional markup
)

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes (matching Tesseract's --psm values).
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Config carries the Tesseract settings for a recognition run.
type Config struct {
	// Path points at the tesseract binary, or at the directory containing
	// it. Empty means look it up on PATH.
	Path string

	// DataPath overrides the tessdata directory holding the trained models.
	DataPath string

	// Language selects the trained model(s), "+"-separated for multiple
	// (e.g. "eng+fra"). Defaults to "eng".
	Language string

	// OutputType selects plain text or hOCR output.
	// Defaults to OutputTypeText.
	OutputType string

	// PageSegMode overrides Tesseract's page segmentation mode when
	// non-zero. See the PSM_* constants.
	PageSegMode PageSegMode
}

// withDefaults fills in the zero-value fields.
func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = "eng"
	}
	if c.OutputType == "" {
		c.OutputType = OutputTypeText
	}
	return c
}
