// Package imagedoc handles raster images. The parser records image
// dimensions as metadata; when OCR is active for the parse context and
// enabled on the parser instance, it additionally runs the image through
// the recognition engine and emits the recognized text.
package imagedoc

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Parser extracts raster images.
type Parser struct {
	// OCR enables text recognition for this parser instance. Recognition
	// additionally requires an active OCR run configuration in the parse
	// context; without one the parser is metadata-only.
	OCR bool
}

// Types returns the claimed media types.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.PNG, media.JPEG, media.GIF, media.BMP, media.TIFF, media.WebP}
}

// Parse records the image dimensions and, when recognition is active,
// writes the recognized text. Undecodable images keep their detected type
// but yield no dimensions; that alone is not a failure.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(doc.Data)); err == nil {
		doc.Meta.Set(metadata.ImageWidth, strconv.Itoa(cfg.Width))
		doc.Meta.Set(metadata.ImageHeight, strconv.Itoa(cfg.Height))
		doc.Ctx.Log.Debug("decoded image header",
			"format", format, "width", cfg.Width, "height", cfg.Height,
			"resource", doc.Name())
	}

	if !p.OCR || doc.Ctx.OCR == nil {
		return nil
	}

	text, err := ocr.Recognize(doc.Data, *doc.Ctx.OCR)
	if err != nil {
		return fmt.Errorf("recognizing image text: %w", err)
	}
	if text == "" {
		return nil
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
