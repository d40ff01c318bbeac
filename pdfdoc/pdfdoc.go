// Package pdfdoc extracts text and metadata from PDF documents.
//
// Two readers share the work: the text layer and the document information
// dictionary come from github.com/ledongthuc/pdf, while validation, page
// count, and embedded image access go through pdfcpu. A strategy selects
// how OCR combines with the embedded text layer; recognition itself only
// runs when the parse context carries an active OCR run configuration.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Strategy selects how OCR combines with the embedded text layer.
type Strategy string

const (
	// StrategyNoOCR extracts the text layer only.
	StrategyNoOCR Strategy = "no_ocr"

	// StrategyOCROnly ignores the text layer and recognizes embedded
	// page images only.
	StrategyOCROnly Strategy = "ocr_only"

	// StrategyOCRAndText extracts the text layer and additionally
	// recognizes embedded page images.
	StrategyOCRAndText Strategy = "ocr_and_text"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyNoOCR, StrategyOCROnly, StrategyOCRAndText:
		return true
	}
	return false
}

// KeyOCRStrategy is the metadata attribute recording the strategy applied
// to a document.
const KeyOCRStrategy = "pdf:ocr-strategy"

// ErrEncrypted reports a password-protected document.
var ErrEncrypted = errors.New("encrypted document")

// Parser extracts PDF documents.
type Parser struct {
	// Strategy selects the OCR policy. The zero value extracts the text
	// layer only.
	Strategy Strategy
}

// Types returns the claimed media types.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.PDF}
}

// Parse validates the document, records its attributes, and writes the
// extracted text according to the configured strategy. Unreadable pages
// are skipped; an unreadable document is a failure.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	strat := p.strategy()
	doc.Meta.Set(KeyOCRStrategy, string(strat))

	pctx, err := readContext(doc.Data)
	if err != nil {
		if isEncrypted(err) {
			return fmt.Errorf("reading document: %w", ErrEncrypted)
		}
		return fmt.Errorf("reading document: %w", err)
	}
	if pctx.PageCount > 0 {
		doc.Meta.Set(metadata.PageCount, strconv.Itoa(pctx.PageCount))
	}

	r, rerr := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if rerr != nil {
		// pdfcpu accepted the document, so this reader is just pickier.
		doc.Ctx.Log.Debug("text layer unavailable",
			"resource", doc.Name(), "reason", rerr)
	} else {
		applyDocumentInfo(doc.Meta, r)
	}

	if strat != StrategyOCROnly && rerr == nil {
		if err := writeTextLayer(doc, r, w); err != nil {
			return err
		}
	}

	if strat == StrategyNoOCR || doc.Ctx.OCR == nil {
		return nil
	}
	return recognizeImages(doc, pctx, w)
}

func (p *Parser) strategy() Strategy {
	if p.Strategy == "" {
		return StrategyNoOCR
	}
	return p.Strategy
}

// writeTextLayer streams the selectable text page by page. The first
// non-empty line becomes the title when the information dictionary did not
// provide one.
func writeTextLayer(doc *parser.Document, r *pdf.Reader, w io.Writer) error {
	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = r.NumPage()
	}()

	var title string
	wrote := false
	for i := 1; i <= pages; i++ {
		text := pageText(r, i, doc.Ctx.Log, doc.Name())
		if text == "" {
			continue
		}
		if title == "" {
			title = firstLine(text)
		}
		if wrote {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	if title != "" && doc.Meta.Get(metadata.Title) == "" {
		doc.Meta.Set(metadata.Title, title)
	}
	return nil
}

// pageText extracts one page's text. The reader panics on some malformed
// page trees, so the page is sacrificed, not the document.
func pageText(r *pdf.Reader, n int, log *slog.Logger, resource string) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("skipping unreadable page",
				"page", n, "resource", resource, "reason", rec)
			text = ""
		}
	}()

	page := r.Page(n)
	if page.V.IsNull() {
		return ""
	}
	s, err := page.GetPlainText(nil)
	if err != nil {
		log.Warn("skipping unreadable page",
			"page", n, "resource", resource, "reason", err)
		return ""
	}
	return strings.TrimSpace(s)
}

// applyDocumentInfo copies the information dictionary onto the record.
func applyDocumentInfo(meta *metadata.Metadata, r *pdf.Reader) {
	defer func() { _ = recover() }()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	fields := []struct{ key, attr string }{
		{"Title", metadata.Title},
		{"Author", metadata.Author},
		{"Subject", metadata.Subject},
		{"Keywords", metadata.Keywords},
		{"Creator", metadata.Creator},
		{"Producer", metadata.Producer},
	}
	for _, f := range fields {
		v := info.Key(f.key)
		if v.Kind() != pdf.String {
			continue
		}
		if s := strings.TrimSpace(v.Text()); s != "" {
			meta.Set(f.attr, s)
		}
	}
}

// firstLine returns the first non-empty line, capped at 200 characters.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > 200 {
			line = string([]rune(line)[:200])
		}
		return line
	}
	return ""
}

// isEncrypted classifies reader errors caused by password protection.
// Neither reader exposes a sentinel for this, only error text.
func isEncrypted(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "encrypt") || strings.Contains(s, "password")
}
