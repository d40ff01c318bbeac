// Package officedoc extracts text and properties from office documents:
// the OOXML family (docx, xlsx, pptx) and the OpenDocument family (odt,
// ods, odp). Both families are ZIP containers holding XML parts; content
// parts are linearized to plain text and the property parts feed the
// document's metadata record.
package officedoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Parser handles the zipped office document families.
type Parser struct{}

// Types returns the media types the parser claims.
func (p *Parser) Types() []media.Type {
	return []media.Type{
		media.Docx, media.Xlsx, media.Pptx,
		media.Odt, media.Ods, media.Odp,
	}
}

// Parse extracts the document text into w and records core properties
// (title, author, page count, ...) in the document's metadata.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	switch doc.Type {
	case media.Docx:
		return parseDocx(zr, doc.Meta, w)
	case media.Xlsx:
		return parseXlsx(zr, doc.Meta, w)
	case media.Pptx:
		return parsePptx(zr, doc.Meta, w)
	case media.Odt, media.Ods, media.Odp:
		return parseODF(zr, doc.Meta, w)
	default:
		return fmt.Errorf("unsupported media type %s", doc.Type)
	}
}

// archiveFile reads the content of a file from the ZIP archive.
func archiveFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// numberedParts returns the archive files matching prefix<N>suffix in
// numeric order, e.g. the slide or header parts of an OOXML package.
func numberedParts(zr *zip.Reader, prefix, suffix string) []*zip.File {
	type part struct {
		n int
		f *zip.File
	}
	var parts []part
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, prefix) || !strings.HasSuffix(f.Name, suffix) {
			continue
		}
		n, err := strconv.Atoi(f.Name[len(prefix) : len(f.Name)-len(suffix)])
		if err != nil {
			continue
		}
		parts = append(parts, part{n, f})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	files := make([]*zip.File, len(parts))
	for i, p := range parts {
		files[i] = p.f
	}
	return files
}

// textRule describes how one XML content part linearizes to plain text:
// which elements carry character data worth keeping, and which closing
// elements emit a separator.
type textRule struct {
	text  map[string]bool
	after map[string]string
}

// harvestXMLText streams one XML part through the rule, writing text as it
// is encountered so a bounded sink can interrupt the scan.
func harvestXMLText(data []byte, rule textRule, w io.Writer) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("scanning XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rule.text[t.Name.Local] {
				depth++
			}
		case xml.EndElement:
			if rule.text[t.Name.Local] {
				depth--
			}
			if sep := rule.after[t.Name.Local]; sep != "" {
				if _, err := io.WriteString(w, sep); err != nil {
					return err
				}
			}
		case xml.CharData:
			if depth > 0 {
				if _, err := w.Write([]byte(t)); err != nil {
					return err
				}
			}
		}
	}
}

// setIfPresent records a metadata value, skipping blanks so absent
// properties do not erase earlier values.
func setIfPresent(meta *metadata.Metadata, name, value string) {
	if v := strings.TrimSpace(value); v != "" {
		meta.Set(name, v)
	}
}
