// Package textdoc extracts content from character-based documents: plain
// text, Markdown, and CSV.
package textdoc

import (
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html/charset"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Parser handles text-like media types.
type Parser struct{}

// Types returns the media types the parser claims.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.Plain, media.Markdown, media.CSV}
}

// Parse decodes the document to UTF-8 and writes its textual content.
// Markdown is stripped of markup and CSV is reflowed one record per line;
// everything else passes through as-is.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	content := decode(doc.Data, string(doc.Type))

	switch doc.Type {
	case media.Markdown:
		return markdownText([]byte(content), w)
	case media.CSV:
		return csvText(content, w)
	default:
		_, err := io.WriteString(w, content)
		return err
	}
}

// decode converts raw bytes to UTF-8, honoring BOMs and any charset hint in
// the media type. Content that is neither marked nor valid UTF-8 falls back
// to windows-1252, which covers most legacy latin text.
func decode(data []byte, contentType string) string {
	enc, _, certain := charset.DetermineEncoding(data, contentType)
	if !certain && utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff")
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		decoded = data
	}
	return strings.TrimPrefix(string(decoded), "\ufeff")
}

// markdownText parses Markdown and writes only its textual content, with
// block boundaries rendered as newlines.
func markdownText(src []byte, w io.Writer) error {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(src))

	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return ast.WalkStop, err
				}
			}
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			if _, err := w.Write(t.Segment.Value(src)); err != nil {
				return ast.WalkStop, err
			}
			if t.SoftLineBreak() || t.HardLineBreak() {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return ast.WalkStop, err
				}
			}
		case *ast.AutoLink:
			if _, err := w.Write(t.URL(src)); err != nil {
				return ast.WalkStop, err
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if _, err := w.Write(seg.Value(src)); err != nil {
					return ast.WalkStop, err
				}
			}
		}
		return ast.WalkContinue, nil
	})
}

// csvText reparses delimiter-separated content and writes one line per
// record with fields joined by single spaces. Content that fails to parse
// is passed through untouched.
func csvText(content string, w io.Writer) error {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = csvDelimiter(content)
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			_, werr := io.WriteString(w, content)
			return werr
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		if _, err := io.WriteString(w, strings.Join(rec, " ")); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// csvDelimiter guesses the field separator from the first line.
func csvDelimiter(content string) rune {
	line, _, _ := strings.Cut(content, "\n")
	sep, best := ',', strings.Count(line, ",")
	if n := strings.Count(line, ";"); n > best {
		sep, best = ';', n
	}
	if n := strings.Count(line, "\t"); n > best {
		sep = '\t'
	}
	return sep
}
