// Package htmldoc extracts text and head metadata from HTML documents.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Parser handles HTML documents.
type Parser struct{}

// Types returns the media types the parser claims.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.HTML}
}

// Parse decodes the markup (honoring meta charset declarations), harvests
// head metadata, and writes the body text to w.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	cr, err := charset.NewReader(bytes.NewReader(doc.Data), string(doc.Type))
	if err != nil {
		return fmt.Errorf("detecting charset: %w", err)
	}
	root, err := html.Parse(cr)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	harvestHead(root, doc.Meta)
	return BodyText(root, w)
}

// BodyText writes the text content of the document's body element to w,
// or of the whole tree when no body is present. Block elements end with a
// newline and table cells are separated by tabs. Write errors abort the
// walk and are returned as-is.
func BodyText(root *html.Node, w io.Writer) error {
	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	return writeNodeText(body, w)
}

// harvestHead records the title and the common meta tags.
func harvestHead(n *html.Node, meta *metadata.Metadata) {
	if n.Type == html.ElementNode && n.Data == "head" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "title":
				if t := nodeText(c); t != "" {
					meta.Set(metadata.Title, t)
				}
			case "meta":
				var name, content string
				for _, attr := range c.Attr {
					switch attr.Key {
					case "name", "property":
						name = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if content == "" {
					continue
				}
				switch strings.ToLower(name) {
				case "author":
					meta.Set(metadata.Author, content)
				case "description", "og:description":
					meta.Set(metadata.Description, content)
				case "keywords":
					meta.Set(metadata.Keywords, content)
				}
			}
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		harvestHead(c, meta)
	}
}

// writeNodeText streams the text content of a node and its descendants.
func writeNodeText(n *html.Node, w io.Writer) error {
	if n.Type == html.TextNode {
		if _, err := io.WriteString(w, n.Data); err != nil {
			return err
		}
	}
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return nil
		}
		if n.Data == "br" {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := writeNodeText(c, w); err != nil {
			return err
		}
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "blockquote", "pre":
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		case "td", "th":
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
	}
	return nil
}

// shouldSkipElement returns true for elements whose content is never text.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// nodeText collects a node's text with whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	_ = writeNodeText(n, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}
