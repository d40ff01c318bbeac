// Package parser defines the parsing pipeline primitives: the Parser
// interface implemented by every format sub-parser, the Document request
// carried through a pipeline, the shared parse context, the auto-detect
// dispatcher that routes documents by media type, and the bounded output
// sink that caps extracted text.
//
// A pipeline is a composed [AutoDetect] dispatcher. Sub-parsers write plain
// text into the supplied writer and enrich the document's metadata record;
// they must stop and propagate the error when a write fails, which is how
// the output limit interrupts a parse.
package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
)

// Parser extracts plain text from one or more media types.
type Parser interface {
	// Types returns the media types the parser claims.
	Types() []media.Type

	// Parse writes the document's text content to w and enriches the
	// document's metadata record. Write errors from w must abort the parse
	// and be returned unwrapped enough for errors.Is to see them.
	Parse(doc *Document, w io.Writer) error
}

// Context is the parse context shared by every parser in a pipeline
// generation. It is immutable once the pipeline is built.
type Context struct {
	// OCR is the recognition run configuration, or nil when OCR is not
	// active for this generation. Sub-parsers skip recognition when nil.
	OCR *ocr.Config

	// Log receives diagnostic events.
	Log *slog.Logger
}

// NewContext returns a Context with a usable logger.
func NewContext(ocrCfg *ocr.Config, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{OCR: ocrCfg, Log: log}
}

// Document is one extraction request traveling through a pipeline.
type Document struct {
	// Data is the fully buffered document content.
	Data []byte

	// Type is the detected media type.
	Type media.Type

	// Meta is the mutable attribute record; parsers read the resource name
	// from it and write discovered attributes back.
	Meta *metadata.Metadata

	// Ctx is the shared parse context. Never nil for documents built with
	// NewDocument.
	Ctx *Context
}

// NewDocument assembles a request, substituting an empty metadata record and
// a default context when the caller passes nil.
func NewDocument(data []byte, t media.Type, meta *metadata.Metadata, ctx *Context) *Document {
	if meta == nil {
		meta = metadata.New()
	}
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}
	return &Document{Data: data, Type: t, Meta: meta, Ctx: ctx}
}

// Name returns the resource name attribute, for diagnostics.
func (d *Document) Name() string {
	return d.Meta.Get(metadata.ResourceName)
}

// parserName identifies a parser in the metadata ParsedBy trail.
func parserName(p Parser) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", p)
}
