package parser

import (
	"io"
	"sort"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
)

// AutoDetect routes a document to the sub-parser registered for its media
// type. Registration is last-wins: a parser passed later claims its types
// away from one passed earlier, which is how a specialized parser overrides
// the generic set.
//
// A document whose type no registered parser claims produces no text and no
// error; the record still carries whatever detection discovered. AutoDetect
// itself implements [Parser], so dispatchers compose.
type AutoDetect struct {
	byType map[media.Type]Parser
}

// NewAutoDetect builds a dispatcher from parsers in registration order.
func NewAutoDetect(parsers ...Parser) *AutoDetect {
	a := &AutoDetect{byType: make(map[media.Type]Parser)}
	for _, p := range parsers {
		if p == nil {
			continue
		}
		for _, t := range p.Types() {
			a.byType[t] = p
		}
	}
	return a
}

// ParserFor returns the parser claiming t.
func (a *AutoDetect) ParserFor(t media.Type) (Parser, bool) {
	p, ok := a.byType[t]
	return p, ok
}

// Types returns the claimed media types, sorted.
func (a *AutoDetect) Types() []media.Type {
	types := make([]media.Type, 0, len(a.byType))
	for t := range a.byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Parse dispatches on the document's detected type.
func (a *AutoDetect) Parse(doc *Document, w io.Writer) error {
	p, ok := a.byType[doc.Type]
	if !ok {
		doc.Ctx.Log.Debug("no parser claims media type",
			"type", doc.Type, "resource", doc.Name())
		return nil
	}
	doc.Meta.Add(metadata.ParsedBy, parserName(p))
	return p.Parse(doc, w)
}
