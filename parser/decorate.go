package parser

import (
	"fmt"
	"io"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
)

// WithoutTypes wraps p so that it no longer claims the excluded media types.
// Parsing behavior is unchanged; only the claim set shrinks. Used to keep a
// broad-claiming parser away from types another parser should own.
func WithoutTypes(p Parser, exclude ...media.Type) Parser {
	drop := make(map[media.Type]bool, len(exclude))
	for _, t := range exclude {
		drop[t] = true
	}
	return &typeFilter{inner: p, drop: drop}
}

type typeFilter struct {
	inner Parser
	drop  map[media.Type]bool
}

func (f *typeFilter) Types() []media.Type {
	var kept []media.Type
	for _, t := range f.inner.Types() {
		if !f.drop[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

func (f *typeFilter) Parse(doc *Document, w io.Writer) error {
	return f.inner.Parse(doc, w)
}

// String reports the wrapped parser so the metadata trail names it rather
// than the decorator.
func (f *typeFilter) String() string {
	return fmt.Sprintf("%T", f.inner)
}
