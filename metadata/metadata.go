// Package metadata provides the mutable attribute record that accompanies a
// document through an extraction. Parsers read hints from it (the resource
// name) and write discovered attributes back (content type, title, author,
// page count, and so on). Keys are case-sensitive strings; a key may hold
// multiple values.
package metadata

import (
	"sort"
	"strings"
)

// Well-known attribute names. Parsers may define additional names; callers
// should treat unrecognized attributes as opaque.
const (
	// ResourceName identifies the source document (typically a filename).
	// It is used for diagnostics and as a detection hint only.
	ResourceName = "resourceName"

	// ContentType is the detected media type of the document.
	ContentType = "Content-Type"

	// ContentLanguage is the detected or declared document language.
	ContentLanguage = "Content-Language"

	// ParsedBy accumulates the parsers that handled the document.
	ParsedBy = "X-Parsed-By"

	// OCRState records the effective OCR capability for the extraction.
	OCRState = "X-OCR"

	Title       = "title"
	Author      = "author"
	Subject     = "subject"
	Keywords    = "keywords"
	Creator     = "creator"
	Producer    = "producer"
	Description = "description"

	PageCount   = "page-count"
	ImageWidth  = "image-width"
	ImageHeight = "image-height"
)

// Metadata is a string-keyed multimap of document attributes. It is owned by
// a single extraction request and is not safe for concurrent use.
type Metadata struct {
	m map[string][]string
}

// New returns an empty record.
func New() *Metadata {
	return &Metadata{m: make(map[string][]string)}
}

// Get returns the first value for name, or "" when absent.
func (md *Metadata) Get(name string) string {
	vs := md.m[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Values returns all values for name in insertion order.
func (md *Metadata) Values(name string) []string {
	vs := md.m[name]
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// Set replaces any existing values for name. An empty value removes the
// attribute.
func (md *Metadata) Set(name, value string) {
	if value == "" {
		delete(md.m, name)
		return
	}
	md.m[name] = []string{value}
}

// Add appends a value for name, keeping existing ones.
func (md *Metadata) Add(name, value string) {
	if value == "" {
		return
	}
	md.m[name] = append(md.m[name], value)
}

// Names returns the attribute names present, sorted.
func (md *Metadata) Names() []string {
	names := make([]string, 0, len(md.m))
	for k := range md.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of attributes present.
func (md *Metadata) Len() int {
	return len(md.m)
}

// String renders the record as "name=value" pairs for diagnostics.
func (md *Metadata) String() string {
	var sb strings.Builder
	for i, name := range md.Names() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		for j, v := range md.m[name] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	return sb.String()
}
