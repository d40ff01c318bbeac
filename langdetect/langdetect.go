// Package langdetect identifies the natural language of extracted text.
//
// Detection is statistical, backed by lingua's embedded n-gram models, so
// no external data files or services are involved. Building a Detector
// loads models for every supported language up front; callers are expected
// to build one and reuse it rather than constructing per document.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector identifies the most likely language of a piece of text.
// It is safe for concurrent use.
type Detector struct {
	inner lingua.LanguageDetector
}

// New builds a detector covering all spoken languages with models
// preloaded.
func New() (*Detector, error) {
	inner := lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		WithPreloadedLanguageModels().
		Build()
	return &Detector{inner: inner}, nil
}

// Detect returns the lowercase ISO 639-1 code of the most likely language
// (e.g. "en", "fr"), or ok=false when the text is too short or ambiguous
// to identify with confidence.
func (d *Detector) Detect(text string) (code string, ok bool) {
	if d == nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, exists := d.inner.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
