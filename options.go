package fscrawler

import (
	"log/slog"

	"github.com/suricats/vinci-bluescan-fscrawler/langdetect"
	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger routes the engine's diagnostics to log. The default is
// slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithProbe replaces the OCR capability probe. Tests use it to simulate a
// present or missing Tesseract install without touching the host.
func WithProbe(probe func(ocr.Config) ocr.Availability) Option {
	return func(e *Engine) {
		if probe != nil {
			e.probe = probe
		}
	}
}

// WithDetectorFactory replaces the language detector constructor used by
// Languages.
func WithDetectorFactory(factory func() (*langdetect.Detector, error)) Option {
	return func(e *Engine) {
		if factory != nil {
			e.detector = factory
		}
	}
}
