package fscrawler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/suricats/vinci-bluescan-fscrawler/langdetect"
	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// OCRState is the effective recognition capability of a pipeline
// generation.
type OCRState int

const (
	// OCRDisabled means recognition was not requested in the settings.
	OCRDisabled OCRState = iota

	// OCRDegraded means recognition was requested but the capability probe
	// found the Tesseract install unusable, so the pipelines fell back to
	// text-only extraction.
	OCRDegraded

	// OCRActive means recognition ran for image content.
	OCRActive
)

// String returns the state as recorded in the X-OCR metadata attribute.
func (s OCRState) String() string {
	switch s {
	case OCRActive:
		return "active"
	case OCRDegraded:
		return "degraded"
	default:
		return "disabled"
	}
}

// registry is one built pipeline generation: both dispatcher variants, the
// parse context they share, and the effective capability they were built
// for. Immutable once published; replaced wholesale by Reset.
type registry struct {
	regular  *parser.AutoDetect
	fullOCR  *parser.AutoDetect
	ctx      *parser.Context
	ocr      OCRState
	rawLimit int64
}

// Engine extracts text from document streams according to one settings
// snapshot. The pipelines are built lazily on the first extraction and
// reused until Reset. An Engine is safe for concurrent use; concurrency
// comes from callers, the engine spawns nothing.
type Engine struct {
	log      *slog.Logger
	probe    func(ocr.Config) ocr.Availability
	detector func() (*langdetect.Detector, error)

	mu       sync.Mutex // guards settings and registry (re)builds
	settings Settings
	registry atomic.Pointer[registry]
	builds   atomic.Int32

	langMu    sync.Mutex
	langBuilt bool
	lang      *langdetect.Detector
}

// New returns an Engine bound to settings.
//
//	engine := fscrawler.New(fscrawler.DefaultSettings())
//
// Options inject the logger and, for tests, the capability probe and the
// language detector constructor.
func New(settings Settings, opts ...Option) *Engine {
	settings.defaults()
	e := &Engine{
		log:      slog.Default(),
		probe:    ocr.Probe,
		detector: langdetect.New,
		settings: settings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the currently bound snapshot.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// ensureRegistry returns the published generation, building one first when
// absent. The fast path is a lock-free load; builders serialize on the
// mutex and re-check before building. A failed build publishes nothing, so
// the next call retries.
func (e *Engine) ensureRegistry() (*registry, error) {
	if reg := e.registry.Load(); reg != nil {
		return reg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if reg := e.registry.Load(); reg != nil {
		return reg, nil
	}

	reg, err := e.buildRegistry()
	if err != nil {
		return nil, err
	}
	e.builds.Add(1)
	e.registry.Store(reg)
	return reg, nil
}

// Reset discards the built pipelines and the language detector cache. The
// next extraction rebuilds from the bound settings. In-flight extractions
// keep the generation they loaded.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.registry.Store(nil)
	e.mu.Unlock()

	e.langMu.Lock()
	e.langBuilt = false
	e.lang = nil
	e.langMu.Unlock()
}

// Reconfigure swaps the settings snapshot and resets.
func (e *Engine) Reconfigure(settings Settings) {
	settings.defaults()

	e.mu.Lock()
	e.settings = settings
	e.registry.Store(nil)
	e.mu.Unlock()

	e.langMu.Lock()
	e.langBuilt = false
	e.lang = nil
	e.langMu.Unlock()
}

// Languages returns the shared language detector, building it on the first
// call. ok is false when the models could not be loaded; the failure is
// remembered and not retried until Reset.
func (e *Engine) Languages() (det *langdetect.Detector, ok bool) {
	e.langMu.Lock()
	defer e.langMu.Unlock()

	if !e.langBuilt {
		e.langBuilt = true
		det, err := e.detector()
		if err != nil {
			e.log.Warn("can not load language detector models", "reason", err)
		} else {
			e.lang = det
		}
	}
	return e.lang, e.lang != nil
}
