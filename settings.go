package fscrawler

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
	"github.com/suricats/vinci-bluescan-fscrawler/pdfdoc"
)

// Settings is the configuration snapshot an Engine is bound to. The engine
// never mutates it and never reads configuration from anywhere else;
// changing configuration means swapping the snapshot with
// Engine.Reconfigure.
type Settings struct {
	// OCR configures the optional recognition stage.
	OCR OCRSettings `yaml:"ocr"`

	// RawBytesLimit caps how many bytes Extract buffers from a stream
	// before structural parsing. Zero or less means unbounded.
	RawBytesLimit int64 `yaml:"raw_bytes_limit"`
}

// OCRSettings mirrors the ocr block of a settings file.
type OCRSettings struct {
	// Enabled turns the recognition stage on. Extraction still works when
	// the Tesseract install turns out to be unusable; the pipelines
	// silently downgrade.
	Enabled bool `yaml:"enabled"`

	// Path points at the tesseract binary, or at the directory containing
	// it. Empty means PATH lookup.
	Path string `yaml:"path"`

	// DataPath overrides the tessdata directory holding the trained
	// models.
	DataPath string `yaml:"data_path"`

	// Language selects the trained model(s), "+"-separated for multiple.
	// Defaults to "eng".
	Language string `yaml:"language"`

	// OutputType is "txt" or "hocr". Defaults to "txt".
	OutputType string `yaml:"output_type"`

	// PDFStrategy selects how OCR combines with a PDF text layer:
	// "no_ocr", "ocr_only" or "ocr_and_text". Defaults to "ocr_and_text".
	PDFStrategy string `yaml:"pdf_strategy"`

	// PageSegMode overrides Tesseract's page segmentation mode when
	// non-zero.
	PageSegMode int `yaml:"page_seg_mode"`
}

// DefaultSettings returns the settings an empty configuration file
// produces: OCR enabled, English models, plain text output, and the
// combined text-plus-OCR PDF strategy.
func DefaultSettings() Settings {
	s := Settings{OCR: OCRSettings{Enabled: true}}
	s.defaults()
	return s
}

// defaults fills zero-value fields in place. The Enabled flag is left
// alone: a zero-value Settings runs without OCR.
func (s *Settings) defaults() {
	if s.OCR.Language == "" {
		s.OCR.Language = "eng"
	}
	if s.OCR.OutputType == "" {
		s.OCR.OutputType = ocr.OutputTypeText
	}
	if s.OCR.PDFStrategy == "" {
		s.OCR.PDFStrategy = string(pdfdoc.StrategyOCRAndText)
	}
}

// validate rejects values no pipeline can be built from.
func (s *Settings) validate() error {
	if !pdfdoc.Strategy(s.OCR.PDFStrategy).Valid() {
		return fmt.Errorf("unknown pdf strategy %q", s.OCR.PDFStrategy)
	}
	switch s.OCR.OutputType {
	case ocr.OutputTypeText, ocr.OutputTypeHOCR:
	default:
		return fmt.Errorf("unknown ocr output type %q", s.OCR.OutputType)
	}
	return nil
}

// ocrConfig converts the snapshot into a recognition run configuration.
func (s *Settings) ocrConfig() ocr.Config {
	return ocr.Config{
		Path:        s.OCR.Path,
		DataPath:    s.OCR.DataPath,
		Language:    s.OCR.Language,
		OutputType:  s.OCR.OutputType,
		PageSegMode: ocr.PageSegMode(s.OCR.PageSegMode),
	}
}

// LoadSettings reads a YAML settings file from disk.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close()
	return ParseSettings(f)
}

// ParseSettings reads YAML settings from r. Parsing starts from
// DefaultSettings, so absent keys keep their defaults and an empty document
// is valid.
func ParseSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	s.defaults()
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
