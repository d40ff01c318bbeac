package fscrawler

import (
	"fmt"

	"github.com/suricats/vinci-bluescan-fscrawler/epubdoc"
	"github.com/suricats/vinci-bluescan-fscrawler/geodoc"
	"github.com/suricats/vinci-bluescan-fscrawler/htmldoc"
	"github.com/suricats/vinci-bluescan-fscrawler/imagedoc"
	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/ocr"
	"github.com/suricats/vinci-bluescan-fscrawler/officedoc"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
	"github.com/suricats/vinci-bluescan-fscrawler/pdfdoc"
	"github.com/suricats/vinci-bluescan-fscrawler/textdoc"
)

// buildRegistry assembles one pipeline generation from the bound settings.
// The capability probe runs exactly once per generation; an unusable OCR
// setup downgrades the whole generation rather than failing the build.
// Called with e.mu held.
func (e *Engine) buildRegistry() (*registry, error) {
	s := e.settings
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("building pipelines: %w", err)
	}

	state := OCRDisabled
	if s.OCR.Enabled {
		if avail := e.probe(s.ocrConfig()); avail.OK {
			state = OCRActive
			e.log.Info("OCR is enabled, recognition may slow extraction down",
				"tesseract", avail.Version)
		} else {
			state = OCRDegraded
			e.log.Debug("OCR is unusable, downgrading to text-only extraction",
				"reason", avail.Reason)
		}
	} else {
		e.log.Debug("OCR is disabled")
	}

	regularStrategy := pdfdoc.Strategy(s.OCR.PDFStrategy)
	fullStrategy := pdfdoc.StrategyOCROnly
	if state != OCRActive {
		regularStrategy = pdfdoc.StrategyNoOCR
		fullStrategy = pdfdoc.StrategyNoOCR
	}

	var runCfg *ocr.Config
	if state == OCRActive {
		cfg := s.ocrConfig()
		runCfg = &cfg
	}

	return &registry{
		regular:  buildPipeline(regularStrategy, state == OCRActive),
		fullOCR:  buildPipeline(fullStrategy, state == OCRActive),
		ctx:      parser.NewContext(runCfg, e.log),
		ocr:      state,
		rawLimit: s.RawBytesLimit,
	}, nil
}

// buildPipeline composes one dispatcher variant. Registration is last-wins:
// the generic format parsers first, then the PDF parser carrying the
// variant's strategy, then the raster image parser, and finally the geo
// parser stripped of the photographic formats so that it claims TIFF only.
func buildPipeline(strategy pdfdoc.Strategy, ocrActive bool) *parser.AutoDetect {
	return parser.NewAutoDetect(
		&textdoc.Parser{},
		&htmldoc.Parser{},
		&officedoc.Parser{},
		&epubdoc.Parser{},
		&pdfdoc.Parser{Strategy: strategy},
		&imagedoc.Parser{OCR: ocrActive},
		parser.WithoutTypes(&geodoc.Parser{},
			media.PNG, media.JPEG, media.BMP, media.GIF),
	)
}
