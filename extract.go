package fscrawler

import (
	"errors"
	"fmt"
	"io"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Status classifies how an extraction ended.
type Status int

const (
	// StatusCompleted means the whole document was processed.
	StatusCompleted Status = iota

	// StatusTruncated means the character limit interrupted extraction;
	// the result text holds everything accumulated before the cut.
	StatusTruncated

	// StatusEmpty means the input held zero bytes and was skipped.
	StatusEmpty

	// StatusFailed accompanies a non-nil error wrapping the cause.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusTruncated:
		return "truncated"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "completed"
	}
}

// Result is the outcome of one extraction.
type Result struct {
	// Text is the extracted plain text, always whole UTF-8 runes, possibly
	// truncated at the character limit.
	Text string

	// Status classifies the outcome.
	Status Status

	// OCR reports the effective recognition capability of the pipeline
	// generation that served the request.
	OCR OCRState

	// Meta is the enriched record, the same pointer the caller passed in.
	Meta *metadata.Metadata
}

var errTooLarge = errors.New("input exceeds the raw bytes limit")

// Extract reads one document stream and extracts its plain text.
//
// The stream is consumed once and closed on every exit path when it
// implements io.Closer. meta should carry the resource name, which feeds
// diagnostics and media-type detection; it is enriched in place and
// returned on the Result. maxChars caps the extracted characters, zero or
// less meaning unbounded. forceOCR routes the document through the
// full-OCR pipeline variant regardless of any text layer.
//
// Truncation and zero-byte input are statuses, not errors. A non-nil error
// pairs with StatusFailed and always wraps the original cause.
func (e *Engine) Extract(r io.Reader, meta *metadata.Metadata, maxChars int, forceOCR bool) (Result, error) {
	if meta == nil {
		meta = metadata.New()
	}
	defer closeInput(r)

	reg, err := e.ensureRegistry()
	if err != nil {
		return Result{Status: StatusFailed, Meta: meta}, err
	}

	res := Result{OCR: reg.ocr, Meta: meta}
	meta.Set(metadata.OCRState, reg.ocr.String())
	name := meta.Get(metadata.ResourceName)

	if forceOCR && reg.ocr == OCRDisabled {
		e.log.Warn("OCR forced but disabled in settings, extracting without recognition",
			"resource", name)
	}

	data, err := spool(r, reg.rawLimit)
	if err != nil {
		res.Status = StatusFailed
		return res, fmt.Errorf("unexpected content processing failure: %w", err)
	}
	if len(data) == 0 {
		e.log.Debug("empty input, skipping", "resource", name)
		res.Status = StatusEmpty
		return res, nil
	}

	t := media.Detect(name, data)
	meta.Set(metadata.ContentType, t.String())

	pipeline := reg.regular
	if forceOCR {
		e.log.Debug("forcing OCR", "resource", name)
		pipeline = reg.fullOCR
	}

	sink := parser.NewLimitWriter(maxChars)
	doc := parser.NewDocument(data, t, meta, reg.ctx)
	perr := pipeline.Parse(doc, sink)
	res.Text = sink.String()

	switch {
	case errors.Is(perr, parser.ErrWriteLimit):
		e.log.Debug("reached the character limit",
			"limit", maxChars, "resource", name)
		res.Status = StatusTruncated
		return res, nil
	case perr != nil:
		res.Status = StatusFailed
		return res, fmt.Errorf("unexpected content processing failure: %w", perr)
	}
	res.Status = StatusCompleted
	return res, nil
}

// spool buffers the stream fully; the structural parsers need random
// access. limit > 0 bounds the buffer.
func spool(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if limit > 0 {
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > limit {
			return nil, fmt.Errorf("%w (%d bytes)", errTooLarge, limit)
		}
		return data, nil
	}
	return io.ReadAll(r)
}

// closeInput releases the caller's stream; Extract owns it on every path.
func closeInput(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}
