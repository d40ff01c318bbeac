package parser

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrWriteLimit is returned by a LimitWriter once its character capacity is
// exhausted. Reaching the limit is a normal partial-success condition, not a
// parse failure; the engine translates it into a truncated result.
var ErrWriteLimit = errors.New("write limit reached")

// LimitWriter accumulates UTF-8 text up to a maximum number of characters
// (runes). Once the limit is reached every further Write returns
// ErrWriteLimit. A rune is never split: writes that would exceed the limit
// keep the longest whole-rune prefix that fits.
//
// A maximum of zero or less means unbounded.
type LimitWriter struct {
	max   int
	count int
	hit   bool
	buf   strings.Builder

	// carry holds the bytes of a rune split across Write calls.
	carry []byte
}

// NewLimitWriter returns a sink capped at maxChars characters.
func NewLimitWriter(maxChars int) *LimitWriter {
	return &LimitWriter{max: maxChars}
}

// Write implements io.Writer. It reports ErrWriteLimit with a short count
// once the capacity is exhausted.
func (lw *LimitWriter) Write(p []byte) (int, error) {
	if lw.hit {
		return 0, ErrWriteLimit
	}

	data := p
	prev := len(lw.carry)
	if prev > 0 {
		data = append(lw.carry, p...)
	}
	lw.carry = nil

	i := 0
	for i < len(data) {
		if lw.max > 0 && lw.count >= lw.max {
			lw.hit = true
			break
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 && !utf8.FullRune(data[i:]) {
			// Incomplete trailing sequence; hold it for the next write.
			lw.carry = append(lw.carry, data[i:]...)
			i = len(data)
			break
		}
		lw.buf.Write(data[i : i+size])
		lw.count++
		i += size
	}

	n := i - prev
	if n < 0 {
		n = 0
	} else if n > len(p) {
		n = len(p)
	}
	if lw.hit {
		return n, ErrWriteLimit
	}
	return n, nil
}

// String returns the accumulated text. Bytes of a rune left incomplete by
// the final write are not included.
func (lw *LimitWriter) String() string {
	return lw.buf.String()
}

// Count returns the number of characters accumulated.
func (lw *LimitWriter) Count() int {
	return lw.count
}

// LimitReached reports whether the capacity was exhausted.
func (lw *LimitWriter) LimitReached() bool {
	return lw.hit
}
