//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestRecognizeDisabled(t *testing.T) {
	text, err := Recognize([]byte("irrelevant"), Config{})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if text != "" {
		t.Errorf("expected no text, got %q", text)
	}
}

func TestClientDisabled(t *testing.T) {
	if clientEnabled() {
		t.Error("client should report disabled without the ocr build tag")
	}
}
