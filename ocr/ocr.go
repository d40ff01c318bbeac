//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

func clientEnabled() bool { return true }

// Recognize runs Tesseract over the supplied image bytes (PNG, TIFF,
// JPEG, etc.) and returns the recognized text with surrounding whitespace
// trimmed. A fresh client is created per call; gosseract clients are not
// safe for concurrent use.
func Recognize(img []byte, cfg Config) (string, error) {
	cfg = cfg.withDefaults()

	client := gosseract.NewClient()
	defer client.Close()

	if cfg.DataPath != "" {
		if err := client.SetTessdataPrefix(cfg.DataPath); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(cfg.Language); err != nil {
		return "", fmt.Errorf("failed to set language %q: %w", cfg.Language, err)
	}
	if cfg.PageSegMode != 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
			return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	var (
		text string
		err  error
	)
	if cfg.OutputType == OutputTypeHOCR {
		text, err = client.HOCRText()
	} else {
		text, err = client.Text()
	}
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
