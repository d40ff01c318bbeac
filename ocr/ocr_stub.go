//go:build !ocr

package ocr

func clientEnabled() bool { return false }

// Recognize always fails with ErrOCRNotEnabled in this build.
// Rebuild with -tags ocr to enable recognition.
func Recognize(img []byte, cfg Config) (string, error) {
	return "", ErrOCRNotEnabled
}
