// Package media provides media type detection for document streams.
//
// Detection combines content magic bytes with the filename extension.
// Content wins when both are available: ZIP containers are opened and
// inspected to distinguish the office and e-book formats that share the
// same outer archive signature.
package media

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Type is a MIME media type.
type Type string

// Media types this library routes on.
const (
	Unknown Type = "application/octet-stream"

	PDF Type = "application/pdf"

	PNG  Type = "image/png"
	JPEG Type = "image/jpeg"
	GIF  Type = "image/gif"
	BMP  Type = "image/bmp"
	TIFF Type = "image/tiff"
	WebP Type = "image/webp"

	HTML     Type = "text/html"
	Plain    Type = "text/plain"
	Markdown Type = "text/markdown"
	CSV      Type = "text/csv"

	Docx Type = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	Xlsx Type = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Pptx Type = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	Odt  Type = "application/vnd.oasis.opendocument.text"
	Ods  Type = "application/vnd.oasis.opendocument.spreadsheet"
	Odp  Type = "application/vnd.oasis.opendocument.presentation"

	EPUB Type = "application/epub+zip"
)

// String returns the MIME string.
func (t Type) String() string {
	return string(t)
}

// IsRaster reports whether the type is a raster image format.
func (t Type) IsRaster() bool {
	switch t {
	case PNG, JPEG, GIF, BMP, TIFF, WebP:
		return true
	}
	return false
}

// byExtension maps lowercase filename extensions to types.
var byExtension = map[string]Type{
	".pdf":  PDF,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
	".html": HTML,
	".htm":  HTML,
	".txt":  Plain,
	".text": Plain,
	".log":  Plain,
	".md":   Markdown,
	".csv":  CSV,
	".docx": Docx,
	".xlsx": Xlsx,
	".pptx": Pptx,
	".odt":  Odt,
	".ods":  Ods,
	".odp":  Odp,
	".epub": EPUB,
}

// FromExtension determines the type from a filename extension alone.
// Returns Unknown when the extension is not recognized.
func FromExtension(name string) Type {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := byExtension[ext]; ok {
		return t
	}
	return Unknown
}

// Detect determines the media type of data, using name as a hint when the
// content is ambiguous. Either argument may be empty.
func Detect(name string, data []byte) Type {
	if t := DetectBytes(data); t != Unknown {
		// A recognized ZIP container or concrete signature is authoritative.
		// Plain text defers to a more specific extension (markdown, csv).
		if t != Plain {
			return t
		}
		switch hint := FromExtension(name); hint {
		case Markdown, CSV, HTML:
			return hint
		}
		return Plain
	}
	if t := FromExtension(name); t != Unknown {
		return t
	}
	return Unknown
}

// DetectBytes determines the media type from content alone.
func DetectBytes(data []byte) Type {
	if len(data) < 4 {
		if looksLikeText(data) {
			return Plain
		}
		return Unknown
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return detectZIP(data)
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return GIF
	case bytes.HasPrefix(data, []byte("BM")):
		return BMP
	case bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}), bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}):
		return TIFF
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WebP
	}

	if looksLikeHTML(data) {
		return HTML
	}
	if looksLikeText(data) {
		return Plain
	}
	return Unknown
}

// detectZIP inspects a ZIP archive to discriminate the container formats.
// OpenDocument and EPUB archives carry a mimetype entry; Office Open XML
// archives are recognized by their part prefixes.
func detectZIP(data []byte) Type {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		buf := make([]byte, 256)
		n, _ := rc.Read(buf)
		rc.Close()
		switch mt := strings.TrimSpace(string(buf[:n])); mt {
		case string(Odt):
			return Odt
		case string(Ods):
			return Ods
		case string(Odp):
			return Odp
		case string(EPUB):
			return EPUB
		}
		break
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return Docx
		case strings.HasPrefix(f.Name, "xl/"):
			return Xlsx
		case strings.HasPrefix(f.Name, "ppt/"):
			return Pptx
		case f.Name == "META-INF/container.xml":
			return EPUB
		}
	}

	return Unknown
}

// looksLikeHTML checks for an HTML document signature near the start.
func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	upper := strings.ToUpper(string(bytes.TrimLeft(head, " \t\r\n")))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// looksLikeText reports whether data is plausible text: valid UTF-8 (or a
// BOM-prefixed variant) with no NUL bytes in the sampled head.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(head, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(head, []byte{0xFE, 0xFF}) {
		return true
	}
	if bytes.IndexByte(head, 0x00) >= 0 {
		return false
	}
	// Tolerate a rune truncated at the sample boundary.
	if len(data) > len(head) {
		for i := 0; i < utf8.UTFMax-1 && len(head) > 0 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	return utf8.Valid(head)
}
