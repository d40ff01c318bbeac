package media

import (
	"archive/zip"
	"bytes"
	"testing"
)

// zipBytes builds an in-memory ZIP archive from name/content pairs.
func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %q: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Type
	}{
		{"document.pdf", PDF},
		{"document.PDF", PDF},
		{"photo.jpg", JPEG},
		{"photo.jpeg", JPEG},
		{"scan.tif", TIFF},
		{"scan.tiff", TIFF},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"notes.txt", Plain},
		{"notes.md", Markdown},
		{"table.csv", CSV},
		{"letter.docx", Docx},
		{"sheet.xlsx", Xlsx},
		{"deck.pptx", Pptx},
		{"letter.odt", Odt},
		{"book.epub", EPUB},
		{"/path/to/file.png", PNG},
		{"document", Unknown},
		{"", Unknown},
		{"archive.zip", Unknown},
	}

	for _, tt := range tests {
		if got := FromExtension(tt.filename); got != tt.want {
			t.Errorf("FromExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Type
	}{
		{"pdf", []byte("%PDF-1.4\n%%EOF"), PDF},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, JPEG},
		{"gif", []byte("GIF89a trailing"), GIF},
		{"bmp", []byte{'B', 'M', 0x36, 0x00, 0x00, 0x00}, BMP},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00, 0x08, 0x00}, TIFF},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A, 0x00, 0x08}, TIFF},
		{"webp", append([]byte("RIFF"), append([]byte{0x10, 0x00, 0x00, 0x00}, []byte("WEBPVP8 ")...)...), WebP},
		{"html doctype", []byte("<!DOCTYPE html>\n<html>"), HTML},
		{"html tag", []byte("<html><head>"), HTML},
		{"html with leading whitespace", []byte("  \n  <!DOCTYPE HTML PUBLIC"), HTML},
		{"plain text", []byte("Hello, World! This is plain text."), Plain},
		{"utf-8 text", []byte("héllo wörld, ça va"), Plain},
		{"utf-16 bom", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}, Plain},
		{"binary", []byte{0x01, 0x02, 0x00, 0x04, 0x05, 0x06}, Unknown},
		{"empty", []byte{}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(tt.data); got != tt.want {
				t.Errorf("DetectBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectBytesZIPContainers(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		want    Type
	}{
		{
			name:    "docx",
			entries: map[string]string{"[Content_Types].xml": "<Types/>", "word/document.xml": "<w:document/>"},
			want:    Docx,
		},
		{
			name:    "xlsx",
			entries: map[string]string{"[Content_Types].xml": "<Types/>", "xl/workbook.xml": "<workbook/>"},
			want:    Xlsx,
		},
		{
			name:    "pptx",
			entries: map[string]string{"[Content_Types].xml": "<Types/>", "ppt/presentation.xml": "<p:presentation/>"},
			want:    Pptx,
		},
		{
			name:    "odt",
			entries: map[string]string{"mimetype": string(Odt), "content.xml": "<office:document-content/>"},
			want:    Odt,
		},
		{
			name:    "ods",
			entries: map[string]string{"mimetype": string(Ods), "content.xml": "<office:document-content/>"},
			want:    Ods,
		},
		{
			name:    "epub by mimetype",
			entries: map[string]string{"mimetype": string(EPUB), "META-INF/container.xml": "<container/>"},
			want:    EPUB,
		},
		{
			name:    "epub by container",
			entries: map[string]string{"META-INF/container.xml": "<container/>"},
			want:    EPUB,
		},
		{
			name:    "plain zip",
			entries: map[string]string{"readme.txt": "hello"},
			want:    Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(zipBytes(t, tt.entries)); got != tt.want {
				t.Errorf("DetectBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Type
	}{
		{"content wins over extension", "renamed.txt", []byte("%PDF-1.4"), PDF},
		{"markdown via extension hint", "notes.md", []byte("# Title\n\nbody"), Markdown},
		{"csv via extension hint", "table.csv", []byte("a,b,c\n1,2,3"), CSV},
		{"plain text stays plain", "notes.txt", []byte("just some words"), Plain},
		{"extension fallback for binary", "photo.png", []byte{0x00, 0x01, 0x02, 0x03, 0x04}, PNG},
		{"nothing recognized", "mystery.bin", []byte{0x00, 0x01, 0x02, 0x03}, Unknown},
		{"no filename", "", []byte("<html><body>x</body></html>"), HTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.filename, tt.data); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestIsRaster(t *testing.T) {
	for _, rt := range []Type{PNG, JPEG, GIF, BMP, TIFF, WebP} {
		if !rt.IsRaster() {
			t.Errorf("%v should be raster", rt)
		}
	}
	for _, nt := range []Type{PDF, HTML, Plain, Docx, EPUB, Unknown} {
		if nt.IsRaster() {
			t.Errorf("%v should not be raster", nt)
		}
	}
}
