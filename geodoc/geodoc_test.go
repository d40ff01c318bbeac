package geodoc

import (
	"bytes"
	"encoding/binary"
	"image"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// geoTIFFBytes assembles a minimal little-endian GeoTIFF: one 8-bit
// grayscale strip plus the GeoTIFF directory tags for WGS 84.
func geoTIFFBytes(t *testing.T) []byte {
	t.Helper()

	keyDir := []uint16{
		1, 1, 0, 4, // directory header, 4 keys
		1024, 0, 1, 2, // model type: geographic
		1025, 0, 1, 1, // raster type: pixel is area
		1026, 34737, 7, 0, // citation, in ASCII params
		2048, 0, 1, 4326, // geographic CRS
	}
	ascii := "WGS 84|\x00"
	pixelScale := []float64{0.1, 0.1, 0}
	tiepoint := []float64{0, 0, 0, -180, 90, 0}

	// Value block offsets, after the 8-byte header, the entry count,
	// 13 directory entries, and the next-directory pointer.
	const (
		keyDirOff     = 170
		asciiOff      = 210
		pixelScaleOff = 218
		tiepointOff   = 242
		stripOff      = 290
	)

	var buf bytes.Buffer
	le := binary.LittleEndian
	w16 := func(v uint16) { binary.Write(&buf, le, v) }
	w32 := func(v uint32) { binary.Write(&buf, le, v) }
	entry := func(tag, typ uint16, count, value uint32) {
		w16(tag)
		w16(typ)
		w32(count)
		w32(value)
	}

	buf.WriteString("II")
	w16(42)
	w32(8) // first directory

	w16(13) // entry count
	entry(256, 3, 1, 20)  // width
	entry(257, 3, 1, 10)  // height
	entry(258, 3, 1, 8)   // bits per sample
	entry(259, 3, 1, 1)   // no compression
	entry(262, 3, 1, 1)   // grayscale, black is zero
	entry(273, 4, 1, stripOff)
	entry(277, 3, 1, 1) // samples per pixel
	entry(278, 3, 1, 10)
	entry(279, 4, 1, 200)
	entry(33550, 12, 3, pixelScaleOff)
	entry(33922, 12, 6, tiepointOff)
	entry(34735, 3, uint32(len(keyDir)), keyDirOff)
	entry(34737, 2, uint32(len(ascii)), asciiOff)
	w32(0) // no further directories

	for _, v := range keyDir {
		w16(v)
	}
	buf.WriteString(ascii)
	for _, v := range pixelScale {
		binary.Write(&buf, le, v)
	}
	for _, v := range tiepoint {
		binary.Write(&buf, le, v)
	}
	buf.Write(make([]byte, 200)) // strip data

	return buf.Bytes()
}

func parseRaster(t *testing.T, data []byte) (string, *metadata.Metadata) {
	t.Helper()
	var sb strings.Builder
	meta := metadata.New()
	p := &Parser{}
	if err := p.Parse(parser.NewDocument(data, media.TIFF, meta, nil), &sb); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return sb.String(), meta
}

func TestTypes(t *testing.T) {
	p := &Parser{}
	if got := len(p.Types()); got != 5 {
		t.Errorf("expected 5 claimed types, got %d", got)
	}
}

func TestParseGeoTIFF(t *testing.T) {
	text, meta := parseRaster(t, geoTIFFBytes(t))

	if text != "" {
		t.Errorf("expected no text, got %q", text)
	}
	if v := meta.Get(metadata.ImageWidth); v != "20" {
		t.Errorf("width = %q", v)
	}
	if v := meta.Get(metadata.ImageHeight); v != "10" {
		t.Errorf("height = %q", v)
	}
	if v := meta.Get(KeyModelType); v != "geographic" {
		t.Errorf("model type = %q", v)
	}
	if v := meta.Get(KeyCRS); v != "EPSG:4326" {
		t.Errorf("crs = %q", v)
	}
	if v := meta.Get(KeyCitation); v != "WGS 84" {
		t.Errorf("citation = %q", v)
	}
	if v := meta.Get(KeyPixelScale); v != "0.1 0.1 0" {
		t.Errorf("pixel scale = %q", v)
	}
	if v := meta.Get(KeyTiepoint); v != "0 0 0 -180 90 0" {
		t.Errorf("tiepoint = %q", v)
	}
}

func TestParsePlainTIFF(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	_, meta := parseRaster(t, buf.Bytes())
	if v := meta.Get(metadata.ImageWidth); v != "4" {
		t.Errorf("width = %q", v)
	}
	if v := meta.Get(KeyCRS); v != "" {
		t.Errorf("crs = %q, want empty for a plain raster", v)
	}
	if v := meta.Get(KeyPixelScale); v != "" {
		t.Errorf("pixel scale = %q, want empty", v)
	}
}

func TestParseNonTIFF(t *testing.T) {
	text, meta := parseRaster(t, []byte("not a raster at all"))
	if text != "" {
		t.Errorf("expected no text, got %q", text)
	}
	if meta.Len() != 0 {
		t.Errorf("expected no attributes, got %s", meta)
	}
}
