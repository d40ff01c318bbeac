// Package geodoc extracts georeferencing metadata from GeoTIFF rasters.
//
// A GeoTIFF is an ordinary TIFF whose image file directory carries the
// GeoTIFF tags: a key directory describing the coordinate reference system
// plus model pixel-scale, tiepoint, and transformation arrays. The parser
// walks the first IFD directly, records what it finds as metadata, and
// produces no text. It claims the raster types a geospatial toolchain
// typically registers; pipelines exclude the photographic formats so
// ordinary images stay with the image parser.
package geodoc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
	"github.com/suricats/vinci-bluescan-fscrawler/metadata"
	"github.com/suricats/vinci-bluescan-fscrawler/parser"
)

// Metadata keys recorded for georeferenced rasters.
const (
	KeyModelType  = "geo:model-type"
	KeyCRS        = "geo:crs"
	KeyCitation   = "geo:citation"
	KeyPixelScale = "geo:pixel-scale"
	KeyTiepoint   = "geo:tiepoint"
	KeyTransform  = "geo:transform"
)

// TIFF tags defined by GeoTIFF 1.1.
const (
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735
	tagGeoDoubleParams     = 34736
	tagGeoASCIIParams      = 34737
)

// GeoKey identifiers handled from the key directory.
const (
	keyModelType       = 1024
	keyCitation        = 1026
	keyGeographicType  = 2048
	keyProjectedCSType = 3072
)

// TIFF field types.
const (
	typeASCII  = 2
	typeShort  = 3
	typeDouble = 12
)

// maxTagCount bounds array allocations for malformed directories.
const maxTagCount = 1 << 16

// Parser extracts geospatial rasters.
type Parser struct{}

// Types returns the claimed media types.
func (p *Parser) Types() []media.Type {
	return []media.Type{media.TIFF, media.PNG, media.JPEG, media.BMP, media.GIF}
}

// Parse records image dimensions and georeferencing attributes. Content
// without TIFF structure or without GeoTIFF tags records nothing; that is
// not a failure.
func (p *Parser) Parse(doc *parser.Document, w io.Writer) error {
	if cfg, err := tiff.DecodeConfig(bytes.NewReader(doc.Data)); err == nil {
		doc.Meta.Set(metadata.ImageWidth, strconv.Itoa(cfg.Width))
		doc.Meta.Set(metadata.ImageHeight, strconv.Itoa(cfg.Height))
	}

	g, err := readGeoTags(doc.Data)
	if err != nil {
		doc.Ctx.Log.Debug("no georeferencing found",
			"resource", doc.Name(), "reason", err)
		return nil
	}
	applyGeoTags(doc.Meta, g)
	return nil
}

// geoTags holds the raw GeoTIFF tag values from one directory.
type geoTags struct {
	keyDir     []uint16
	doubles    []float64
	ascii      string
	pixelScale []float64
	tiepoint   []float64
	transform  []float64
}

// readGeoTags walks the first IFD and collects the GeoTIFF tags.
func readGeoTags(data []byte) (*geoTags, error) {
	if len(data) < 8 {
		return nil, errors.New("short header")
	}

	var bo binary.ByteOrder
	switch {
	case data[0] == 'I' && data[1] == 'I':
		bo = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		bo = binary.BigEndian
	default:
		return nil, errors.New("no TIFF signature")
	}
	if bo.Uint16(data[2:4]) != 42 {
		return nil, errors.New("no TIFF signature")
	}

	off := int64(bo.Uint32(data[4:8]))
	if off+2 > int64(len(data)) {
		return nil, errors.New("directory offset out of range")
	}
	n := int(bo.Uint16(data[off : off+2]))
	entries := data[off+2:]
	if len(entries) < n*12 {
		return nil, errors.New("truncated directory")
	}

	g := &geoTags{}
	for i := 0; i < n; i++ {
		e := entries[i*12 : i*12+12]
		tag := bo.Uint16(e[0:2])
		typ := bo.Uint16(e[2:4])
		count := bo.Uint32(e[4:8])
		value := e[8:12]

		switch tag {
		case tagGeoKeyDirectory:
			g.keyDir = readShorts(data, bo, typ, count, value)
		case tagGeoDoubleParams:
			g.doubles = readDoubles(data, bo, typ, count, value)
		case tagGeoASCIIParams:
			g.ascii = readASCII(data, bo, typ, count, value)
		case tagModelPixelScale:
			g.pixelScale = readDoubles(data, bo, typ, count, value)
		case tagModelTiepoint:
			g.tiepoint = readDoubles(data, bo, typ, count, value)
		case tagModelTransformation:
			g.transform = readDoubles(data, bo, typ, count, value)
		}
	}

	if g.keyDir == nil && g.pixelScale == nil && g.tiepoint == nil && g.transform == nil {
		return nil, errors.New("no georeferencing tags")
	}
	return g, nil
}

// readShorts reads a SHORT array field. Arrays of up to two values are
// stored inline in the value slot.
func readShorts(data []byte, bo binary.ByteOrder, typ uint16, count uint32, value []byte) []uint16 {
	if typ != typeShort || count == 0 || count > maxTagCount {
		return nil
	}
	raw := value
	if count > 2 {
		off := int64(bo.Uint32(value))
		end := off + int64(count)*2
		if off < 0 || end > int64(len(data)) {
			return nil
		}
		raw = data[off:end]
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = bo.Uint16(raw[i*2:])
	}
	return out
}

// readDoubles reads a DOUBLE array field; doubles never fit inline.
func readDoubles(data []byte, bo binary.ByteOrder, typ uint16, count uint32, value []byte) []float64 {
	if typ != typeDouble || count == 0 || count > maxTagCount {
		return nil
	}
	off := int64(bo.Uint32(value))
	end := off + int64(count)*8
	if off < 0 || end > int64(len(data)) {
		return nil
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(bo.Uint64(data[off+int64(i)*8:]))
	}
	return out
}

// readASCII reads an ASCII field, inline when it fits in the value slot.
func readASCII(data []byte, bo binary.ByteOrder, typ uint16, count uint32, value []byte) string {
	if typ != typeASCII || count == 0 || count > maxTagCount {
		return ""
	}
	if count <= 4 {
		return string(value[:count])
	}
	off := int64(bo.Uint32(value))
	end := off + int64(count)
	if off < 0 || end > int64(len(data)) {
		return ""
	}
	return string(data[off:end])
}

// applyGeoTags records the collected tags as metadata attributes.
func applyGeoTags(meta *metadata.Metadata, g *geoTags) {
	if len(g.pixelScale) >= 2 {
		meta.Set(KeyPixelScale, joinFloats(g.pixelScale))
	}
	if len(g.tiepoint) >= 6 {
		meta.Set(KeyTiepoint, joinFloats(g.tiepoint[:6]))
	}
	if len(g.transform) == 16 {
		meta.Set(KeyTransform, joinFloats(g.transform))
	}

	// Key directory layout: a four-short header {version, revision, minor,
	// count} followed by count four-short entries {id, location, count,
	// value}. Location 0 means the value is stored inline; otherwise it
	// names the tag holding the data.
	if len(g.keyDir) < 4 {
		return
	}
	numKeys := int(g.keyDir[3])
	if len(g.keyDir) < 4+numKeys*4 {
		numKeys = (len(g.keyDir) - 4) / 4
	}

	var crs uint16
	for i := 0; i < numKeys; i++ {
		id := g.keyDir[4+i*4]
		loc := g.keyDir[5+i*4]
		count := g.keyDir[6+i*4]
		value := g.keyDir[7+i*4]

		switch id {
		case keyModelType:
			if loc == 0 {
				meta.Set(KeyModelType, modelTypeName(value))
			}
		case keyCitation:
			if loc == tagGeoASCIIParams {
				meta.Set(KeyCitation, asciiParam(g.ascii, value, count))
			}
		case keyGeographicType:
			if loc == 0 && crs == 0 {
				crs = value
			}
		case keyProjectedCSType:
			// A projected system's code wins over its geographic base.
			if loc == 0 {
				crs = value
			}
		}
	}

	// 32767 is the GeoTIFF marker for a user-defined system.
	if crs != 0 && crs != 32767 {
		meta.Set(KeyCRS, "EPSG:"+strconv.Itoa(int(crs)))
	}
}

// modelTypeName maps the GTModelType code to its name.
func modelTypeName(v uint16) string {
	switch v {
	case 1:
		return "projected"
	case 2:
		return "geographic"
	case 3:
		return "geocentric"
	}
	return strconv.Itoa(int(v))
}

// asciiParam slices one key's value out of the ASCII params block. GeoTIFF
// terminates each entry with '|'.
func asciiParam(ascii string, off, count uint16) string {
	start, end := int(off), int(off)+int(count)
	if start > len(ascii) {
		return ""
	}
	if end > len(ascii) {
		end = len(ascii)
	}
	return strings.Trim(ascii[start:end], "| \x00")
}

// joinFloats renders values space-separated with minimal digits.
func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
