package parser

import (
	"strings"
	"testing"

	"github.com/suricats/vinci-bluescan-fscrawler/media"
)

func TestWithoutTypesFiltersClaims(t *testing.T) {
	geo := &fakeParser{
		types: []media.Type{media.TIFF, media.PNG, media.JPEG, media.BMP, media.GIF},
		out:   "geo",
	}
	filtered := WithoutTypes(geo, media.PNG, media.JPEG, media.BMP, media.GIF)

	types := filtered.Types()
	if len(types) != 1 || types[0] != media.TIFF {
		t.Fatalf("expected only TIFF kept, got %v", types)
	}
}

func TestWithoutTypesDelegatesParse(t *testing.T) {
	inner := &fakeParser{types: []media.Type{media.TIFF, media.PNG}, out: "geo"}
	filtered := WithoutTypes(inner, media.PNG)

	var sb strings.Builder
	if err := filtered.Parse(NewDocument(nil, media.TIFF, nil, nil), &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "geo" {
		t.Errorf("expected delegation to inner parser, got %q", sb.String())
	}
}

func TestWithoutTypesInDispatcher(t *testing.T) {
	raster := &fakeParser{types: []media.Type{media.PNG, media.TIFF}, out: "raster"}
	geo := &fakeParser{types: []media.Type{media.TIFF, media.PNG}, out: "geo"}

	// The decorated geo parser registers last but must not claim PNG.
	a := NewAutoDetect(raster, WithoutTypes(geo, media.PNG))

	var sb strings.Builder
	if err := a.Parse(NewDocument(nil, media.PNG, nil, nil), &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "raster" {
		t.Errorf("PNG should stay with the raster parser, got %q", sb.String())
	}

	sb.Reset()
	if err := a.Parse(NewDocument(nil, media.TIFF, nil, nil), &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "geo" {
		t.Errorf("TIFF should go to the decorated parser, got %q", sb.String())
	}
}

func TestWithoutTypesNamesInner(t *testing.T) {
	inner := &fakeParser{types: []media.Type{media.TIFF}}
	filtered := WithoutTypes(inner)

	if got := parserName(filtered); got != "*parser.fakeParser" {
		t.Errorf("decorator should report the wrapped parser, got %q", got)
	}
}
