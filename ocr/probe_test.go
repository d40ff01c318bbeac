package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRunner struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

// fakeBinary drops a stand-in tesseract executable into a temp directory.
func fakeBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return bin
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"tesseract 5", "tesseract 5.3.4\n leptonica-1.84.1\n", "5.3.4"},
		{"alpha tag", "tesseract v5.0.0-alpha\n", "5.0.0-alpha"},
		{"legacy 3.x", "tesseract 3.05.02\n leptonica-1.76.0", "3.05.02"},
		{"unexpected output", "some other tool", "some other tool"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseVersion([]byte(tt.out)); got != tt.want {
				t.Errorf("parseVersion(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}

func TestResolveBinaryExplicitFile(t *testing.T) {
	bin := fakeBinary(t)

	got, err := resolveBinary(bin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != bin {
		t.Errorf("expected %q, got %q", bin, got)
	}
}

func TestResolveBinaryDirectory(t *testing.T) {
	bin := fakeBinary(t)

	got, err := resolveBinary(filepath.Dir(bin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != bin {
		t.Errorf("expected directory to resolve to %q, got %q", bin, got)
	}
}

func TestResolveBinaryMissing(t *testing.T) {
	if _, err := resolveBinary(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestResolveBinaryEmptyPATH(t *testing.T) {
	t.Setenv("PATH", "")

	if _, err := resolveBinary(""); err == nil {
		t.Fatal("expected an error when tesseract is not on PATH")
	}
}

func TestProbeWithoutSupport(t *testing.T) {
	if clientEnabled() {
		t.Skip("recognition compiled in; stub behavior not observable")
	}

	run := &fakeRunner{out: []byte("tesseract 5.3.4")}
	got := ProbeWith(Config{Path: fakeBinary(t)}, run)
	if got.OK {
		t.Fatal("expected probe to fail without the ocr build tag")
	}
	if !strings.Contains(got.Reason, "not compiled in") {
		t.Errorf("reason should mention the missing build tag, got %q", got.Reason)
	}
	if run.calls != 0 {
		t.Errorf("version check should not run, got %d calls", run.calls)
	}
}

func TestProbeWithReportsVersion(t *testing.T) {
	if !clientEnabled() {
		t.Skip("recognition not compiled in; rebuild with -tags ocr")
	}

	run := &fakeRunner{out: []byte("tesseract 5.3.4\n leptonica-1.84.1\n")}
	got := ProbeWith(Config{Path: fakeBinary(t)}, run)
	if !got.OK {
		t.Fatalf("expected probe to succeed, got reason %q", got.Reason)
	}
	if got.Version != "5.3.4" {
		t.Errorf("expected version 5.3.4, got %q", got.Version)
	}
	if run.calls != 1 {
		t.Errorf("expected exactly one version check, got %d", run.calls)
	}
}

func TestProbeWithMissingBinary(t *testing.T) {
	if !clientEnabled() {
		t.Skip("recognition not compiled in; rebuild with -tags ocr")
	}

	got := ProbeWith(Config{Path: filepath.Join(t.TempDir(), "nope")}, &fakeRunner{})
	if got.OK {
		t.Fatal("expected probe to fail for a missing binary")
	}
}

func TestProbeWithVersionCheckFails(t *testing.T) {
	if !clientEnabled() {
		t.Skip("recognition not compiled in; rebuild with -tags ocr")
	}

	run := &fakeRunner{err: errors.New("exit status 127")}
	got := ProbeWith(Config{Path: fakeBinary(t)}, run)
	if got.OK {
		t.Fatal("expected probe to fail when the version check fails")
	}
	if !strings.Contains(got.Reason, "--version") {
		t.Errorf("reason should mention the version check, got %q", got.Reason)
	}
}

func TestProbeWithBadDataPath(t *testing.T) {
	if !clientEnabled() {
		t.Skip("recognition not compiled in; rebuild with -tags ocr")
	}

	cfg := Config{
		Path:     fakeBinary(t),
		DataPath: filepath.Join(t.TempDir(), "missing"),
	}
	got := ProbeWith(cfg, &fakeRunner{out: []byte("tesseract 5.3.4")})
	if got.OK {
		t.Fatal("expected probe to fail for a missing tessdata directory")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Language != "eng" {
		t.Errorf("expected default language eng, got %q", cfg.Language)
	}
	if cfg.OutputType != OutputTypeText {
		t.Errorf("expected default output type %q, got %q", OutputTypeText, cfg.OutputType)
	}

	cfg = Config{Language: "eng+fra", OutputType: OutputTypeHOCR}.withDefaults()
	if cfg.Language != "eng+fra" || cfg.OutputType != OutputTypeHOCR {
		t.Errorf("explicit settings should be preserved, got %+v", cfg)
	}
}
