package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner lets tests stub the external version check.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	// Tesseract 3.x and 4.x print --version to stderr, 5.x to stdout.
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// probeTimeout bounds the external version check.
const probeTimeout = 10 * time.Second

// Availability reports the outcome of an OCR capability probe.
type Availability struct {
	OK      bool
	Version string // Tesseract release, e.g. "5.3.4"; empty when unknown
	Reason  string // explanation when OK is false
}

// Probe checks whether OCR can actually run with the given configuration:
// recognition support must be compiled in, the tesseract binary must be
// present and answer a version check, and the data path (when set) must
// exist. An unusable setup is reported through Availability, never as an
// error, so callers can downgrade silently.
func Probe(cfg Config) Availability {
	return ProbeWith(cfg, execRunner{})
}

// ProbeWith is Probe with a caller-supplied command runner.
func ProbeWith(cfg Config, run Runner) Availability {
	if !clientEnabled() {
		return Availability{Reason: "OCR support not compiled in (build with -tags ocr)"}
	}

	bin, err := resolveBinary(cfg.Path)
	if err != nil {
		return Availability{Reason: err.Error()}
	}

	if cfg.DataPath != "" {
		info, err := os.Stat(cfg.DataPath)
		if err != nil || !info.IsDir() {
			return Availability{Reason: fmt.Sprintf("tessdata path %q is not a directory", cfg.DataPath)}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := run.Run(ctx, bin, "--version")
	if err != nil {
		return Availability{Reason: fmt.Sprintf("%s --version failed: %v", bin, err)}
	}
	return Availability{OK: true, Version: parseVersion(out)}
}

// resolveBinary turns the configured path into a runnable tesseract binary.
// An empty path falls back to a PATH lookup, and a directory is taken as
// the directory holding the binary.
func resolveBinary(path string) (string, error) {
	if path == "" {
		bin, err := exec.LookPath("tesseract")
		if err != nil {
			return "", fmt.Errorf("tesseract not found on PATH: %w", err)
		}
		return bin, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "tesseract")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tesseract binary %q: %w", path, err)
	}
	return path, nil
}

// parseVersion pulls the release number out of "tesseract 5.3.4\n...".
func parseVersion(out []byte) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) >= 2 && strings.EqualFold(fields[0], "tesseract") {
		return strings.TrimPrefix(fields[1], "v")
	}
	return line
}
