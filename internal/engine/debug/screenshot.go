// Package debug provides developer tooling: screenshots and frame statistics.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
)

// Format is a screenshot image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ParseFormat accepts "png" or "bmp" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", fmt.Errorf("unknown screenshot format %q", s)
	}
}

// Encode writes img to w in format f.
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// ScreenshotCapture handles screenshot capture functionality.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    Format

	now func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string, format Format) *ScreenshotCapture {
	if format == "" {
		format = FormatPNG
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// Capture encodes img to a new timestamped file and returns its path.
// Captures within the same second get a numeric suffix.
func (sc *ScreenshotCapture) Capture(img image.Image) (path string, err error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, path, err := sc.create()
	if err != nil {
		return "", err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
		if err != nil {
			path = ""
		}
	}()

	if err := sc.format.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", sc.format, err)
	}
	return path, nil
}

// create opens the first free filename for the current timestamp.
func (sc *ScreenshotCapture) create() (*os.File, string, error) {
	base := fmt.Sprintf("%s_%s", sc.prefix, sc.now().Format("2006-01-02_15-04-05"))
	for i := 0; i < 100; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		path := filepath.Join(sc.outputDir, name+"."+string(sc.format))

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("creating file: %w", err)
		}
		return file, path, nil
	}
	return nil, "", fmt.Errorf("no free screenshot name for %s", base)
}
