// Package document turns a report file into raw text.
//
// A PDF is read in two passes: the text layer first (page order), then OCR
// over the embedded raster images (page order, then image order). The two
// outputs are concatenated without deduplication, so a figure printed both as
// text and inside a chart appears twice and the text-layer copy comes first.
// Layer failures are reported as LayerError warnings on the Document; they
// never end up in Text.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joseph-ayodele/finpro/internal/ocr"
)

// Layer identifies which extraction pass produced a warning.
type Layer string

const (
	LayerText Layer = "text"
	LayerOCR  Layer = "ocr"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrUnreadable        = errors.New("document not readable")
	ErrNoText            = errors.New("no text could be extracted")
)

// LayerError is a non-fatal failure of one extraction layer, page or image.
type LayerError struct {
	Layer Layer
	Page  int // 0 when not tied to a page
	Image int // -1 when not tied to an image
	Err   error
}

func (e LayerError) Error() string {
	switch {
	case e.Image >= 0:
		return fmt.Sprintf("%s layer: page %d image %d: %v", e.Layer, e.Page, e.Image, e.Err)
	case e.Page > 0:
		return fmt.Sprintf("%s layer: page %d: %v", e.Layer, e.Page, e.Err)
	default:
		return fmt.Sprintf("%s layer: %v", e.Layer, e.Err)
	}
}

func (e LayerError) Unwrap() error { return e.Err }

// Document is the result of reading one file.
type Document struct {
	Path     string
	Format   string // constants.PDF | constants.TXT
	Text     string
	Pages    int
	Images   int // embedded images whose OCR text was appended
	Warnings []LayerError
	Duration time.Duration
}

// HasWarnings reports whether any layer failed partially.
func (d Document) HasWarnings() bool { return len(d.Warnings) > 0 }

// WarningStrings renders the warnings for logs and reports.
func (d Document) WarningStrings() []string {
	out := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		out = append(out, w.Error())
	}
	return out
}

// TextLayer extracts page text from a PDF, one string per page.
type TextLayer interface {
	PDFPages(ctx context.Context, path string) ([]string, error)
}

// ImageLayer OCRs the raster images embedded in a PDF.
type ImageLayer interface {
	PDFImagesOCR(ctx context.Context, path string) (ocr.ImageLayer, error)
}

var (
	_ TextLayer  = (*ocr.Extractor)(nil)
	_ TextLayer  = (*ocr.NativeText)(nil)
	_ ImageLayer = (*ocr.Extractor)(nil)
)
