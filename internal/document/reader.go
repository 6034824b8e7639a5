package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/common"
)

// LowConfidence marks OCR output that is probably noise; it is still kept.
const LowConfidence = 0.4

// Reader reads PDFs and plain-text files into a Document.
type Reader struct {
	text   TextLayer
	images ImageLayer // nil disables the OCR layer
	logger *slog.Logger
}

func NewReader(text TextLayer, images ImageLayer, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{text: text, images: images, logger: logger}
}

// Read produces the raw text of the file at path. The error is one of
// ErrUnreadable, ErrUnsupportedFormat or ErrNoText (possibly wrapping the
// layer errors); partial failures are returned as Document.Warnings.
func (r *Reader) Read(ctx context.Context, path string) (Document, error) {
	start := time.Now()
	st, err := os.Stat(path)
	if err != nil {
		return Document{Path: path}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if st.IsDir() {
		return Document{Path: path}, fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}

	log := common.LoggerFromContext(ctx, r.logger)
	ext := constants.NormalizeExt(filepath.Ext(path))
	log.Debug("reading document", "path", path, "ext", ext)

	var doc Document
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		doc, err = r.readPDF(ctx, log, path)
	case constants.TXT:
		doc, err = r.readText(path)
	default:
		log.Error("unsupported document extension", "extension", ext)
		return Document{Path: path}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	doc.Duration = time.Since(start)
	return doc, err
}

func (r *Reader) readText(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{Path: path, Format: constants.TXT}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Document{Path: path, Format: constants.TXT, Text: string(b), Pages: 1}, nil
}

func (r *Reader) readPDF(ctx context.Context, log *slog.Logger, path string) (Document, error) {
	doc := Document{Path: path, Format: constants.PDF}
	var b strings.Builder

	// 1) text layer
	pages, textErr := r.text.PDFPages(ctx, path)
	if textErr != nil {
		log.Warn("text layer failed", "path", path, "error", textErr)
		doc.Warnings = append(doc.Warnings, LayerError{Layer: LayerText, Image: -1, Err: textErr})
	} else {
		doc.Pages = len(pages)
		for _, p := range pages {
			if p == "" {
				continue
			}
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	textLen := b.Len()

	// 2) OCR layer, separate pass over the same file
	var ocrErr error
	if r.images != nil {
		layer, err := r.images.PDFImagesOCR(ctx, path)
		ocrErr = err
		if err != nil {
			log.Warn("ocr layer failed", "path", path, "error", err)
			doc.Warnings = append(doc.Warnings, LayerError{Layer: LayerOCR, Image: -1, Err: err})
		}
		for _, f := range layer.Failures {
			log.Warn("image ocr failed", "path", path, "page", f.Page, "image", f.Index, "error", f.Err)
			doc.Warnings = append(doc.Warnings, LayerError{Layer: LayerOCR, Page: f.Page, Image: f.Index, Err: f.Err})
		}
		for _, img := range layer.Images {
			if img.Page > doc.Pages {
				doc.Pages = img.Page
			}
			if img.Text == "" {
				continue
			}
			if img.Confidence < LowConfidence {
				log.Debug("low confidence ocr text", "path", path, "page", img.Page, "image", img.Index, "conf", img.Confidence)
			}
			b.WriteString("\n")
			b.WriteString(img.Text)
			doc.Images++
		}
		if layer.Skipped > 0 {
			log.Debug("small images skipped", "path", path, "count", layer.Skipped)
		}
	}

	doc.Text = b.String()
	if textErr != nil && b.Len() == textLen {
		errs := []error{textErr}
		if ocrErr != nil {
			errs = append(errs, ocrErr)
		}
		return doc, fmt.Errorf("%w: %w", ErrNoText, errors.Join(errs...))
	}

	log.Debug("document read",
		"path", path,
		"pages", doc.Pages,
		"images", doc.Images,
		"text_bytes", len(doc.Text),
		"warnings", len(doc.Warnings),
	)
	return doc, nil
}
