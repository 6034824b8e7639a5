package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

// NativeText extracts the text layer in-process, without poppler.
type NativeText struct {
	MaxPages int
	logger   *slog.Logger
}

func NewNativeText(maxPages int, logger *slog.Logger) *NativeText {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeText{MaxPages: maxPages, logger: logger}
}

// PDFPages returns one normalized string per page. The parser panics on some
// malformed files; that is reported as an error.
func (n *NativeText) PDFPages(ctx context.Context, path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			n.logger.Warn("failed to close pdf", "path", path, "error", cerr)
		}
	}()

	total := r.NumPage()
	if n.MaxPages > 0 && total > n.MaxPages {
		total = n.MaxPages
	}
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, Normalize(txt))
	}
	n.logger.Debug("native text layer", "path", path, "pages", len(pages))
	return pages, nil
}
