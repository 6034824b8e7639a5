package ocr

import (
	"context"
	"fmt"
	"strings"
)

// PDFPages runs the poppler text layer and returns one normalized string per page.
// Empty pages are kept as "" so indexes line up with page numbers - 1.
func (e *Extractor) PDFPages(ctx context.Context, path string) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", e.cfg.MaxPages))
	}
	args = append(args, path, "-")
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, e.logger, args...)
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds, which it emits after every page.
func splitPages(text string) []string {
	raw := strings.Split(text, "\f")
	// trailing form feed leaves one empty element behind
	if n := len(raw); n > 0 && strings.TrimSpace(raw[n-1]) == "" {
		raw = raw[:n-1]
	}
	pages := make([]string, len(raw))
	for i, p := range raw {
		pages[i] = Normalize(p)
	}
	return pages
}
