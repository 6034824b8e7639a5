package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/finpro/internal/app"
	"github.com/joseph-ayodele/finpro/internal/common"
)

// runocr prints what the document reader extracts from one file: the raw text
// on stdout, layer warnings and timing in the log.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file.pdf|file.txt>")
		os.Exit(2)
	}
	path := os.Args[1]

	if err := common.LoadDotEnv(); err != nil {
		logger.Error("load .env", "error", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	doc, err := app.NewReader(cfg.OCR, logger).Read(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", doc.Duration.Milliseconds())
		os.Exit(1)
	}
	for _, w := range doc.Warnings {
		logger.Warn("layer warning", "layer", w.Layer, "page", w.Page, "image", w.Image, "error", w.Err)
	}
	fmt.Println(doc.Text)

	logger.Info("text extraction OK",
		"format", doc.Format,
		"pages", doc.Pages,
		"images", doc.Images,
		"bytes", len(doc.Text),
		"warnings", len(doc.Warnings),
		"duration_ms", doc.Duration.Milliseconds(),
	)
}
