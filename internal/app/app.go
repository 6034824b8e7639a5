// Package app wires configuration into the reader, processor and store used
// by the binaries.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/document"
	"github.com/joseph-ayodele/finpro/internal/metrics"
	"github.com/joseph-ayodele/finpro/internal/ocr"
	"github.com/joseph-ayodele/finpro/internal/pipeline"
	"github.com/joseph-ayodele/finpro/internal/repository"
	"github.com/joseph-ayodele/finpro/internal/summarize"
)

// NewLogger builds the process logger: text by default, JSON when asked,
// Debug level when verbose.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewReader builds the document reader for the configured text backend, with
// the OCR layer attached when enabled.
func NewReader(cfg common.OCRConfig, logger *slog.Logger) *document.Reader {
	ex := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.Pdftotext,
		Pdfimages:     cfg.Pdfimages,
		Tesseract:     cfg.Tesseract,
		TesseractLang: cfg.TesseractLang,
		TessdataDir:   cfg.TessdataDir,
		MaxPages:      cfg.MaxPages,
		MinImageSide:  cfg.MinImageSide,
	}, logger)

	var text document.TextLayer = ex
	if cfg.TextBackend == common.TextBackendNative {
		text = ocr.NewNativeText(cfg.MaxPages, logger)
	}
	var images document.ImageLayer
	if cfg.Enabled {
		images = ex
	}
	logger.Debug("document reader configured",
		"text_backend", cfg.TextBackend,
		"ocr_enabled", cfg.Enabled,
		"lang", ex.Language(),
	)
	return document.NewReader(text, images, logger)
}

// Env is everything a command needs to analyze documents.
type Env struct {
	Processor *pipeline.Processor
	Store     repository.AnalysisRepository // nil without a DSN
	db        *repository.DB
}

// Close releases the store connection, if any.
func (e *Env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

// NewEnv validates cfg and builds the processor, opening the history store
// when cfg.Store.DSN is set.
func NewEnv(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sum, err := summarize.New()
	if err != nil {
		return nil, err
	}

	env := &Env{}
	opts := []pipeline.Option{pipeline.WithMaxSentences(cfg.Summary.MaxSentences)}
	if cfg.Store.DSN != "" {
		db, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.Store.DSN,
			MaxConns:    4,
			DialTimeout: cfg.Store.DialTimeout,
		}, logger)
		if err != nil {
			return nil, common.NewAppError(common.CodeStore, "open history store", err)
		}
		env.db = db
		env.Store = repository.NewAnalysisRepository(db, logger)
		opts = append(opts, pipeline.WithStore(env.Store))
	}

	env.Processor = pipeline.NewProcessor(logger, NewReader(cfg.OCR, logger), metrics.NewExtractor(), sum, opts...)
	return env, nil
}
