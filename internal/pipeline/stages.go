package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/document"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

func (p *Processor) readStage(ctx context.Context, log *slog.Logger, path string) (document.Document, error) {
	doc, err := p.Reader.Read(ctx, path)
	if err != nil {
		log.Error("pipeline.read.failed", "error", err)
		return doc, err
	}
	for _, w := range doc.Warnings {
		log.Warn("pipeline.read.warning", "layer", w.Layer, "page", w.Page, "image", w.Image, "error", w.Err)
	}
	log.Info("pipeline.read.ok",
		"format", doc.Format,
		"pages", doc.Pages,
		"images", doc.Images,
		"warnings", len(doc.Warnings),
		"duration_ms", doc.Duration.Milliseconds(),
	)
	return doc, nil
}

func (p *Processor) extractStage(log *slog.Logger, text string) metrics.Metrics {
	start := time.Now()
	m := p.Extractor.Extract(text)
	for _, k := range metrics.Keys() {
		if m.Status(k) == constants.MetricUnparsed {
			log.Warn("pipeline.extract.unparsed", "metric", k.String())
		}
	}
	log.Info("pipeline.extract.ok", "found", m.Found(), "duration_ms", time.Since(start).Milliseconds())
	return m
}

func (p *Processor) summarizeStage(log *slog.Logger, text string) string {
	start := time.Now()
	s := p.Summarizer.Summarize(text, p.MaxSentences)
	log.Debug("pipeline.summarize.ok", "chars", len(s), "duration_ms", time.Since(start).Milliseconds())
	return s
}

// fileHash is the hex SHA-256 of the file's bytes.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
