package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/document"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
	"github.com/joseph-ayodele/finpro/internal/summarize"
)

// DocumentReader turns a file into raw text.
type DocumentReader interface {
	Read(ctx context.Context, path string) (document.Document, error)
}

// MetricExtractor parses metrics out of raw text.
type MetricExtractor interface {
	Extract(text string) metrics.Metrics
}

// TextSummarizer picks the leading sentences of raw text.
type TextSummarizer interface {
	Summarize(text string, maxSentences int) string
}

// AnalysisStore persists finished analyses. LatestByHash returns an error
// wrapping common.ErrNotFound when nothing matches.
type AnalysisStore interface {
	Save(ctx context.Context, a *entity.Analysis) error
	LatestByHash(ctx context.Context, hash string) (*entity.Analysis, error)
}

// Processor coordinates read, extract and summarize for one document at a time.
type Processor struct {
	Logger       *slog.Logger
	Reader       DocumentReader
	Extractor    MetricExtractor
	Summarizer   TextSummarizer
	Store        AnalysisStore // optional
	MaxSentences int
	// Reuse returns a stored analysis of identical content instead of
	// reading the file again. Needs a Store.
	Reuse bool
	// OnRead, when set, receives every document right after it is read.
	// Reuse is skipped so the hook always sees the text.
	OnRead func(document.Document)
}

type Option func(*Processor)

func WithStore(s AnalysisStore) Option { return func(p *Processor) { p.Store = s } }

func WithMaxSentences(n int) Option { return func(p *Processor) { p.MaxSentences = n } }

func WithReuse(reuse bool) Option { return func(p *Processor) { p.Reuse = reuse } }

func WithOnRead(fn func(document.Document)) Option { return func(p *Processor) { p.OnRead = fn } }

func NewProcessor(logger *slog.Logger, reader DocumentReader, extractor MetricExtractor, summarizer TextSummarizer, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		Logger:       logger,
		Reader:       reader,
		Extractor:    extractor,
		Summarizer:   summarizer,
		MaxSentences: summarize.DefaultMaxSentences,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Analyze reads the document at path, extracts its metrics and summary and,
// when a store is configured, saves the result. Failures to read come back
// as an AppError with code ANALYSIS_FAILED wrapping the document error.
// A failed save returns the finished analysis together with a STORE_ERROR.
func (p *Processor) Analyze(ctx context.Context, path, label string) (*entity.Analysis, error) {
	start := time.Now()
	id := uuid.New()
	log := common.LoggerFromContext(ctx, p.Logger).With("analysis_id", id.String(), "path", path)
	ctx = common.WithLogger(ctx, log)

	hash, err := fileHash(path)
	if err != nil {
		log.Error("pipeline.hash.failed", "error", err)
		return nil, analysisFailed(path, fmt.Errorf("%w: %v", document.ErrUnreadable, err))
	}

	if prev := p.reuse(ctx, log, hash); prev != nil {
		return prev, nil
	}

	doc, err := p.readStage(ctx, log, path)
	if err != nil {
		return nil, analysisFailed(path, err)
	}
	if p.OnRead != nil {
		p.OnRead(doc)
	}
	m := p.extractStage(log, doc.Text)
	summary := p.summarizeStage(log, doc.Text)

	a := &entity.Analysis{
		ID:          id,
		Label:       label,
		Path:        path,
		Format:      doc.Format,
		ContentHash: hash,
		Pages:       doc.Pages,
		Images:      doc.Images,
		Metrics:     m,
		Summary:     summary,
		Warnings:    doc.WarningStrings(),
		StartedAt:   start.UTC(),
		Duration:    time.Since(start),
	}

	if p.Store != nil {
		if err := p.Store.Save(ctx, a); err != nil {
			log.Error("pipeline.store.failed", "error", err)
			return a, common.NewAppError(common.CodeStore, "save analysis", err)
		}
		log.Debug("pipeline.store.ok")
	}

	log.Info("pipeline.analyze.ok",
		"label", label,
		"found", m.Found(),
		"status", a.Status(),
		"duration_ms", a.Duration.Milliseconds(),
	)
	return a, nil
}

// ComparisonResult carries both analyses next to their row-wise comparison.
type ComparisonResult struct {
	A     *entity.Analysis
	B     *entity.Analysis
	Table compare.Comparison
}

// Compare analyzes the first document completely, then the second, then
// compares them. Either failure aborts the comparison.
func (p *Processor) Compare(ctx context.Context, pathA, labelA, pathB, labelB string) (*ComparisonResult, error) {
	a, err := p.Analyze(ctx, pathA, labelA)
	if err != nil {
		return nil, fmt.Errorf("first document: %w", err)
	}
	b, err := p.Analyze(ctx, pathB, labelB)
	if err != nil {
		return nil, fmt.Errorf("second document: %w", err)
	}
	table := compare.Build(a.DisplayLabel(), a.Metrics, b.DisplayLabel(), b.Metrics)
	p.Logger.Info("pipeline.compare.ok",
		"a", a.ID.String(),
		"b", b.ID.String(),
		"shared", len(table.Shared()),
	)
	return &ComparisonResult{A: a, B: b, Table: table}, nil
}

func (p *Processor) reuse(ctx context.Context, log *slog.Logger, hash string) *entity.Analysis {
	if !p.Reuse || p.Store == nil || p.OnRead != nil {
		return nil
	}
	prev, err := p.Store.LatestByHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Warn("pipeline.reuse.lookup_failed", "error", err)
		}
		return nil
	}
	log.Info("pipeline.reuse.ok", "previous_id", prev.ID.String())
	return prev
}

func analysisFailed(path string, err error) error {
	return common.NewAppError(common.CodeAnalysisFailed, fmt.Sprintf("analyze %s", path), err)
}
