package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

const (
	sheetMetrics = "Metrics"
	sheetSummary = "Summary"
	sheetChart   = "Chart"
	notFound     = "Not found"
)

var numFmts = map[metrics.Kind]string{
	metrics.KindAmount:   `"$"#,##0.00`,
	metrics.KindPerShare: `"$"#,##0.00`,
	metrics.KindPercent:  `0.00"%"`,
	metrics.KindRatio:    `0.00`,
}

// Service produces XLSX workbooks for analyses and comparisons.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// AnalysisXLSX returns a workbook with a Metrics sheet (one row per key) and
// a Summary sheet.
func (s *Service) AnalysisXLSX(a *entity.Analysis) ([]byte, error) {
	start := time.Now()
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	w.header(sheetMetrics, "Metric", "Key", "Value", "Status")
	for i, k := range metrics.Keys() {
		row := i + 2
		w.set(sheetMetrics, 1, row, k.Label())
		w.set(sheetMetrics, 2, row, k.String())
		v, ok := a.Metrics.Get(k)
		w.value(sheetMetrics, 3, row, k, v, ok)
		w.set(sheetMetrics, 4, row, string(a.Metrics.Status(k)))
	}
	_ = w.f.SetColWidth(sheetMetrics, "A", "B", 22)
	_ = w.f.SetColWidth(sheetMetrics, "C", "C", 20)
	_ = w.f.SetColWidth(sheetMetrics, "D", "D", 14)

	if err := w.summarySheet([]*entity.Analysis{a}); err != nil {
		return nil, err
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx fill: %w", w.err)
	}

	b, err := w.bytes()
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"kind", "analysis",
		"analysis_id", a.ID.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// ComparisonXLSX returns a workbook with both periods side by side, a
// Summary sheet and a clustered column chart over the metrics present in
// both periods.
func (s *Service) ComparisonXLSX(a, b *entity.Analysis, c compare.Comparison) ([]byte, error) {
	start := time.Now()
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	w.header(sheetMetrics, "Metric", c.LabelA, c.LabelB, "Change", "Change %")
	for i, r := range c.Rows {
		row := i + 2
		w.set(sheetMetrics, 1, row, r.Key.Label())
		w.ptr(sheetMetrics, 2, row, r.Key, r.A)
		w.ptr(sheetMetrics, 3, row, r.Key, r.B)
		w.ptr(sheetMetrics, 4, row, r.Key, r.Delta)
		if r.PercentChange != nil {
			w.set(sheetMetrics, 5, row, *r.PercentChange/100)
			w.style(sheetMetrics, 5, row, w.pctChange)
		} else {
			w.set(sheetMetrics, 5, row, "-")
		}
	}
	_ = w.f.SetColWidth(sheetMetrics, "A", "A", 22)
	_ = w.f.SetColWidth(sheetMetrics, "B", "D", 20)
	_ = w.f.SetColWidth(sheetMetrics, "E", "E", 12)

	if err := w.summarySheet([]*entity.Analysis{a, b}); err != nil {
		return nil, err
	}
	shared := c.Shared()
	if len(shared) > 0 {
		if err := w.chartSheet(c.LabelA, c.LabelB, shared); err != nil {
			return nil, err
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx fill: %w", w.err)
	}

	out, err := w.bytes()
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"kind", "comparison",
		"a", a.ID.String(),
		"b", b.ID.String(),
		"charted", len(shared),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
