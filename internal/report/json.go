package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/entity"
)

// AnalysisDoc is the JSON shape of one analysis.
type AnalysisDoc struct {
	ID          string                            `json:"id"`
	Label       string                            `json:"label"`
	Path        string                            `json:"path"`
	Format      string                            `json:"format,omitempty"`
	ContentHash string                            `json:"content_hash,omitempty"`
	Pages       int                               `json:"pages"`
	Images      int                               `json:"images"`
	Status      constants.AnalysisStatus          `json:"status"`
	Metrics     map[string]*float64               `json:"metrics"`
	Diagnostics map[string]constants.MetricStatus `json:"diagnostics"`
	Summary     string                            `json:"summary"`
	Warnings    []string                          `json:"warnings"`
	StartedAt   string                            `json:"started_at,omitempty"`
	DurationMS  int64                             `json:"duration_ms"`
}

// RowDoc is one metric of a comparison.
type RowDoc struct {
	Metric        string   `json:"metric"`
	Label         string   `json:"label"`
	A             *float64 `json:"a"`
	B             *float64 `json:"b"`
	Delta         *float64 `json:"delta"`
	PercentChange *float64 `json:"percent_change"`
}

// ComparisonDoc is the JSON shape of a two-period comparison.
type ComparisonDoc struct {
	A    AnalysisDoc `json:"a"`
	B    AnalysisDoc `json:"b"`
	Rows []RowDoc    `json:"rows"`
}

// NewAnalysisDoc flattens an analysis for JSON output.
func NewAnalysisDoc(a *entity.Analysis) AnalysisDoc {
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	doc := AnalysisDoc{
		ID:          a.ID.String(),
		Label:       a.Label,
		Path:        a.Path,
		Format:      a.Format,
		ContentHash: a.ContentHash,
		Pages:       a.Pages,
		Images:      a.Images,
		Status:      a.Status(),
		Metrics:     a.Metrics.Values(),
		Diagnostics: a.Metrics.Diagnostics(),
		Summary:     a.Summary,
		Warnings:    warnings,
		DurationMS:  a.Duration.Milliseconds(),
	}
	if !a.StartedAt.IsZero() {
		doc.StartedAt = a.StartedAt.Format(time.RFC3339)
	}
	return doc
}

// JSON encodes one analysis and validates it against the analysis schema.
func JSON(a *entity.Analysis) ([]byte, error) {
	return encode(analysisSchema, NewAnalysisDoc(a))
}

// ComparisonJSON encodes both analyses with their comparison rows and
// validates the result against the comparison schema.
func ComparisonJSON(a, b *entity.Analysis, c compare.Comparison) ([]byte, error) {
	doc := ComparisonDoc{A: NewAnalysisDoc(a), B: NewAnalysisDoc(b), Rows: make([]RowDoc, 0, len(c.Rows))}
	for _, r := range c.Rows {
		doc.Rows = append(doc.Rows, RowDoc{
			Metric:        r.Key.String(),
			Label:         r.Key.Label(),
			A:             r.A,
			B:             r.B,
			Delta:         r.Delta,
			PercentChange: r.PercentChange,
		})
	}
	return encode(comparisonSchema, doc)
}

func encode(schema string, v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := validate(schema, b); err != nil {
		return nil, err
	}
	return b, nil
}
