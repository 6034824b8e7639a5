package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

// Analysis is the outcome of running one document through the pipeline.
// The raw document text is deliberately not part of it.
type Analysis struct {
	ID          uuid.UUID       `json:"id"`
	Label       string          `json:"label"`
	Path        string          `json:"path"`
	Format      string          `json:"format"`
	ContentHash string          `json:"content_hash"`
	Pages       int             `json:"pages"`
	Images      int             `json:"images"`
	Metrics     metrics.Metrics `json:"metrics"`
	Summary     string          `json:"summary"`
	Warnings    []string        `json:"warnings,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration"`
}

// DisplayLabel falls back to the file path when no label was given.
func (a *Analysis) DisplayLabel() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Path
}

// Status summarizes how complete the analysis is.
func (a *Analysis) Status() constants.AnalysisStatus {
	if len(a.Warnings) > 0 {
		return constants.AnalysisStatusPartial
	}
	return constants.AnalysisStatusOK
}
