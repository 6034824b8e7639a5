package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/entity"
)

// timeLayout is fixed-width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type AnalysisRepository interface {
	Save(ctx context.Context, a *entity.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error)
	List(ctx context.Context, limit int) ([]*entity.Analysis, error)
	LatestByHash(ctx context.Context, hash string) (*entity.Analysis, error)
}

type analysisRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewAnalysisRepository(db *DB, logger *slog.Logger) AnalysisRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &analysisRepository{db: db, logger: logger}
}

const selectColumns = `SELECT id, label, path, format, content_hash, pages, images,
	metrics, diagnostics, summary, warnings, started_at, duration_ms FROM analyses`

func (r *analysisRepository) Save(ctx context.Context, a *entity.Analysis) error {
	metricsJSON, err := json.Marshal(a.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	diagJSON, err := json.Marshal(a.Metrics.Diagnostics())
	if err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = r.db.SQL.ExecContext(ctx, r.db.rebind(`INSERT INTO analyses
		(id, label, path, format, content_hash, pages, images, status, metrics, diagnostics, summary, warnings, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID.String(), a.Label, a.Path, a.Format, a.ContentHash, a.Pages, a.Images, string(a.Status()),
		string(metricsJSON), string(diagJSON), a.Summary, string(warnJSON),
		a.StartedAt.UTC().Format(timeLayout), a.Duration.Milliseconds(),
	)
	if err != nil {
		r.logger.Error("failed to save analysis", "analysis_id", a.ID, "error", err)
		return fmt.Errorf("%w: save analysis: %v", common.ErrDatabase, err)
	}
	r.logger.Debug("analysis saved", "analysis_id", a.ID)
	return nil
}

func (r *analysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error) {
	row := r.db.SQL.QueryRowContext(ctx, r.db.rebind(selectColumns+` WHERE id = ?`), id.String())
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get analysis", "analysis_id", id, "error", err)
		return nil, err
	}
	return a, nil
}

// List returns the newest analyses first; limit <= 0 means no limit.
func (r *analysisRepository) List(ctx context.Context, limit int) ([]*entity.Analysis, error) {
	q := selectColumns + ` ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		r.logger.Error("failed to list analyses", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *analysisRepository) LatestByHash(ctx context.Context, hash string) (*entity.Analysis, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		r.db.rebind(selectColumns+` WHERE content_hash = ? ORDER BY started_at DESC LIMIT 1`), hash)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis with hash %s: %w", hash, common.ErrNotFound)
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*entity.Analysis, error) {
	var (
		a                                 entity.Analysis
		id, metricsJSON, diagJSON, warnJS string
		startedAt                         string
		durationMS                        int64
	)
	if err := s.Scan(&id, &a.Label, &a.Path, &a.Format, &a.ContentHash, &a.Pages, &a.Images,
		&metricsJSON, &diagJSON, &a.Summary, &warnJS, &startedAt, &durationMS); err != nil {
		return nil, err
	}
	var err error
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("decode id: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &a.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	var diag map[string]constants.MetricStatus
	if err := json.Unmarshal([]byte(diagJSON), &diag); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}
	if err := a.Metrics.ApplyDiagnostics(diag); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(warnJS), &a.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}
	if len(a.Warnings) == 0 {
		a.Warnings = nil
	}
	if a.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("decode started_at: %w", err)
	}
	a.Duration = time.Duration(durationMS) * time.Millisecond
	return &a, nil
}
