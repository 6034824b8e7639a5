package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/finpro/constants"
	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: "sqlite://" + filepath.Join(t.TempDir(), "data", "finpro.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func newAnalysis(hash string, started time.Time) *entity.Analysis {
	var m metrics.Metrics
	m.Set(metrics.Revenue, 1.5e9)
	m.Set(metrics.OperatingMargin, 12.5)
	m.SetStatus(metrics.NetIncome, constants.MetricUnparsed)
	return &entity.Analysis{
		ID:          uuid.New(),
		Label:       "FY2024",
		Path:        "/tmp/report.pdf",
		Format:      constants.PDF,
		ContentHash: hash,
		Pages:       12,
		Images:      3,
		Metrics:     m,
		Summary:     "Revenue grew.",
		Warnings:    []string{"ocr layer: page 3: tesseract failed"},
		StartedAt:   started,
		Duration:    2 * time.Second,
	}
}

func TestAnalysisRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t), nil)
	a := newAnalysis("h1", time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC))
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Label, got.Label)
	assert.Equal(t, a.Pages, got.Pages)
	assert.Equal(t, a.Images, got.Images)
	assert.Equal(t, a.Summary, got.Summary)
	assert.Equal(t, a.Warnings, got.Warnings)
	assert.True(t, a.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, a.Duration, got.Duration)
	assert.Equal(t, a.Metrics, got.Metrics)
	assert.Equal(t, constants.MetricUnparsed, got.Metrics.Status(metrics.NetIncome))
	_, ok := got.Metrics.Get(metrics.Profit)
	assert.False(t, ok)

	assert.Error(t, repo.Save(ctx, a), "duplicate id")
}

func TestAnalysisRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t), nil)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.LatestByHash(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAnalysisRepository_ListAndLatest(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t), nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newAnalysis("same", base)
	newer := newAnalysis("same", base.Add(time.Hour))
	other := newAnalysis("other", base.Add(30*time.Minute))
	for _, a := range []*entity.Analysis{older, newer, other} {
		require.NoError(t, repo.Save(ctx, a))
	}

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{newer.ID, other.ID, older.ID}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})

	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	latest, err := repo.LatestByHash(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestParseDSN(t *testing.T) {
	cases := []struct {
		dsn     string
		dialect Dialect
		target  string
		wantErr bool
	}{
		{dsn: "sqlite:///var/lib/finpro.db", dialect: DialectSQLite, target: "/var/lib/finpro.db"},
		{dsn: "finpro.db", dialect: DialectSQLite, target: "finpro.db"},
		{dsn: "postgres://u:p@localhost/finpro", dialect: DialectPostgres, target: "postgres://u:p@localhost/finpro"},
		{dsn: "postgresql://localhost/finpro", dialect: DialectPostgres, target: "postgresql://localhost/finpro"},
		{dsn: "mysql://localhost", wantErr: true},
		{dsn: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.dsn, func(t *testing.T) {
			d, target, err := parseDSN(tc.dsn)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.dialect, d)
			assert.Equal(t, tc.target, target)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DialectPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	lite := &DB{Dialect: DialectSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}
