package export

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

func analysis(label string, revenue float64) *entity.Analysis {
	var m metrics.Metrics
	m.Set(metrics.Revenue, revenue)
	m.Set(metrics.OperatingMargin, 12.5)
	return &entity.Analysis{ID: uuid.New(), Label: label, Path: label + ".pdf", Pages: 3, Metrics: m, Summary: "Revenue rose."}
}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestAnalysisXLSX(t *testing.T) {
	b, err := NewService(nil).AnalysisXLSX(analysis("FY2024", 5e8))
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, []string{sheetMetrics, sheetSummary}, f.GetSheetList())
	assert.Equal(t, "Metric", raw(t, f, sheetMetrics, "A1"))
	assert.Equal(t, "Revenue", raw(t, f, sheetMetrics, "A2"))
	assert.Equal(t, "500000000", raw(t, f, sheetMetrics, "C2"))
	assert.Equal(t, "found", raw(t, f, sheetMetrics, "D2"))
	assert.Equal(t, notFound, raw(t, f, sheetMetrics, "C3"))
	assert.Equal(t, "not_matched", raw(t, f, sheetMetrics, "D3"))
	assert.Equal(t, "Revenue rose.", raw(t, f, sheetSummary, "E2"))
}

func TestComparisonXLSX(t *testing.T) {
	a, b := analysis("2023", 5e8), analysis("2024", 5.5e8)
	b.Metrics.Set(metrics.NetIncome, 1)
	c := compare.Build(a.Label, a.Metrics, b.Label, b.Metrics)

	out, err := NewService(nil).ComparisonXLSX(a, b, c)
	require.NoError(t, err)
	f := open(t, out)

	assert.Equal(t, []string{sheetMetrics, sheetSummary, sheetChart}, f.GetSheetList())
	assert.Equal(t, "2023", raw(t, f, sheetMetrics, "B1"))
	assert.Equal(t, "50000000", raw(t, f, sheetMetrics, "D2"))
	assert.Equal(t, "0.1", raw(t, f, sheetMetrics, "E2"))
	assert.Equal(t, notFound, raw(t, f, sheetMetrics, "B4"), "net income absent in the first period")
	assert.Equal(t, "-", raw(t, f, sheetMetrics, "E4"))

	// only revenue and operating margin are present in both periods
	assert.Equal(t, "Revenue", raw(t, f, sheetChart, "A2"))
	assert.Equal(t, "Operating Margin", raw(t, f, sheetChart, "A3"))
	assert.Equal(t, "", raw(t, f, sheetChart, "A4"))
}

func TestComparisonXLSX_NoSharedMetrics(t *testing.T) {
	var empty metrics.Metrics
	a := &entity.Analysis{ID: uuid.New(), Label: "a", Metrics: empty}
	b := &entity.Analysis{ID: uuid.New(), Label: "b", Metrics: empty}
	out, err := NewService(nil).ComparisonXLSX(a, b, compare.Build("a", empty, "b", empty))
	require.NoError(t, err)
	assert.Equal(t, []string{sheetMetrics, sheetSummary}, open(t, out).GetSheetList())
}
