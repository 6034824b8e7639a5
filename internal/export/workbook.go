package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

// workbook wraps an excelize file and keeps the first cell-write error so the
// fill code can stay linear.
type workbook struct {
	f         *excelize.File
	kinds     map[metrics.Kind]int
	bold      int
	pctChange int
	err       error
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetMetrics); err != nil {
		return nil, err
	}
	w := &workbook{f: f, kinds: make(map[metrics.Kind]int, len(numFmts))}
	for kind, nf := range numFmts {
		nf := nf
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &nf})
		if err != nil {
			return nil, fmt.Errorf("xlsx style: %w", err)
		}
		w.kinds[kind] = id
	}
	var err error
	if w.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	pct := "+0.00%;-0.00%;0.00%"
	if w.pctChange, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pct}); err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	return w, nil
}

func (w *workbook) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

func (w *workbook) style(sheet string, col, row, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, cell, cell, style)
}

func (w *workbook) header(sheet string, titles ...string) {
	for i, h := range titles {
		w.set(sheet, i+1, 1, h)
		w.style(sheet, i+1, 1, w.bold)
	}
}

// value writes a metric as a formatted number, or "Not found".
func (w *workbook) value(sheet string, col, row int, k metrics.Key, v float64, ok bool) {
	if !ok {
		w.set(sheet, col, row, notFound)
		return
	}
	w.set(sheet, col, row, v)
	w.style(sheet, col, row, w.kinds[k.Kind()])
}

func (w *workbook) ptr(sheet string, col, row int, k metrics.Key, v *float64) {
	if v == nil {
		w.value(sheet, col, row, k, 0, false)
		return
	}
	w.value(sheet, col, row, k, *v, true)
}

func (w *workbook) summarySheet(list []*entity.Analysis) error {
	if _, err := w.f.NewSheet(sheetSummary); err != nil {
		return err
	}
	w.header(sheetSummary, "Label", "File", "Pages", "Status", "Summary", "Warnings")
	for i, a := range list {
		row := i + 2
		w.set(sheetSummary, 1, row, a.DisplayLabel())
		w.set(sheetSummary, 2, row, a.Path)
		w.set(sheetSummary, 3, row, a.Pages)
		w.set(sheetSummary, 4, row, string(a.Status()))
		w.set(sheetSummary, 5, row, a.Summary)
		w.set(sheetSummary, 6, row, len(a.Warnings))
	}
	_ = w.f.SetColWidth(sheetSummary, "A", "A", 16)
	_ = w.f.SetColWidth(sheetSummary, "B", "B", 40)
	_ = w.f.SetColWidth(sheetSummary, "E", "E", 80)
	return nil
}

// chartSheet writes the shared rows as chart data and adds a clustered
// column chart next to it.
func (w *workbook) chartSheet(labelA, labelB string, rows []compare.Row) error {
	if _, err := w.f.NewSheet(sheetChart); err != nil {
		return err
	}
	w.header(sheetChart, "Metric", labelA, labelB)
	for i, r := range rows {
		row := i + 2
		w.set(sheetChart, 1, row, r.Key.Label())
		w.set(sheetChart, 2, row, *r.A)
		w.set(sheetChart, 3, row, *r.B)
	}
	if w.err != nil {
		return w.err
	}

	last := len(rows) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheetChart, last)
	series := make([]excelize.ChartSeries, 0, 2)
	for _, name := range []string{"B", "C"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", sheetChart, name),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheetChart, name, name, last),
		})
	}
	return w.f.AddChart(sheetChart, "E2", &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("%s vs %s", labelA, labelB)}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}

func (w *workbook) bytes() ([]byte, error) {
	if idx, err := w.f.GetSheetIndex(sheetMetrics); err == nil {
		w.f.SetActiveSheet(idx)
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
