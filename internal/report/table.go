// Package report renders analyses and comparisons for the terminal and as
// schema-checked JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/joseph-ayodele/finpro/internal/compare"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// MetricsTable renders one Metric/Value row per key.
func MetricsTable(m metrics.Metrics) string {
	t := newTable("Metric", "Value")
	values := m.Values()
	for _, k := range metrics.Keys() {
		t.Row(k.Label(), FormatValue(k, values[k.String()]))
	}
	return t.Render()
}

// RenderAnalysis is the full terminal view of one analysis: heading,
// metrics table, summary and layer warnings.
func RenderAnalysis(a *entity.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Financial metrics: "+a.DisplayLabel()))
	fmt.Fprintf(&b, "%d pages, %s of %s metrics found\n",
		a.Pages, humanize.Comma(int64(a.Metrics.Found())), humanize.Comma(int64(len(metrics.Keys()))))
	b.WriteString(MetricsTable(a.Metrics))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	if a.Summary == "" {
		b.WriteString("(no sentences found)")
	} else {
		b.WriteString(a.Summary)
	}
	b.WriteString("\n")
	if len(a.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d layer warning(s):", len(a.Warnings))))
		b.WriteString("\n")
		for _, w := range a.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}
	return b.String()
}

// RenderComparison renders both periods side by side with delta and
// percent change.
func RenderComparison(c compare.Comparison) string {
	t := newTable("Metric", c.LabelA, c.LabelB, "Change", "Change %")
	for _, r := range c.Rows {
		t.Row(
			r.Key.Label(),
			FormatValue(r.Key, r.A),
			FormatValue(r.Key, r.B),
			FormatDelta(r.Key, r.Delta),
			FormatPercentChange(r.PercentChange),
		)
	}
	return titleStyle.Render(fmt.Sprintf("Comparison: %s vs %s", c.LabelA, c.LabelB)) + "\n" + t.Render()
}

// RenderHistory lists stored analyses, newest first.
func RenderHistory(list []*entity.Analysis) string {
	if len(list) == 0 {
		return mutedStyle.Render("no analyses stored") + "\n"
	}
	t := newTable("Started", "Label", "File", "Pages", "Found", "Status", "ID")
	for _, a := range list {
		t.Row(
			humanize.Time(a.StartedAt),
			a.Label,
			a.Path,
			humanize.Comma(int64(a.Pages)),
			fmt.Sprintf("%d/%d", a.Metrics.Found(), len(metrics.Keys())),
			string(a.Status()),
			a.ID.String(),
		)
	}
	return t.Render() + "\n"
}
