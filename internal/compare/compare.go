// Package compare lines up the metrics of two reporting periods.
package compare

import (
	"math"

	"github.com/joseph-ayodele/finpro/internal/metrics"
)

// Row is one metric across both periods. Nil pointers mean absent.
type Row struct {
	Key           metrics.Key `json:"key"`
	A             *float64    `json:"a"`
	B             *float64    `json:"b"`
	Delta         *float64    `json:"delta"`
	PercentChange *float64    `json:"percent_change"`
}

// Both reports whether the metric was found in both periods.
func (r Row) Both() bool { return r.A != nil && r.B != nil }

// Comparison is the row-per-key view of two Metrics.
type Comparison struct {
	LabelA string `json:"label_a"`
	LabelB string `json:"label_b"`
	Rows   []Row  `json:"rows"`
}

// Build compares a against b in metrics.Keys() order. Absent values are never
// treated as zero: delta needs both values, percent change also needs a != 0.
func Build(labelA string, a metrics.Metrics, labelB string, b metrics.Metrics) Comparison {
	keys := metrics.Keys()
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		r := Row{Key: k, A: lookup(a, k), B: lookup(b, k)}
		if r.Both() {
			d := *r.B - *r.A
			r.Delta = &d
			if *r.A != 0 {
				pct := d / math.Abs(*r.A) * 100
				r.PercentChange = &pct
			}
		}
		rows = append(rows, r)
	}
	return Comparison{LabelA: labelA, LabelB: labelB, Rows: rows}
}

// Shared returns the rows found in both periods.
func (c Comparison) Shared() []Row {
	var out []Row
	for _, r := range c.Rows {
		if r.Both() {
			out = append(out, r)
		}
	}
	return out
}

func lookup(m metrics.Metrics, k metrics.Key) *float64 {
	v, ok := m.Get(k)
	if !ok {
		return nil
	}
	return &v
}
