package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/finpro/internal/metrics"
)

func TestBuild(t *testing.T) {
	var a, b metrics.Metrics
	a.Set(metrics.Revenue, 500e6)
	b.Set(metrics.Revenue, 550e6)
	a.Set(metrics.NetIncome, 0)
	b.Set(metrics.NetIncome, 10)
	a.Set(metrics.TotalAssets, -200)
	b.Set(metrics.TotalAssets, -100)
	b.Set(metrics.Profit, 42)

	c := Build("2023", a, "2024", b)
	require.Len(t, c.Rows, len(metrics.Keys()))
	for i, k := range metrics.Keys() {
		assert.Equal(t, k, c.Rows[i].Key)
	}

	rev := c.Rows[metrics.Revenue]
	require.True(t, rev.Both())
	assert.InDelta(t, 50e6, *rev.Delta, 1e-6)
	assert.InDelta(t, 10.0, *rev.PercentChange, 1e-9)

	ni := c.Rows[metrics.NetIncome]
	assert.InDelta(t, 10.0, *ni.Delta, 1e-9)
	assert.Nil(t, ni.PercentChange, "percent change needs a non-zero base")

	ta := c.Rows[metrics.TotalAssets]
	assert.InDelta(t, 50.0, *ta.PercentChange, 1e-9, "negative bases divide by magnitude")

	profit := c.Rows[metrics.Profit]
	assert.Nil(t, profit.A)
	assert.Equal(t, 42.0, *profit.B)
	assert.Nil(t, profit.Delta, "absent is never coerced to zero")

	eps := c.Rows[metrics.EarningsPerShare]
	assert.Nil(t, eps.A)
	assert.Nil(t, eps.B)

	shared := c.Shared()
	assert.Len(t, shared, 3)
	assert.Equal(t, "2023", c.LabelA)
}
