package components

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASCIIChart_Empty(t *testing.T) {
	out := NewASCIIChart("Empty").Render()
	assert.Contains(t, out, "No data to chart")
}

func TestASCIIChart_Lowest(t *testing.T) {
	c := NewASCIIChart("t")
	c.Values = []float64{30, 10, 20, 10}

	assert.Equal(t, 1, c.Lowest(), "Expected the first of equal minima")
	assert.Equal(t, -1, NewASCIIChart("t").Lowest())
}

func TestASCIIChart_WithSizeClamps(t *testing.T) {
	c := NewASCIIChart("t").WithSize(1, 1)

	assert.Equal(t, 20, c.Width)
	assert.Equal(t, 4, c.Height)
}

func TestNewTaxCurve(t *testing.T) {
	engine := calculation.NewCalculationEngine()
	points := engine.ChartData(domain.ScenarioInput{
		Salary: decimal.NewFromInt(240000),
		Bonus:  decimal.NewFromInt(36000),
	})

	c := NewTaxCurve(points).WithSize(42, 6)
	require.Len(t, c.Values, len(points))
	assert.Equal(t, "0%", c.Labels[0])
	assert.Equal(t, "100%", c.Labels[len(c.Labels)-1])

	out := c.Render()
	assert.Contains(t, out, "lowest:")
	// Title, six plot rows, axis, labels and the lowest-point legend.
	assert.Len(t, strings.Split(out, "\n"), 10)
}

func TestFormatChartValue(t *testing.T) {
	assert.Equal(t, "¥950", formatChartValue(950))
	assert.Equal(t, "¥12.5K", formatChartValue(12500))
	assert.Equal(t, "¥1.2M", formatChartValue(1200000))
}

func TestMetricCard(t *testing.T) {
	out := NewMetricCard("Total tax", decimal.NewFromInt(36000)).WithNote("inside a cliff", true).Render()

	assert.Contains(t, out, "Total tax")
	assert.Contains(t, out, "36,000.00")
	assert.Contains(t, out, "inside a cliff")
}

func TestMetricGrid(t *testing.T) {
	cards := []*MetricCard{
		NewMetricCard("A", decimal.NewFromInt(1)),
		NewMetricCard("B", decimal.NewFromInt(2)),
		NewMetricCard("C", decimal.NewFromInt(3)),
	}

	assert.Empty(t, MetricGrid(nil, 2))
	out := MetricGrid(cards, 2)
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "3.00")
}
