package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
)

// ASCIIChart plots one series of values as a column chart and marks its lowest point.
type ASCIIChart struct {
	Title  string
	Values []float64
	Labels []string
	Width  int
	Height int
}

// NewASCIIChart creates an empty chart with a default size.
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:  title,
		Width:  60,
		Height: 10,
	}
}

// NewTaxCurve plots total tax against the separately taxed share of the bonus.
func NewTaxCurve(points []domain.ChartPoint) *ASCIIChart {
	c := NewASCIIChart("Total tax by separately taxed share of bonus")
	for _, p := range points {
		c.Values = append(c.Values, p.TotalTax.InexactFloat64())
		c.Labels = append(c.Labels, fmt.Sprintf("%d%%", p.SeparatePercent))
	}
	return c
}

// WithSize sets the plot area, clamped to a readable minimum.
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = max(width, 20)
	c.Height = max(height, 4)
	return c
}

// Lowest returns the index of the first smallest value, or -1 for an empty chart.
func (c *ASCIIChart) Lowest() int {
	idx := -1
	for i, v := range c.Values {
		if idx < 0 || v < c.Values[idx] {
			idx = i
		}
	}
	return idx
}

// Render returns the chart as styled text.
func (c *ASCIIChart) Render() string {
	if len(c.Values) == 0 {
		return lipgloss.NewStyle().Foreground(output.ColorMuted).Render("No data to chart")
	}

	lo, hi := c.Values[0], c.Values[0]
	for _, v := range c.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	// Each value gets a fixed-width column so labels line up underneath.
	colWidth := max(c.Width/len(c.Values), 1)
	lowest := c.Lowest()

	var b strings.Builder
	b.WriteString(output.SectionStyle.Render(c.Title))
	b.WriteString("\n")

	axisStyle := lipgloss.NewStyle().Foreground(output.ColorMuted)
	barStyle := lipgloss.NewStyle().Foreground(output.ColorPrimary)
	lowStyle := lipgloss.NewStyle().Foreground(output.ColorSuccess).Bold(true)

	for row := c.Height; row >= 1; row-- {
		threshold := lo + span*float64(row-1)/float64(c.Height)
		label := ""
		if row == c.Height || row == 1 {
			label = formatChartValue(lo + span*float64(row)/float64(c.Height))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%8s", label)))
		b.WriteString(" │")
		for i, v := range c.Values {
			cell := strings.Repeat(" ", colWidth)
			// The lowest row always carries a mark so equal values stay visible.
			if v > threshold || row == 1 {
				mark := "█"
				style := barStyle
				if i == lowest {
					style = lowStyle
				}
				cell = style.Render(mark) + strings.Repeat(" ", colWidth-1)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", 9))
	b.WriteString("└")
	b.WriteString(strings.Repeat("─", colWidth*len(c.Values)))
	b.WriteString("\n")

	if len(c.Labels) > 0 {
		b.WriteString(c.renderXAxisLabels(colWidth))
		b.WriteString("\n")
	}
	b.WriteString(lowStyle.Render(fmt.Sprintf("█ lowest: %s at %s", formatChartValue(c.Values[lowest]), c.labelAt(lowest))))
	return b.String()
}

func (c *ASCIIChart) labelAt(i int) string {
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return fmt.Sprintf("#%d", i)
}

// renderXAxisLabels prints the first label and then one wherever it fits without overlap.
func (c *ASCIIChart) renderXAxisLabels(colWidth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 10))
	pos := 0
	for i, label := range c.Labels {
		start := i * colWidth
		if start < pos {
			continue
		}
		b.WriteString(strings.Repeat(" ", start-pos))
		b.WriteString(label)
		pos = start + len(label) + 1
		b.WriteString(" ")
	}
	return lipgloss.NewStyle().Foreground(output.ColorMuted).Render(b.String())
}

// formatChartValue abbreviates a yuan amount for the y-axis.
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("¥%.1fM", value/1000000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("¥%.1fK", value/1000)
	}
	return fmt.Sprintf("¥%.0f", value)
}
