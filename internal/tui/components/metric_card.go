package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/shopspring/decimal"
)

// MetricCard displays one labelled amount with an optional note underneath.
type MetricCard struct {
	Label string
	Value string
	Note  string
	Warn  bool
	Width int
}

// NewMetricCard formats amount as currency.
func NewMetricCard(label string, amount decimal.Decimal) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: output.FormatCurrency(amount),
		Width: 24,
	}
}

// WithNote adds a muted line under the value. warn renders it as a warning instead.
func (m *MetricCard) WithNote(note string, warn bool) *MetricCard {
	m.Note = note
	m.Warn = warn
	return m
}

// Render returns the bordered card.
func (m *MetricCard) Render() string {
	content := output.LabelStyle.Render(m.Label) + "\n" + output.HighlightStyle.Render(m.Value)
	if m.Note != "" {
		style := output.LabelStyle
		if m.Warn {
			style = output.WarningStyle
		}
		content += "\n" + style.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(output.ColorMuted).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid lays cards out left to right, wrapping after columns cards.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns < 1 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
