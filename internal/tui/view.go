package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/rgehrsitz/taxsplit/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneOptimal, SceneReverse, SceneYearEnd:
		content = m.renderFormScene()
	case SceneCliffs:
		content = m.console(m.engine.CliffIntervals())
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-4, 1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("taxsplit - salary and bonus tax planner"),
		SubtitleStyle.Render(m.currentScene.String()),
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("o", "optimal"),
		formatShortcut("r", "reverse"),
		formatShortcut("y", "year-end"),
		formatShortcut("c", "cliffs"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	if m.forms[m.currentScene] != nil {
		shortcuts = append([]string{formatShortcut("tab", "next field"), formatShortcut("enter", "calculate")}, shortcuts...)
	}
	return StatusBarStyle.Width(max(m.width, 20)).Render(strings.Join(shortcuts, "  "))
}

func formatShortcut(key, desc string) string {
	return FocusStyle.Render(key) + " " + desc
}

// renderFormScene puts the inputs on the left and the latest result on the right.
func (m Model) renderFormScene() string {
	left := PanelStyle.Render(m.forms[m.currentScene].view())
	if m.err != nil {
		left = lipgloss.JoinVertical(lipgloss.Left, left, ErrorStyle.Render("Error: "+m.err.Error()))
	}

	var right string
	switch r := m.results[m.currentScene].(type) {
	case nil:
		right = SubtitleStyle.Render("Enter amounts and press enter.")
	case optimalResult:
		right = m.renderOptimal(r)
	case domain.ReversePlan:
		right = m.console(output.ReverseReport{Plan: r, Advice: calculation.PlanningAdvice(r)})
	default:
		right = m.console(r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderOptimal(r optimalResult) string {
	p := r.Plan
	separate := components.NewMetricCard("Separate tax", p.Separate.TotalTax)
	combined := components.NewMetricCard("Combined tax", p.Combined.TotalTax)
	saving := components.NewMetricCard("Saving", p.TaxSaving).
		WithNote(p.OptimalMode.DisplayName()+" wins", false)
	if p.Cliff.InCliff {
		saving.WithNote(p.Cliff.Suggestion, true)
	}
	cards := components.MetricGrid([]*components.MetricCard{separate, combined, saving}, 3)

	chartWidth := max(m.width-40, 20)
	chart := components.NewTaxCurve(r.Curve).WithSize(chartWidth, 8).Render()
	return lipgloss.JoinVertical(lipgloss.Left, cards, "", chart)
}

// console reuses the console formatter for panels that are plain reports.
func (m Model) console(v any) string {
	data, err := output.ConsoleFormatter{}.Format(v)
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}
	return strings.TrimRight(string(data), "\n")
}

func (m Model) renderHelp() string {
	help := `Scenes
  o  Separate vs combined taxation of a fixed salary and bonus
  r  Reverse plan: split a total income into salary and bonus
  y  Year-end: allocate the bonus between separate and merged taxation
  c  Bonus cliff intervals under the loaded rules

Editing
  tab / down      next field
  shift+tab / up  previous field
  enter           calculate
  esc             back

Amounts accept digits, a decimal point and thousands separators.`
	return lipgloss.JoinVertical(lipgloss.Left,
		SectionStyle.Render("Help"),
		help,
		"",
		LabelStyle.Render(fmt.Sprintf("Rules data year %d", m.engine.Rules.Metadata.DataYear)),
	)
}
