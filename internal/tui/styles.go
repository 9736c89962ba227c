package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxsplit/internal/output"
)

// Styles shared with the console formatter plus the chrome only the TUI needs.
var (
	TitleStyle   = output.TitleStyle
	LabelStyle   = output.LabelStyle
	SectionStyle = output.SectionStyle
	WarningStyle = output.WarningStyle

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(output.ColorMuted).
			Italic(true)

	FocusStyle = lipgloss.NewStyle().
			Foreground(output.ColorPrimary).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E05656")).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(output.ColorMuted).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(output.ColorMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(output.ColorPrimary).
			Padding(0, 1).
			MarginRight(1)
)
