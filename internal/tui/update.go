package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		m.err = nil
		return m, nil

	case ResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
			delete(m.results, msg.Scene)
			return m, nil
		}
		m.err = nil
		m.results[msg.Scene] = msg.Result
		return m, nil
	}

	// Anything else, such as cursor blinks, belongs to the focused input.
	if f := m.forms[m.currentScene]; f != nil {
		return m, f.update(msg)
	}
	return m, nil
}

// handleKeyPress handles global shortcuts first, then form editing.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		return m, navigateCmd(SceneHelp)
	case "esc":
		if m.currentScene == SceneHelp {
			return m, navigateCmd(m.previousScene)
		}
		return m, navigateCmd(SceneOptimal)
	case "o":
		return m, navigateCmd(SceneOptimal)
	case "r":
		return m, navigateCmd(SceneReverse)
	case "y":
		return m, navigateCmd(SceneYearEnd)
	case "c":
		return m, navigateCmd(SceneCliffs)
	}

	f := m.forms[m.currentScene]
	if f == nil {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m, f.move(1)
	case "shift+tab", "up":
		return m, f.move(-1)
	case "enter":
		values, err := f.values()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, calculateCmd(m.engine, m.currentScene, values)
	}

	// Letters never belong in an amount.
	if msg.Type == tea.KeyRunes && !isAmountInput(msg.Runes) {
		return m, nil
	}
	return m, f.update(msg)
}
