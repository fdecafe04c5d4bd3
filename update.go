package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rshep3087/atmtui/session"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// always check for key presses first
	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := handleKeyPress(msg, &m); handled {
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case sessionChangedMsg:
		return m.handleSessionChanged()
	}

	if m.snapshot.Screen == session.ScreenHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	return m, nil
}
