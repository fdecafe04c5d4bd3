package main

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/atmtui/ledger"
	"github.com/Rshep3087/atmtui/session"
)

// sessionChangedMsg is sent when an overlay timer changed the session.
type sessionChangedMsg struct{}

// Message handlers.
func (m model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h, v := m.styles.docStyle.GetFrameSize()

	m.history.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.help.Width = msg.Width

	return m, nil
}

func (m model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if !m.snapshot.OverlayActive() {
		return m, nil
	}

	var cmd tea.Cmd
	m.overlaySpinner, cmd = m.overlaySpinner.Update(msg)
	return m, cmd
}

func (m model) handleSessionChanged() (tea.Model, tea.Cmd) {
	cmd := m.refresh()
	log.Debug("session changed by timer", "screen", m.snapshot.Screen)
	return m, cmd
}

// currentView classifies what the snapshot shows on top of its screen.
func currentView(s session.Snapshot) viewState {
	switch {
	case s.OverlayActive():
		return successView
	case s.Error == session.Message(ledger.Withdrawal, session.ErrInsufficientFunds):
		return insufficientFundsView
	case s.Error != "":
		return errorView
	}

	return screenView
}

// forwardChanges relays session change signals into the program until ctx is done.
func forwardChanges(ctx context.Context, changes <-chan struct{}, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			send(sessionChangedMsg{})
		}
	}
}
