package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/atmtui/config"
	"github.com/Rshep3087/atmtui/history"
	"github.com/Rshep3087/atmtui/session"
)

type model struct {
	// ctrl owns the kiosk session; the model only renders its snapshots
	ctrl *session.Controller
	// snapshot is the session state as of the last refresh
	snapshot session.Snapshot

	keys keyMap
	help help.Model

	theme  Theme
	styles styles

	// overlaySpinner animates the "Returning to main menu..." line
	overlaySpinner spinner.Model
	history        history.Model
}

func newModel(ctrl *session.Controller, cfg config.Config) model {
	theme := newTheme(cfg.Colors)

	m := model{
		ctrl:   ctrl,
		keys:   initializeKeyMap(),
		help:   createHelpModel(theme),
		theme:  theme,
		styles: createStyles(theme),
		overlaySpinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Success)),
		),
		history: history.New(theme.historyColors()),
	}
	m.refresh()

	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

// refresh re-reads the session and syncs the key bindings and history table to it.
// It returns a spinner tick when the success overlay has just appeared.
func (m *model) refresh() tea.Cmd {
	wasOverlay := m.snapshot.OverlayActive()

	m.snapshot = m.ctrl.Snapshot()
	m.keys.setScreen(m.snapshot.Screen, m.snapshot.OverlayActive())
	m.history.SetTransactions(m.snapshot.Transactions)
	m.history.SetFocus(m.snapshot.Screen == session.ScreenHistory)

	if !wasOverlay && m.snapshot.OverlayActive() {
		return m.overlaySpinner.Tick
	}
	return nil
}

// dispatch sends an event to the session and refreshes the model.
func (m *model) dispatch(ev session.Event) tea.Cmd {
	m.ctrl.Dispatch(ev)
	return m.refresh()
}

func main() {
	Execute()
}
