package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/atmtui/session"
)

type keyMap struct {
	digit       key.Binding
	point       key.Binding
	backspace   key.Binding
	clear       key.Binding
	enter       key.Binding
	balance     key.Binding
	withdraw    key.Binding
	deposit     key.Binding
	history     key.Binding
	exit        key.Binding
	quickAmount key.Binding
	custom      key.Binding
	back        key.Binding
	fullHelp    key.Binding
	quit        key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.digit,
		km.enter,
		km.balance,
		km.withdraw,
		km.deposit,
		km.history,
		km.exit,
		km.quickAmount,
		km.custom,
		km.back,
		km.quit,
		km.fullHelp,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			km.digit,
			km.point,
			km.backspace,
			km.clear,
			km.enter,
		},
		{
			km.balance,
			km.withdraw,
			km.deposit,
			km.history,
			km.exit,
		},
		{
			km.quickAmount,
			km.custom,
			km.back,
			km.quit,
			km.fullHelp,
		},
	}
}

func initializeKeyMap() keyMap {
	keys := keyMap{
		digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		point: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "decimal point"),
		),
		backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "backspace"),
		),
		clear: key.NewBinding(
			key.WithKeys("delete", "ctrl+u"),
			key.WithHelp("del", "clear"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "enter"),
		),
		balance: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "balance"),
		),
		withdraw: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "withdraw"),
		),
		deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit"),
		),
		history: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "transactions"),
		),
		exit: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "exit session"),
		),
		quickAmount: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "quick amount"),
		),
		custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom amount"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		fullHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	return keys
}

// setScreen enables the bindings that make sense on screen s.
// While the success overlay is up only quit and help stay active.
func (km *keyMap) setScreen(s session.Screen, overlay bool) {
	keypad := !overlay && (s == session.ScreenPIN || s.IsCustomAmount())
	amounts := !overlay && (s == session.ScreenWithdraw || s == session.ScreenDeposit)
	menu := !overlay && s == session.ScreenMenu
	_, hasBack := s.Parent()

	km.digit.SetEnabled(keypad)
	km.point.SetEnabled(keypad && s.IsCustomAmount())
	km.backspace.SetEnabled(keypad)
	km.clear.SetEnabled(keypad)
	km.enter.SetEnabled(keypad)

	km.balance.SetEnabled(menu)
	km.withdraw.SetEnabled(menu)
	km.deposit.SetEnabled(menu)
	km.history.SetEnabled(menu)
	km.exit.SetEnabled(menu)

	km.quickAmount.SetEnabled(amounts)
	km.custom.SetEnabled(amounts)
	km.back.SetEnabled(!overlay && hasBack)

	if s.IsCustomAmount() {
		km.enter.SetHelp("enter", "confirm")
	} else {
		km.enter.SetHelp("enter", "enter")
	}
}

func handleKeyPress(msg tea.KeyMsg, m *model) (tea.Cmd, bool) {
	log.Debug("key pressed", "key", msg.String(), "screen", m.snapshot.Screen)

	// Handle special keys first
	if cmd, handled := handleSpecialKeys(msg, m); handled {
		return cmd, true
	}

	// Drop input while the success overlay is showing
	if isInputBlocked(m) {
		return nil, true
	}

	if cmd, handled := handleKeypadKeys(msg, m); handled {
		return cmd, true
	}

	if cmd, handled := handleAmountKeys(msg, m); handled {
		return cmd, true
	}

	return handleNavigationKeys(msg, m)
}

func handleSpecialKeys(msg tea.KeyMsg, m *model) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.fullHelp):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	}

	return nil, false
}

func isInputBlocked(m *model) bool {
	return m.snapshot.OverlayActive()
}

// handleKeypadKeys drives the PIN pad and the custom amount pad.
func handleKeypadKeys(msg tea.KeyMsg, m *model) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.digit), key.Matches(msg, m.keys.point):
		return m.dispatch(session.Digit(msg.Runes[0])), true
	case key.Matches(msg, m.keys.backspace):
		return m.dispatch(session.Backspace()), true
	case key.Matches(msg, m.keys.clear):
		return m.dispatch(session.Clear()), true
	case key.Matches(msg, m.keys.enter):
		return m.dispatch(session.Enter()), true
	}

	return nil, false
}

// handleAmountKeys applies a quick amount on the withdraw and deposit screens.
func handleAmountKeys(msg tea.KeyMsg, m *model) (tea.Cmd, bool) {
	if !key.Matches(msg, m.keys.quickAmount) {
		return nil, false
	}

	amounts := session.QuickAmounts(m.snapshot.Screen)
	i := int(msg.Runes[0] - '1')
	if i < 0 || i >= len(amounts) {
		return nil, true
	}

	return m.dispatch(session.SelectAmount(amounts[i])), true
}

func handleNavigationKeys(msg tea.KeyMsg, m *model) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.balance):
		return m.dispatch(session.Navigate(session.ScreenBalance)), true
	case key.Matches(msg, m.keys.withdraw):
		return m.dispatch(session.Navigate(session.ScreenWithdraw)), true
	case key.Matches(msg, m.keys.deposit):
		return m.dispatch(session.Navigate(session.ScreenDeposit)), true
	case key.Matches(msg, m.keys.history):
		return m.dispatch(session.Navigate(session.ScreenHistory)), true
	case key.Matches(msg, m.keys.exit):
		return m.dispatch(session.Exit()), true
	case key.Matches(msg, m.keys.custom):
		return handleCustomAmount(m), true
	case key.Matches(msg, m.keys.back):
		return handleBack(m), true
	}

	return nil, false
}

func handleCustomAmount(m *model) tea.Cmd {
	target := session.ScreenCustomWithdraw
	if m.snapshot.Screen == session.ScreenDeposit {
		target = session.ScreenCustomDeposit
	}

	return m.dispatch(session.Navigate(target))
}

// handleBack returns to the parent screen.
func handleBack(m *model) tea.Cmd {
	parent, ok := m.snapshot.Screen.Parent()
	if !ok {
		return nil
	}

	log.Debug("handling back", "from", m.snapshot.Screen, "to", parent)
	return m.dispatch(session.Navigate(parent))
}
