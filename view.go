package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/atmtui/ledger"
	"github.com/Rshep3087/atmtui/session"
)

const bankName = "Terminal Bank"

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	var content string
	if m.snapshot.OverlayActive() {
		content = m.successView()
	} else {
		content = m.screenView()
	}

	if m.snapshot.Error != "" && !m.snapshot.OverlayActive() {
		content = lipgloss.JoinVertical(lipgloss.Center,
			content,
			"",
			m.styles.errorStyle.Render(m.snapshot.Error),
		)
	}

	b.WriteString(m.styles.screenStyle.Render(content))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.docStyle.Render(b.String())
}

func (m model) renderTitle() string {
	vs := currentView(m.snapshot)
	if vs == screenView {
		return m.styles.titleStyle.Render(fmt.Sprintf("atmtui | %s", m.snapshot.Screen))
	}

	return m.styles.titleStyle.Render(fmt.Sprintf("atmtui | %s | %s", m.snapshot.Screen, vs))
}

func (m model) screenView() string {
	switch m.snapshot.Screen {
	case session.ScreenPIN:
		return m.pinView()
	case session.ScreenMenu:
		return m.menuView()
	case session.ScreenBalance:
		return m.balanceView()
	case session.ScreenWithdraw, session.ScreenDeposit:
		return m.amountsView()
	case session.ScreenCustomWithdraw, session.ScreenCustomDeposit:
		return m.customAmountView()
	case session.ScreenHistory:
		return m.historyView()
	}

	return ""
}

func (m model) pinView() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.headingStyle.Render("Welcome to "+bankName),
		m.styles.textStyle.Render("Please Enter Your PIN"),
		"",
		m.styles.displayStyle.Render(pinMask(m.snapshot.PINMaskLength)),
	)
}

// pinMask renders one '*' per entered digit, padded to the PIN length.
func pinMask(n int) string {
	n = min(max(n, 0), session.PINLength)
	cells := make([]string, session.PINLength)
	for i := range cells {
		cells[i] = "_"
		if i < n {
			cells[i] = "*"
		}
	}
	return strings.Join(cells, " ")
}

func (m model) menuView() string {
	items := []struct {
		key   string
		label string
	}{
		{"b", "Check Balance"},
		{"w", "Withdraw Cash"},
		{"d", "Deposit Cash"},
		{"h", "Transactions"},
	}

	lines := []string{m.styles.headingStyle.Render("Main Menu")}
	for _, item := range items {
		lines = append(lines, m.menuLine(m.styles.menuKeyStyle, item.key, item.label))
	}
	lines = append(lines, "", m.menuLine(m.styles.exitKeyStyle, "x", "Exit Session"))

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m model) menuLine(keyStyle lipgloss.Style, k, label string) string {
	return fmt.Sprintf("%s %s", keyStyle.Render("["+k+"]"), m.styles.textStyle.Render(label))
}

func (m model) balanceView() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.textStyle.Render("Your current balance is:"),
		"",
		m.styles.moneyStyle.Render(ledger.USD(m.snapshot.Balance)),
	)
}

func (m model) amountsView() string {
	title := "Withdraw Cash"
	if m.snapshot.Screen == session.ScreenDeposit {
		title = "Deposit Cash"
	}

	lines := []string{
		m.styles.headingStyle.Render(title),
		m.styles.mutedStyle.Render("Select an amount or enter a custom value."),
		"",
	}
	for i, amount := range session.QuickAmounts(m.snapshot.Screen) {
		lines = append(lines, m.menuLine(m.styles.menuKeyStyle, fmt.Sprint(i+1), "$"+amount.String()))
	}
	lines = append(lines, m.menuLine(m.styles.menuKeyStyle, "c", "Custom Amount"))

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m model) customAmountView() string {
	kind := "Withdrawal"
	if m.snapshot.Screen == session.ScreenCustomDeposit {
		kind = "Deposit"
	}

	amount := m.snapshot.AmountText
	if amount == "" {
		amount = "0.00"
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.headingStyle.Render(fmt.Sprintf("Enter %s Amount", kind)),
		m.styles.displayStyle.Foreground(m.theme.Success).Render("$"+amount),
	)
}

func (m model) historyView() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.headingStyle.Render("Transaction History"),
		m.history.View(),
	)
}

func (m model) successView() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.successStyle.Render("✓ "+m.snapshot.SuccessMessage),
		"",
		fmt.Sprintf("%s %s", m.overlaySpinner.View(), m.styles.mutedStyle.Render("Returning to main menu...")),
	)
}
