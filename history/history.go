// Package history renders the kiosk's recent transactions as a table.
package history

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Rshep3087/atmtui/ledger"
)

// EmptyMessage is shown instead of the table when there are no transactions.
const EmptyMessage = "No recent transactions found."

var titleCaser = cases.Title(language.English)

type Colors struct {
	Primary string
	Muted   string
	Income  string
	Expense string
}

type Model struct {
	transactions table.Model
	empty        bool
	deposited    decimal.Decimal
	withdrawn    decimal.Decimal
	emptyStyle   lipgloss.Style
	incomeStyle  lipgloss.Style
	expenseStyle lipgloss.Style
}

func New(colors Colors) Model {
	transactions := table.New(
		table.WithColumns([]table.Column{
			{Title: "Type", Width: 12},
			{Title: "Date", Width: 24},
			{Title: "Amount", Width: 16},
		}),
	)

	tableStyle := table.DefaultStyles()
	tableStyle.Selected = tableStyle.Selected.
		Foreground(lipgloss.Color(colors.Primary))

	transactions.SetStyles(tableStyle)

	return Model{
		transactions: transactions,
		empty:        true,
		emptyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted)),
		incomeStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Income)),
		expenseStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Expense)),
	}
}

func (m *Model) SetFocus(focus bool) {
	if focus {
		m.transactions.Focus()
	} else {
		m.transactions.Blur()
	}
}

func (m *Model) SetSize(width, height int) {
	m.transactions.SetHeight(height)
	m.transactions.SetWidth(width)
}

// SetTransactions replaces the table rows and the in/out totals.
// Transactions are expected newest first.
func (m *Model) SetTransactions(txs []ledger.Transaction) {
	m.deposited, m.withdrawn = decimal.Zero, decimal.Zero

	rows := make([]table.Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, table.Row{
			titleCaser.String(t.Kind.String()),
			t.Timestamp,
			t.SignedAmount(),
		})

		if t.Kind == ledger.Withdrawal {
			m.withdrawn = m.withdrawn.Add(t.Amount)
		} else {
			m.deposited = m.deposited.Add(t.Amount)
		}
	}

	m.empty = len(rows) == 0
	m.transactions.SetRows(rows)
	m.transactions.GotoTop()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.transactions, cmd = m.transactions.Update(msg)
	return *m, cmd
}

func (m *Model) View() string {
	if m.empty {
		return m.emptyStyle.Render(EmptyMessage)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.transactions.View(),
		m.Summary(),
	)
}

// Summary renders the deposit total in the income colour and the
// withdrawal total in the expense colour.
func (m *Model) Summary() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.incomeStyle.Render("In +"+ledger.USD(m.deposited)),
		"   ",
		m.expenseStyle.Render("Out -"+ledger.USD(m.withdrawn)),
	)
}
