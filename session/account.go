package session

import (
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/atmtui/ledger"
)

// Account is the money side of the kiosk: the balance and the transaction ledger.
// It outlives individual sessions, so ResetSession leaves it untouched.
// An Account must only be mutated through the Controller that owns it.
type Account struct {
	balance decimal.Decimal
	ledger  *ledger.Ledger
}

// NewAccount returns an account with the given opening balance.
// A nil ledger is replaced with one of ledger.DefaultCapacity.
func NewAccount(balance decimal.Decimal, l *ledger.Ledger) *Account {
	if l == nil {
		l = ledger.New(ledger.DefaultCapacity)
	}
	return &Account{balance: balance, ledger: l}
}
